package analyses

import (
	"context"
	"strings"

	"cvai-core/internal/models"
	"cvai-core/internal/scoring"
)

// JobMatch is one job match workflow instance.
type JobMatch struct {
	engine  *Engine
	machine Machine
	// result is guarded by the machine lock.
	result models.JobMatch
}

func (w *JobMatch) State() State { return w.machine.State() }

func (w *JobMatch) Reset() {
	w.machine.reset(func() { w.result = models.JobMatch{} })
}

func (w *JobMatch) Result() (models.JobMatch, bool) {
	var (
		out models.JobMatch
		ok  bool
	)
	w.machine.view(func(st State) {
		if st == Completed {
			out, ok = w.result, true
		}
	})
	return out, ok
}

// Run matches the stored CV against jobDescription and persists the result.
func (w *JobMatch) Run(ctx context.Context, cvID, jobDescription string) (models.JobMatch, error) {
	e := w.engine
	cvID = strings.TrimSpace(cvID)
	jd := strings.TrimSpace(jobDescription)
	if cvID == "" || jd == "" {
		return models.JobMatch{}, ErrMissingInput
	}
	cv, err := e.lookupCV(ctx, cvID)
	if err != nil {
		return models.JobMatch{}, err
	}

	return execute(ctx, e, &w.machine, step[models.JobMatch]{
		kind:   KindJobMatch,
		fields: map[string]any{"cv_id": cvID},
		commit: w.setResult,
		undo: func(ctx context.Context, m models.JobMatch) error {
			return e.Store.DeleteJobMatch(ctx, m.ID)
		},
		compute: func(runCtx context.Context) (models.JobMatch, error) {
			result, err := e.Scorer.Match(runCtx, scoring.MatchInput{CVText: cv.Text(), JobDescription: jd})
			if err != nil {
				return models.JobMatch{}, err
			}
			result = result.Normalize()

			record := models.JobMatch{
				ID:             e.Store.GenerateID(),
				CVID:           cv.ID,
				JobDescription: jobDescription,
				MatchScore:     result.MatchScore,
				MissingSkills:  result.MissingSkills,
				Suggestions:    result.Suggestions,
				CreatedAt:      e.Store.Now(),
			}
			if err := runCtx.Err(); err != nil {
				return models.JobMatch{}, err
			}
			return e.Store.SaveJobMatch(runCtx, record)
		},
	})
}

// setResult runs as the completion commit, under the machine lock.
func (w *JobMatch) setResult(m models.JobMatch) {
	w.result = m
}
