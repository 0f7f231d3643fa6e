package analyses

import (
	"context"
	"strings"

	"cvai-core/internal/models"
	"cvai-core/internal/scoring"
	"cvai-core/internal/shared/telemetry"
	"cvai-core/internal/uploads"
)

// ReviewRequest selects a stored CV or carries an uploaded document. A
// stored CV wins when both are given.
type ReviewRequest struct {
	CVID   string
	Upload *uploads.Document
}

// Review is one CV review workflow instance.
type Review struct {
	engine  *Engine
	machine Machine
	// result is guarded by the machine lock.
	result models.CVReview
}

func (w *Review) State() State { return w.machine.State() }

// Reset returns the instance to Idle, cancelling any in-flight run.
func (w *Review) Reset() {
	w.machine.reset(func() { w.result = models.CVReview{} })
}

// Result returns the stored review once the instance has completed.
func (w *Review) Result() (models.CVReview, bool) {
	var (
		out models.CVReview
		ok  bool
	)
	w.machine.view(func(st State) {
		if st == Completed {
			out, ok = w.result, true
		}
	})
	return out, ok
}

// Run validates the request, scores the CV or document and persists the
// review.
func (w *Review) Run(ctx context.Context, req ReviewRequest) (models.CVReview, error) {
	e := w.engine
	cvID := strings.TrimSpace(req.CVID)
	if cvID == "" && req.Upload.IsEmpty() {
		return models.CVReview{}, ErrMissingInput
	}

	var cv models.CV
	if cvID != "" {
		var err error
		if cv, err = e.lookupCV(ctx, cvID); err != nil {
			return models.CVReview{}, err
		}
	}

	return execute(ctx, e, &w.machine, step[models.CVReview]{
		kind:   KindReview,
		fields: map[string]any{"cv_id": cvID},
		commit: w.setResult,
		undo: func(ctx context.Context, r models.CVReview) error {
			return e.Store.DeleteReview(ctx, r.ID)
		},
		compute: func(runCtx context.Context) (models.CVReview, error) {
			input := scoring.ReviewInput{}
			if cvID != "" {
				input.CVText = cv.Text()
			} else {
				input.DocumentName = req.Upload.Name
				text, err := req.Upload.Text(runCtx)
				if err != nil {
					telemetry.Warn("review.extract_failed", map[string]any{
						"request_id":    telemetry.RequestID(ctx),
						"document_name": req.Upload.Name,
						"error":         err,
					})
				}
				input.CVText = text
			}

			result, err := e.Scorer.Review(runCtx, input)
			if err != nil {
				return models.CVReview{}, err
			}
			result = result.Normalize()

			record := models.CVReview{
				ID:       e.Store.GenerateID(),
				CVID:     cvID,
				Source:   models.SourceCV,
				Score:    result.Score,
				Feedback: models.NewReviewFeedback(result.Strengths, result.Improvements, result.Suggestions),
			}
			if cvID == "" {
				record.CVID = "uploaded-" + e.Store.GenerateID()
				record.Source = models.SourceUpload
				record.DocumentName = req.Upload.Name
			}
			record.CreatedAt = e.Store.Now()

			if err := runCtx.Err(); err != nil {
				return models.CVReview{}, err
			}
			return e.Store.SaveReview(runCtx, record)
		},
	})
}

// setResult runs as the completion commit, under the machine lock.
func (w *Review) setResult(r models.CVReview) {
	w.result = r
}
