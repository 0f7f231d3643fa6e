package analyses

import (
	"context"
	"errors"
	"strings"

	"cvai-core/internal/models"
	"cvai-core/internal/scoring"
	"cvai-core/internal/shared/telemetry"
	"cvai-core/internal/store"
)

// DefaultLetterName names drafts that were not given one.
const DefaultLetterName = "My Cover Letter"

// LetterFields are the caller-supplied inputs of a cover letter draft.
type LetterFields struct {
	CVID           string
	Name           string
	JobTitle       string
	CompanyName    string
	JobDescription string
}

// CoverLetter is one cover letter workflow instance. Generate drafts the
// letter; Save persists a possibly edited draft.
type CoverLetter struct {
	engine  *Engine
	machine Machine
	// result is guarded by the machine lock.
	result models.CoverLetter
}

func (w *CoverLetter) State() State { return w.machine.State() }

func (w *CoverLetter) Reset() {
	w.machine.reset(func() { w.result = models.CoverLetter{} })
}

// Result returns the draft once the instance has completed.
func (w *CoverLetter) Result() (models.CoverLetter, bool) {
	var (
		out models.CoverLetter
		ok  bool
	)
	w.machine.view(func(st State) {
		if st == Completed {
			out, ok = w.result, true
		}
	})
	return out, ok
}

// Generate drafts a letter. The draft carries a fresh id and zero timestamps
// and is not persisted.
func (w *CoverLetter) Generate(ctx context.Context, fields LetterFields) (models.CoverLetter, error) {
	e := w.engine
	title := strings.TrimSpace(fields.JobTitle)
	company := strings.TrimSpace(fields.CompanyName)
	jd := strings.TrimSpace(fields.JobDescription)
	cvID := strings.TrimSpace(fields.CVID)
	if title == "" || company == "" || jd == "" {
		return models.CoverLetter{}, ErrMissingInput
	}

	var cvText string
	if cvID != "" {
		cv, err := e.lookupCV(ctx, cvID)
		if err != nil {
			return models.CoverLetter{}, err
		}
		cvText = cv.Text()
	}

	userID, applicant, err := e.applicant(ctx)
	if err != nil {
		return models.CoverLetter{}, err
	}

	return execute(ctx, e, &w.machine, step[models.CoverLetter]{
		kind:   KindCoverLetter,
		fields: map[string]any{"cv_id": cvID},
		commit: w.setResult,
		compute: func(runCtx context.Context) (models.CoverLetter, error) {
			content, err := e.Generator.CoverLetter(runCtx, scoring.LetterInput{
				JobTitle:       title,
				CompanyName:    company,
				JobDescription: jd,
				CVText:         cvText,
				ApplicantName:  applicant,
			})
			if err != nil {
				return models.CoverLetter{}, err
			}
			name := strings.TrimSpace(fields.Name)
			if name == "" {
				name = DefaultLetterName
			}
			return models.CoverLetter{
				ID:             e.Store.GenerateID(),
				UserID:         userID,
				CVID:           cvID,
				Name:           name,
				JobTitle:       title,
				CompanyName:    company,
				JobDescription: fields.JobDescription,
				Content:        content,
			}, nil
		},
	})
}

// setResult runs as the completion commit, under the machine lock.
func (w *CoverLetter) setResult(l models.CoverLetter) {
	w.result = l
}

// applicant returns the profile id and name, or a placeholder user id when no
// profile is stored.
func (e *Engine) applicant(ctx context.Context) (string, string, error) {
	p, err := e.Store.GetUserProfile(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return "user-" + e.Store.GenerateID(), "", nil
	case err != nil:
		return "", "", err
	}
	return p.ID, p.Name, nil
}

// Save persists letter. The first save of an id stamps createdAt and
// updatedAt with the same instant; later saves keep createdAt.
func (w *CoverLetter) Save(ctx context.Context, letter models.CoverLetter) (models.CoverLetter, error) {
	return w.engine.SaveCoverLetter(ctx, letter)
}

// SaveCoverLetter persists a drafted or edited letter.
func (e *Engine) SaveCoverLetter(ctx context.Context, letter models.CoverLetter) (models.CoverLetter, error) {
	if strings.TrimSpace(letter.Content) == "" ||
		strings.TrimSpace(letter.JobTitle) == "" ||
		strings.TrimSpace(letter.CompanyName) == "" {
		return models.CoverLetter{}, ErrMissingInput
	}
	if cvID := strings.TrimSpace(letter.CVID); cvID != "" {
		if _, err := e.lookupCV(ctx, cvID); err != nil {
			return models.CoverLetter{}, err
		}
	}
	if strings.TrimSpace(letter.ID) == "" {
		letter.ID = e.Store.GenerateID()
	}
	if strings.TrimSpace(letter.Name) == "" {
		letter.Name = DefaultLetterName
	}

	// the store keeps an already stored createdAt
	now := e.Store.Now()
	letter.CreatedAt, letter.UpdatedAt = now, now

	saved, err := e.Store.SaveCoverLetter(ctx, letter)
	if err != nil {
		return models.CoverLetter{}, err
	}
	telemetry.Info("cover_letter.saved", map[string]any{
		"request_id": telemetry.RequestID(ctx),
		"letter_id":  saved.ID,
		"cv_id":      saved.CVID,
	})
	return saved, nil
}

