// Package analyses runs the CV review, job match and cover letter workflows
// and exposes them over HTTP.
package analyses

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cvai-core/internal/models"
	"cvai-core/internal/scoring"
	"cvai-core/internal/shared/metrics"
	"cvai-core/internal/shared/telemetry"
	"cvai-core/internal/store"
)

const (
	KindReview      = "review"
	KindJobMatch    = "job_match"
	KindCoverLetter = "cover_letter"
)

// Store is the persistence the workflows need.
type Store interface {
	GenerateID() string
	Now() time.Time

	GetCV(ctx context.Context, id string) (models.CV, error)
	GetUserProfile(ctx context.Context) (models.UserProfile, error)

	SaveReview(ctx context.Context, r models.CVReview) (models.CVReview, error)
	ListReviews(ctx context.Context) ([]models.CVReview, error)
	ListReviewsByCV(ctx context.Context, cvID string) ([]models.CVReview, error)
	GetReview(ctx context.Context, id string) (models.CVReview, error)
	DeleteReview(ctx context.Context, id string) error

	SaveJobMatch(ctx context.Context, m models.JobMatch) (models.JobMatch, error)
	ListJobMatches(ctx context.Context) ([]models.JobMatch, error)
	ListJobMatchesByCV(ctx context.Context, cvID string) ([]models.JobMatch, error)
	GetJobMatch(ctx context.Context, id string) (models.JobMatch, error)
	DeleteJobMatch(ctx context.Context, id string) error

	SaveCoverLetter(ctx context.Context, l models.CoverLetter) (models.CoverLetter, error)
	ListCoverLetters(ctx context.Context) ([]models.CoverLetter, error)
	GetCoverLetter(ctx context.Context, id string) (models.CoverLetter, error)
	DeleteCoverLetter(ctx context.Context, id string) error
}

// Engine constructs workflow instances over a store and scoring strategy.
type Engine struct {
	Store     Store
	Scorer    scoring.Scorer
	Generator scoring.Generator
	// Timeout bounds a single computation; zero means no limit.
	Timeout time.Duration
}

// NewEngine constructs an Engine.
func NewEngine(st Store, scorer scoring.Scorer, gen scoring.Generator, timeout time.Duration) *Engine {
	return &Engine{Store: st, Scorer: scorer, Generator: gen, Timeout: timeout}
}

func (e *Engine) NewReview() *Review           { return &Review{engine: e} }
func (e *Engine) NewJobMatch() *JobMatch       { return &JobMatch{engine: e} }
func (e *Engine) NewCoverLetter() *CoverLetter { return &CoverLetter{engine: e} }

// ReviewCV runs a one-shot review.
func (e *Engine) ReviewCV(ctx context.Context, req ReviewRequest) (models.CVReview, error) {
	return e.NewReview().Run(ctx, req)
}

// MatchJob runs a one-shot job match.
func (e *Engine) MatchJob(ctx context.Context, cvID, jobDescription string) (models.JobMatch, error) {
	return e.NewJobMatch().Run(ctx, cvID, jobDescription)
}

// GenerateCoverLetter drafts a letter without saving it.
func (e *Engine) GenerateCoverLetter(ctx context.Context, fields LetterFields) (models.CoverLetter, error) {
	return e.NewCoverLetter().Generate(ctx, fields)
}

// lookupCV resolves a referenced CV, mapping absence to ErrReferenceNotFound.
func (e *Engine) lookupCV(ctx context.Context, id string) (models.CV, error) {
	cv, err := e.Store.GetCV(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.CV{}, fmt.Errorf("%w: %s", ErrReferenceNotFound, id)
	}
	if err != nil {
		return models.CV{}, err
	}
	return cv, nil
}

// step is one workflow computation run by execute.
type step[T any] struct {
	kind    string
	fields  map[string]any
	compute func(ctx context.Context) (T, error)
	// commit stores the result on the instance under the machine lock.
	commit func(T)
	// undo removes what compute persisted when the attempt was reset before
	// it could complete.
	undo func(ctx context.Context, out T) error
}

// execute runs s.compute inside one Pending attempt of m. Any failure,
// including a cancelled context, aborts back to Idle; success commits the
// result and completes.
func execute[T any](ctx context.Context, e *Engine, m *Machine, s step[T]) (T, error) {
	var zero T
	attempt, err := m.Begin(ctx)
	if err != nil {
		return zero, err
	}

	start := time.Now()
	metrics.IncWorkflowStarted(s.kind)
	logTransition(ctx, s.kind, "idle->pending", s.fields, nil)

	runCtx := attempt.Context()
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, e.Timeout)
		defer cancel()
	}

	abort := func(cause error) (T, error) {
		attempt.Abort()
		metrics.IncWorkflowAborted(s.kind)
		metrics.ObserveWorkflowDurationMs(s.kind, msSince(start))
		logTransition(ctx, s.kind, "pending->idle", s.fields, cause)
		return zero, cause
	}

	out, err := s.compute(runCtx)
	if err != nil {
		return abort(err)
	}
	var commit func()
	if s.commit != nil {
		commit = func() { s.commit(out) }
	}
	if err := attempt.Complete(commit); err != nil {
		if s.undo != nil {
			if uerr := s.undo(context.WithoutCancel(ctx), out); uerr != nil {
				telemetry.Error("workflow.undo_failed", map[string]any{
					"request_id": telemetry.RequestID(ctx),
					"workflow":   s.kind,
					"error":      uerr,
				})
			}
		}
		return abort(err)
	}

	metrics.IncWorkflowCompleted(s.kind)
	metrics.ObserveWorkflowDurationMs(s.kind, msSince(start))
	logTransition(ctx, s.kind, "pending->completed", s.fields, nil)
	return out, nil
}

func logTransition(ctx context.Context, kind, transition string, fields map[string]any, cause error) {
	entry := map[string]any{
		"request_id":        telemetry.RequestID(ctx),
		"workflow":          kind,
		"status_transition": transition,
	}
	for k, v := range fields {
		entry[k] = v
	}
	if cause != nil {
		entry["error"] = cause
		telemetry.Warn("workflow.status", entry)
		return
	}
	telemetry.Info("workflow.status", entry)
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000.0
}
