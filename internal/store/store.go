// Package store persists career artifacts as JSON collections on a kv.Medium.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"cvai-core/internal/models"
	"cvai-core/internal/shared/metrics"
	"cvai-core/internal/shared/storage/kv"
	"cvai-core/internal/shared/telemetry"
)

// Fixed namespace keys on the medium.
const (
	KeyCVs          = "cvs"
	KeyReviews      = "cv_reviews"
	KeyJobMatches   = "job_matches"
	KeyCoverLetters = "cover_letters"
	KeyUserProfile  = "user_profile"
)

// Store is the persistence layer. Every read goes to the medium; the mutex
// serializes read-modify-write cycles inside the process.
type Store struct {
	medium kv.Medium
	clock  *Clock
	newID  func() string
	mu     sync.Mutex
}

// Option customizes a Store.
type Option func(*Store)

// WithClock replaces the default wall clock.
func WithClock(c *Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithIDGenerator replaces uuid.NewString.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// New constructs a Store over medium.
func New(medium kv.Medium, opts ...Option) *Store {
	s := &Store{medium: medium, clock: NewClock(nil), newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateID returns a fresh opaque identifier.
func (s *Store) GenerateID() string {
	return s.newID()
}

// Now returns the store clock's current time.
func (s *Store) Now() time.Time {
	return s.clock.Now()
}

// CurrentTimestamp returns Now in its sortable string form.
func (s *Store) CurrentTimestamp() string {
	return FormatTimestamp(s.clock.Now())
}

// ListCVs returns every stored CV in insertion order.
func (s *Store) ListCVs(ctx context.Context) ([]models.CV, error) {
	return load[models.CV](ctx, s.medium, KeyCVs)
}

// GetCV returns the CV with id or ErrNotFound.
func (s *Store) GetCV(ctx context.Context, id string) (models.CV, error) {
	return find(ctx, s.medium, KeyCVs, id, func(cv models.CV) string { return cv.ID })
}

// SaveCV upserts cv. A missing id is allocated; the stored createdAt is kept
// and updatedAt is set to now.
func (s *Store) SaveCV(ctx context.Context, cv models.CV) (models.CV, error) {
	if strings.TrimSpace(cv.ID) == "" {
		cv.ID = s.GenerateID()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return upsert(ctx, s.medium, KeyCVs, cv,
		func(c models.CV) string { return c.ID },
		func(existing *models.CV, c models.CV) (models.CV, error) {
			now := s.clock.Now()
			switch {
			case existing != nil && !existing.CreatedAt.IsZero():
				c.CreatedAt = existing.CreatedAt
			case c.CreatedAt.IsZero():
				c.CreatedAt = now
			}
			c.UpdatedAt = now
			if c.Sections == nil {
				c.Sections = []models.Section{}
			}
			return c, validateRecord(c.Validate())
		})
}

// DeleteCV removes the CV with id. Deleting an absent id succeeds.
func (s *Store) DeleteCV(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return remove(ctx, s.medium, KeyCVs, id, func(cv models.CV) string { return cv.ID })
}

// ListReviews returns every stored review in insertion order.
func (s *Store) ListReviews(ctx context.Context) ([]models.CVReview, error) {
	return load[models.CVReview](ctx, s.medium, KeyReviews)
}

// GetReview returns the review with id or ErrNotFound.
func (s *Store) GetReview(ctx context.Context, id string) (models.CVReview, error) {
	return find(ctx, s.medium, KeyReviews, id, func(r models.CVReview) string { return r.ID })
}

// ListReviewsByCV returns the reviews referencing cvID.
func (s *Store) ListReviewsByCV(ctx context.Context, cvID string) ([]models.CVReview, error) {
	all, err := s.ListReviews(ctx)
	if err != nil {
		return nil, err
	}
	return filter(all, func(r models.CVReview) bool { return r.CVID == cvID }), nil
}

// SaveReview upserts r, stamping createdAt when unset.
func (s *Store) SaveReview(ctx context.Context, r models.CVReview) (models.CVReview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return upsert(ctx, s.medium, KeyReviews, r,
		func(r models.CVReview) string { return r.ID },
		func(_ *models.CVReview, r models.CVReview) (models.CVReview, error) {
			if r.CreatedAt.IsZero() {
				r.CreatedAt = s.clock.Now()
			}
			r.Feedback = models.NewReviewFeedback(r.Feedback.Strengths, r.Feedback.Improvements, r.Feedback.Suggestions)
			return r, validateRecord(r.Validate())
		})
}

// DeleteReview removes the review with id. Deleting an absent id succeeds.
func (s *Store) DeleteReview(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return remove(ctx, s.medium, KeyReviews, id, func(r models.CVReview) string { return r.ID })
}

// ListJobMatches returns every stored job match in insertion order.
func (s *Store) ListJobMatches(ctx context.Context) ([]models.JobMatch, error) {
	return load[models.JobMatch](ctx, s.medium, KeyJobMatches)
}

// GetJobMatch returns the job match with id or ErrNotFound.
func (s *Store) GetJobMatch(ctx context.Context, id string) (models.JobMatch, error) {
	return find(ctx, s.medium, KeyJobMatches, id, func(m models.JobMatch) string { return m.ID })
}

// ListJobMatchesByCV returns the job matches referencing cvID.
func (s *Store) ListJobMatchesByCV(ctx context.Context, cvID string) ([]models.JobMatch, error) {
	all, err := s.ListJobMatches(ctx)
	if err != nil {
		return nil, err
	}
	return filter(all, func(m models.JobMatch) bool { return m.CVID == cvID }), nil
}

// SaveJobMatch upserts m, stamping createdAt when unset and deduplicating
// missing skills.
func (s *Store) SaveJobMatch(ctx context.Context, m models.JobMatch) (models.JobMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return upsert(ctx, s.medium, KeyJobMatches, m,
		func(m models.JobMatch) string { return m.ID },
		func(_ *models.JobMatch, m models.JobMatch) (models.JobMatch, error) {
			if m.CreatedAt.IsZero() {
				m.CreatedAt = s.clock.Now()
			}
			m.MissingSkills = models.DedupeSkills(m.MissingSkills)
			return m, validateRecord(m.Validate())
		})
}

// DeleteJobMatch removes the job match with id. Deleting an absent id succeeds.
func (s *Store) DeleteJobMatch(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return remove(ctx, s.medium, KeyJobMatches, id, func(m models.JobMatch) string { return m.ID })
}

// ListCoverLetters returns every stored cover letter in insertion order.
func (s *Store) ListCoverLetters(ctx context.Context) ([]models.CoverLetter, error) {
	return load[models.CoverLetter](ctx, s.medium, KeyCoverLetters)
}

// GetCoverLetter returns the cover letter with id or ErrNotFound.
func (s *Store) GetCoverLetter(ctx context.Context, id string) (models.CoverLetter, error) {
	return find(ctx, s.medium, KeyCoverLetters, id, func(l models.CoverLetter) string { return l.ID })
}

// SaveCoverLetter upserts l. The caller stamps both timestamps; a stored
// createdAt wins over the given one and updatedAt never precedes it.
func (s *Store) SaveCoverLetter(ctx context.Context, l models.CoverLetter) (models.CoverLetter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return upsert(ctx, s.medium, KeyCoverLetters, l,
		func(l models.CoverLetter) string { return l.ID },
		func(existing *models.CoverLetter, l models.CoverLetter) (models.CoverLetter, error) {
			if existing != nil && !existing.CreatedAt.IsZero() {
				l.CreatedAt = existing.CreatedAt
			}
			if l.UpdatedAt.Before(l.CreatedAt) {
				l.UpdatedAt = l.CreatedAt
			}
			return l, validateRecord(l.Validate())
		})
}

// DeleteCoverLetter removes the cover letter with id. Deleting an absent id succeeds.
func (s *Store) DeleteCoverLetter(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return remove(ctx, s.medium, KeyCoverLetters, id, func(l models.CoverLetter) string { return l.ID })
}

func validateRecord(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
}

func readRaw(ctx context.Context, m kv.Medium, key string) ([]byte, error) {
	data, err := m.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrStorageUnavailable, key, err)
	}
	return data, nil
}

func writeRaw(ctx context.Context, m kv.Medium, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := m.Set(ctx, key, data); err != nil {
		metrics.IncStorageWriteFailed()
		telemetry.Warn("store.write_failed", map[string]any{"namespace": key, "bytes": len(data), "error": err})
		return fmt.Errorf("%w: write %s: %w", ErrStorageUnavailable, key, err)
	}
	return nil
}

func load[T any](ctx context.Context, m kv.Medium, key string) ([]T, error) {
	data, err := readRaw(ctx, m, key)
	if err != nil {
		return nil, err
	}
	items := []T{}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func find[T any](ctx context.Context, m kv.Medium, key, id string, idOf func(T) string) (T, error) {
	var zero T
	items, err := load[T](ctx, m, key)
	if err != nil {
		return zero, err
	}
	for _, item := range items {
		if idOf(item) == id {
			return item, nil
		}
	}
	return zero, fmt.Errorf("%s %q: %w", key, id, ErrNotFound)
}

// upsert replaces the element with the same id in place or appends item.
// prepare sees the stored element (nil when new) and may reject the item.
func upsert[T any](ctx context.Context, m kv.Medium, key string, item T, idOf func(T) string, prepare func(*T, T) (T, error)) (T, error) {
	var zero T
	items, err := load[T](ctx, m, key)
	if err != nil {
		return zero, err
	}
	id := idOf(item)
	idx := -1
	for i := range items {
		if idOf(items[i]) == id {
			idx = i
			break
		}
	}

	var existing *T
	if idx >= 0 {
		existing = &items[idx]
	}
	prepared, err := prepare(existing, item)
	if err != nil {
		return zero, err
	}

	if idx >= 0 {
		items[idx] = prepared
	} else {
		items = append(items, prepared)
	}
	if err := writeRaw(ctx, m, key, items); err != nil {
		return zero, err
	}
	return prepared, nil
}

func remove[T any](ctx context.Context, m kv.Medium, key, id string, idOf func(T) string) error {
	items, err := load[T](ctx, m, key)
	if err != nil {
		return err
	}
	kept := filter(items, func(item T) bool { return idOf(item) != id })
	if len(kept) == len(items) {
		return nil
	}
	return writeRaw(ctx, m, key, kept)
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
