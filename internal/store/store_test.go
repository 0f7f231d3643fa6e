package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cvai-core/internal/models"
	"cvai-core/internal/shared/storage/kv"
)

type failingMedium struct {
	kv.Medium
	setErr error
}

func (f *failingMedium) Set(ctx context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.Medium.Set(ctx, key, value)
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func TestListCVsEmptyAndSideEffectFree(t *testing.T) {
	mem := kv.NewMemory()
	s := New(mem)

	cvs, err := s.ListCVs(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cvs)
	require.Empty(t, cvs)
	require.Empty(t, mem.Keys())
}

func TestSaveCVUpsertPreservesPosition(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemory(), WithIDGenerator(sequentialIDs()))

	first, err := s.SaveCV(ctx, models.CV{Name: "First"})
	require.NoError(t, err)
	second, err := s.SaveCV(ctx, models.CV{Name: "Second"})
	require.NoError(t, err)
	require.Equal(t, "id-1", first.ID)
	require.Equal(t, "id-2", second.ID)

	first.Name = "First (edited)"
	updated, err := s.SaveCV(ctx, first)
	require.NoError(t, err)
	require.Equal(t, first.CreatedAt, updated.CreatedAt)
	require.False(t, updated.UpdatedAt.Before(first.UpdatedAt))

	cvs, err := s.ListCVs(ctx)
	require.NoError(t, err)
	require.Len(t, cvs, 2)
	require.Equal(t, "First (edited)", cvs[0].Name)
	require.Equal(t, "Second", cvs[1].Name)
}

func TestSaveCVRejectsInvalid(t *testing.T) {
	s := New(kv.NewMemory())
	_, err := s.SaveCV(context.Background(), models.CV{Name: "  "})
	require.ErrorIs(t, err, ErrInvalidRecord)

	cvs, err := s.ListCVs(context.Background())
	require.NoError(t, err)
	require.Empty(t, cvs)
}

func TestGetCVNotFound(t *testing.T) {
	s := New(kv.NewMemory())
	_, err := s.GetCV(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemory())

	cv, err := s.SaveCV(ctx, models.CV{Name: "CV"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteCV(ctx, cv.ID))
	require.NoError(t, s.DeleteCV(ctx, cv.ID))
	require.NoError(t, s.DeleteReview(ctx, "unknown"))
	require.NoError(t, s.DeleteJobMatch(ctx, "unknown"))
	require.NoError(t, s.DeleteCoverLetter(ctx, "unknown"))
	require.NoError(t, s.DeleteUserProfile(ctx))

	_, err = s.GetCV(ctx, cv.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestWriteFailureWrapsStorageUnavailable(t *testing.T) {
	quota := errors.New("disk full")
	s := New(&failingMedium{Medium: kv.NewMemory(), setErr: quota})

	_, err := s.SaveCV(context.Background(), models.CV{Name: "CV"})
	require.ErrorIs(t, err, ErrStorageUnavailable)
	require.ErrorIs(t, err, quota)
}

func TestQuotaExceededSurfacesAsStorageUnavailable(t *testing.T) {
	s := New(kv.NewMemory(kv.WithQuota(16)))

	_, err := s.SaveCV(context.Background(), models.CV{Name: "A CV whose JSON exceeds sixteen bytes"})
	require.ErrorIs(t, err, ErrStorageUnavailable)
	require.ErrorIs(t, err, kv.ErrQuotaExceeded)
}

func TestCorruptNamespaceNamesKey(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	require.NoError(t, mem.Set(ctx, KeyReviews, []byte("{not json")))

	_, err := New(mem).ListReviews(ctx)
	require.Error(t, err)
	require.Contains(t, err.Error(), KeyReviews)
}

func TestReadsReflectMediumWrites(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	a := New(mem)
	b := New(mem)

	cv, err := a.SaveCV(ctx, models.CV{Name: "Shared"})
	require.NoError(t, err)

	got, err := b.GetCV(ctx, cv.ID)
	require.NoError(t, err)
	require.Equal(t, "Shared", got.Name)
}

func TestReviewsByCVAndFeedbackNormalized(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemory())

	_, err := s.SaveReview(ctx, models.CVReview{ID: "r1", CVID: "c1", Score: 78})
	require.NoError(t, err)
	_, err = s.SaveReview(ctx, models.CVReview{ID: "r2", CVID: "c2", Score: 60})
	require.NoError(t, err)

	byCV, err := s.ListReviewsByCV(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, byCV, 1)
	require.NotNil(t, byCV[0].Feedback.Strengths)
	require.NotNil(t, byCV[0].Feedback.Improvements)
	require.False(t, byCV[0].CreatedAt.IsZero())

	_, err = s.SaveReview(ctx, models.CVReview{ID: "r3", CVID: "c1", Score: 140})
	require.ErrorIs(t, err, ErrInvalidRecord)
}

func TestJobMatchSkillsDeduplicated(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemory())

	m, err := s.SaveJobMatch(ctx, models.JobMatch{
		ID: "m1", CVID: "c1", JobDescription: "Go role", MatchScore: 74,
		MissingSkills: []string{"Docker", "docker", "AWS"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"Docker", "AWS"}, m.MissingSkills)

	byCV, err := s.ListJobMatchesByCV(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, byCV, 1)

	got, err := s.GetJobMatch(ctx, "m1")
	require.NoError(t, err)
	require.Equal(t, 74, got.MatchScore)
}

func TestConcurrentSavesDoNotLoseRecords(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemory())

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.SaveReview(ctx, models.CVReview{ID: s.GenerateID(), CVID: "c1", Score: 50})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	reviews, err := s.ListReviews(ctx)
	require.NoError(t, err)
	require.Len(t, reviews, n)
}

func TestUserProfileLifecycle(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemory())

	_, err := s.GetUserProfile(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.CreateUserProfile(ctx, "", "ada@example.com", "")
	require.ErrorIs(t, err, ErrInvalidProfile)
	_, err = s.CreateUserProfile(ctx, "Ada", "  ", "")
	require.ErrorIs(t, err, ErrInvalidProfile)

	created, err := s.CreateUserProfile(ctx, " Ada ", "ada@example.com", "")
	require.NoError(t, err)
	require.Equal(t, "Ada", created.Name)
	require.NotEmpty(t, created.ID)

	_, err = s.CreateUserProfile(ctx, "Bob", "bob@example.com", "")
	require.ErrorIs(t, err, ErrProfileExists)

	saved, err := s.SaveUserProfile(ctx, models.UserProfile{Name: "Ada L.", Email: "ada@example.com", Phone: "555"})
	require.NoError(t, err)
	require.Equal(t, created.ID, saved.ID)
	require.Equal(t, created.CreatedAt, saved.CreatedAt)
	require.False(t, saved.UpdatedAt.Before(created.UpdatedAt))

	got, err := s.GetUserProfile(ctx)
	require.NoError(t, err)
	require.Equal(t, "555", got.Phone)

	require.NoError(t, s.DeleteUserProfile(ctx))
	_, err = s.GetUserProfile(ctx)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClockNeverGoesBackwards(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ticks := []time.Time{base, base.Add(-time.Hour), base.Add(time.Second)}
	i := 0
	c := NewClock(func() time.Time {
		t := ticks[i]
		i++
		return t
	})

	a, b, d := c.Now(), c.Now(), c.Now()
	require.Equal(t, base, a)
	require.Equal(t, base, b)
	require.Equal(t, base.Add(time.Second), d)
}

func TestCurrentTimestampSortable(t *testing.T) {
	s := New(kv.NewMemory())
	prev := s.CurrentTimestamp()
	require.Len(t, prev, len("2006-01-02T15:04:05.000000000Z"))
	for i := 0; i < 50; i++ {
		next := s.CurrentTimestamp()
		require.LessOrEqual(t, prev, next)
		prev = next
	}
}

func TestSaveCoverLetterKeepsStoredCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemory())
	t1 := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	letter := models.CoverLetter{ID: "l1", JobTitle: "Engineer", CompanyName: "Acme", Content: "Hello", CreatedAt: t2, UpdatedAt: t2}
	_, err := s.SaveCoverLetter(ctx, models.CoverLetter{ID: "l1", JobTitle: "Engineer", CompanyName: "Acme", Content: "Hi", CreatedAt: t1, UpdatedAt: t1})
	require.NoError(t, err)

	saved, err := s.SaveCoverLetter(ctx, letter)
	require.NoError(t, err)
	require.True(t, saved.CreatedAt.Equal(t1), "createdAt replaced: %s", saved.CreatedAt)
	require.True(t, saved.UpdatedAt.Equal(t2))

	// an updatedAt older than the stored createdAt is raised to it
	letter.UpdatedAt = t1.Add(-time.Minute)
	saved, err = s.SaveCoverLetter(ctx, letter)
	require.NoError(t, err)
	require.True(t, saved.UpdatedAt.Equal(t1))

	got, err := s.GetCoverLetter(ctx, "l1")
	require.NoError(t, err)
	require.True(t, got.CreatedAt.Equal(t1))
}

func TestConcurrentFirstSavesOfOneLetterShareCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := New(kv.NewMemory())
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	const n = 16
	saved := make([]models.CoverLetter, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			at := base.Add(time.Duration(i) * time.Second)
			l, err := s.SaveCoverLetter(ctx, models.CoverLetter{
				ID: "same", JobTitle: "Engineer", CompanyName: "Acme", Content: "Hello",
				CreatedAt: at, UpdatedAt: at,
			})
			assert.NoError(t, err)
			saved[i] = l
		}(i)
	}
	wg.Wait()

	got, err := s.GetCoverLetter(ctx, "same")
	require.NoError(t, err)
	for _, l := range saved {
		require.True(t, l.CreatedAt.Equal(got.CreatedAt), "createdAt %s != stored %s", l.CreatedAt, got.CreatedAt)
		require.False(t, l.UpdatedAt.Before(l.CreatedAt))
	}
}
