package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"cvai-core/internal/shared/storage/db"
	"cvai-core/internal/shared/storage/kv"
)

func newMedium(t *testing.T, path string) *Medium {
	t.Helper()
	ctx := context.Background()
	database, err := db.OpenSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, db.RunMigrations(ctx, database, db.DriverSQLite))
	return New(database)
}

func TestMedium_GetAbsent(t *testing.T) {
	m := newMedium(t, filepath.Join(t.TempDir(), "kv.db"))

	got, err := m.Get(context.Background(), "cvs")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestMedium_SetOverwriteRemove(t *testing.T) {
	ctx := context.Background()
	m := newMedium(t, filepath.Join(t.TempDir(), "kv.db"))

	require.NoError(t, m.Set(ctx, "cvs", []byte(`[1]`)))
	require.NoError(t, m.Set(ctx, "cvs", []byte(`[1,2]`)))

	got, err := m.Get(ctx, "cvs")
	require.NoError(t, err)
	require.Equal(t, `[1,2]`, string(got))

	require.NoError(t, m.Remove(ctx, "cvs"))
	require.NoError(t, m.Remove(ctx, "cvs"))

	got, err = m.Get(ctx, "cvs")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestMedium_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	first := newMedium(t, path)
	require.NoError(t, first.Set(ctx, "user_profile", []byte(`{"id":"p1"}`)))
	require.NoError(t, first.db.Close())

	second := newMedium(t, path)
	got, err := second.Get(ctx, "user_profile")
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"p1"}`, string(got))
}

func TestMedium_InvalidKey(t *testing.T) {
	m := newMedium(t, filepath.Join(t.TempDir(), "kv.db"))
	require.ErrorIs(t, m.Set(context.Background(), "", []byte("x")), kv.ErrInvalidKey)
}
