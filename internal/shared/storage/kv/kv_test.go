package kv

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func media(t *testing.T) map[string]Medium {
	t.Helper()
	f, err := NewFile(t.TempDir())
	require.NoError(t, err)
	return map[string]Medium{
		"memory": NewMemory(),
		"file":   f,
	}
}

func TestMedium_GetAbsentReturnsNilNil(t *testing.T) {
	for name, m := range media(t) {
		t.Run(name, func(t *testing.T) {
			v, err := m.Get(context.Background(), "cvs")
			require.NoError(t, err)
			require.Nil(t, v)
		})
	}
}

func TestMedium_SetOverwritesAndRemoveIsIdempotent(t *testing.T) {
	for name, m := range media(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, m.Set(ctx, "cvs", []byte("old")))
			require.NoError(t, m.Set(ctx, "cvs", []byte("new")))

			v, err := m.Get(ctx, "cvs")
			require.NoError(t, err)
			require.Equal(t, []byte("new"), v)

			require.NoError(t, m.Remove(ctx, "cvs"))
			v, err = m.Get(ctx, "cvs")
			require.NoError(t, err)
			require.Nil(t, v)

			require.NoError(t, m.Remove(ctx, "cvs"))
		})
	}
}

func TestMedium_CancelledContext(t *testing.T) {
	for name, m := range media(t) {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			require.ErrorIs(t, m.Set(ctx, "k", []byte("v")), context.Canceled)
			_, err := m.Get(ctx, "k")
			require.ErrorIs(t, err, context.Canceled)
		})
	}
}

func TestMemory_QuotaExceeded(t *testing.T) {
	m := NewMemory(WithQuota(8))
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "a", []byte("1234")))
	require.NoError(t, m.Set(ctx, "a", []byte("12345678")), "replacing a value reuses its bytes")

	err := m.Set(ctx, "b", []byte("x"))
	require.True(t, errors.Is(err, ErrQuotaExceeded))

	require.NoError(t, m.Remove(ctx, "a"))
	require.NoError(t, m.Set(ctx, "b", []byte("x")))
}

func TestMemory_ReturnsCopies(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	in := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", in))
	in[0] = 'z'

	out, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), out)
	out[0] = 'y'

	again, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestFile_RejectsTraversalKeys(t *testing.T) {
	f, err := NewFile(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"", "../x", "a/b", `a\b`} {
		require.ErrorIs(t, f.Set(ctx, key, []byte("v")), ErrInvalidKey, "key %q", key)
	}
}

func TestFile_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewFile(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "user_profile", []byte(`{"name":"Ada"}`)))

	second, err := NewFile(dir)
	require.NoError(t, err)
	v, err := second.Get(ctx, "user_profile")
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"Ada"}`, string(v))
}

func TestWithPrefix_ScopesKeys(t *testing.T) {
	base := NewMemory()
	ctx := context.Background()
	scoped := WithPrefix(base, "device1.")

	require.NoError(t, scoped.Set(ctx, "cvs", []byte("[]")))
	require.ElementsMatch(t, []string{"device1.cvs"}, base.Keys())

	v, err := scoped.Get(ctx, "cvs")
	require.NoError(t, err)
	require.Equal(t, []byte("[]"), v)

	require.Same(t, base, WithPrefix(base, " ").(*Memory))
}
