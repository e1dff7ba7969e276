package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoparts.dev/storefront/internal/store"
	"autoparts.dev/storefront/internal/testutil"
)

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "missing")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Set(ctx, "ctx/a/cart", []byte(`[1]`)))
	require.NoError(t, s.Set(ctx, "ctx/a/session", []byte(`{}`)))
	require.NoError(t, s.Set(ctx, "ctx/b/cart", []byte(`[2]`)))
	require.NoError(t, s.Set(ctx, "ctx/a_x/cart", []byte(`[3]`)))

	got, err := s.Get(ctx, "ctx/a/cart")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1]`), got)

	require.NoError(t, s.Set(ctx, "ctx/a/cart", []byte(`[1,1]`)))
	got, err = s.Get(ctx, "ctx/a/cart")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1,1]`), got, "last write wins")

	keys, err := s.Keys(ctx, "ctx/a/")
	require.NoError(t, err)
	assert.Equal(t, []string{"ctx/a/cart", "ctx/a/session"}, keys)

	require.NoError(t, s.Remove(ctx, "ctx/a/cart"))
	require.NoError(t, s.Remove(ctx, "ctx/a/cart"), "removing an absent key is not an error")
	_, err = s.Get(ctx, "ctx/a/cart")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestMemory(t *testing.T) {
	exerciseStore(t, store.NewMemory())
}

func TestMemory_ClosedFails(t *testing.T) {
	m := store.NewMemory()
	require.NoError(t, m.Close())

	_, err := m.Get(context.Background(), "k")
	assert.ErrorIs(t, err, store.ErrClosed)
	assert.ErrorIs(t, m.Set(context.Background(), "k", nil), store.ErrClosed)
}

func TestMemory_ValuesAreCopied(t *testing.T) {
	m := store.NewMemory()
	v := []byte("abc")
	require.NoError(t, m.Set(context.Background(), "k", v))
	v[0] = 'z'

	got, err := m.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestSQLite(t *testing.T) {
	s, err := store.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	exerciseStore(t, s)
	require.NoError(t, s.Ping(context.Background()))
}

func TestSQLite_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	ctx := context.Background()

	s, err := store.OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "locale", []byte(`"en"`)))
	require.NoError(t, s.Close())

	s, err = store.OpenSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	got, err := s.Get(ctx, "locale")
	require.NoError(t, err)
	assert.Equal(t, `"en"`, string(got))
}

func TestPostgres(t *testing.T) {
	pool := testutil.OpenPGXPool(t, "store")
	s, err := store.NewPostgres(context.Background(), pool)
	require.NoError(t, err)

	exerciseStore(t, s)
}
