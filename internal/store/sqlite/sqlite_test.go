package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada-remote/internal/model"
	"github.com/Makepad-fr/tada-remote/internal/store"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "tada-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestItemCRUD(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	first, err := s.Create(ctx, "todos", model.Item{Label: "Buy milk"})
	require.NoError(t, err)
	second, err := s.Create(ctx, "todos", model.Item{Label: "Call mom", Checked: true})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	items, err := s.List(ctx, "todos")
	require.NoError(t, err)
	assert.Equal(t, []model.Item{first, second}, items)

	got, err := s.Get(ctx, "todos", second.ID)
	require.NoError(t, err)
	assert.True(t, got.Checked)

	updated, err := s.Update(ctx, "todos", first.ID, model.Item{Label: "Buy oat milk", Checked: true})
	require.NoError(t, err)
	assert.Equal(t, model.Item{ID: first.ID, Label: "Buy oat milk", Checked: true}, updated)

	require.NoError(t, s.Remove(ctx, "todos", second.ID))
	items, err = s.List(ctx, "todos")
	require.NoError(t, err)
	assert.Equal(t, []model.Item{updated}, items)
}

func TestEmptyCollectionListsAsEmptySlice(t *testing.T) {
	s := setupStore(t)
	items, err := s.List(context.Background(), "nothing")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestMissingIDsAreNotFound(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	_, err := s.Get(ctx, "todos", "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.Update(ctx, "todos", "missing", model.Item{Label: "x"})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.Remove(ctx, "todos", "missing"), store.ErrNotFound)
}

func TestCollectionsAreIsolated(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()
	it, err := s.Create(ctx, "work", model.Item{Label: "ship"})
	require.NoError(t, err)

	_, err = s.Get(ctx, "home", it.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.Remove(ctx, "home", it.ID), store.ErrNotFound)

	_, err = s.List(ctx, "bad/name")
	assert.Error(t, err)
}
