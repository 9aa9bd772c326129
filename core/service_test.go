package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_Search(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("evaluates against the store", func(t *testing.T) {
		t.Parallel()

		store, err := NewStore(fixture())
		require.NoError(t, err)

		query := NewQuery()
		query.Filters.StartAfter = "2024-01-02T00:00:00Z"
		query.Limit = 2

		page, err := NewEngine(store).Search(ctx, query)
		require.NoError(t, err)
		assert.Equal(t, []int64{3, 4}, idsOf(page.Contributions))
		assert.Equal(t, 3, page.Total)
		assert.Equal(t, 2, page.Limit)
	})

	t.Run("rejects an unvalidated query", func(t *testing.T) {
		t.Parallel()

		store, err := NewStore(fixture())
		require.NoError(t, err)

		query := NewQuery()
		query.Match = "either"

		page, err := NewEngine(store).Search(ctx, query)
		require.ErrorIs(t, err, ErrInvalidQuery)
		assert.Nil(t, page)
	})

	t.Run("fails once the store is closed", func(t *testing.T) {
		t.Parallel()

		store, err := NewStore(fixture())
		require.NoError(t, err)

		engine := NewEngine(store)
		store.Close()

		page, err := engine.Search(ctx, NewQuery())
		require.ErrorIs(t, err, ErrStoreClosed)
		assert.Nil(t, page)
	})
}

func TestEngine_Count(t *testing.T) {
	t.Parallel()

	store, err := NewStore(fixture())
	require.NoError(t, err)

	engine := NewEngine(store)

	count, err := engine.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	store.Close()

	_, err = engine.Count(context.Background())
	require.ErrorIs(t, err, ErrStoreClosed)
}
