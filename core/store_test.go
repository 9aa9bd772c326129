package core

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	t.Parallel()

	t.Run("copies the records", func(t *testing.T) {
		t.Parallel()

		records := fixture()
		store, err := NewStore(records)
		require.NoError(t, err)

		records[0].Title = "changed"

		snapshot, err := store.Snapshot()
		require.NoError(t, err)
		assert.Equal(t, "Alpha kickoff", snapshot[0].Title)
		assert.Equal(t, 5, store.Len())
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		t.Parallel()

		_, err := NewStore([]Contribution{{Id: 1}, {Id: 2}, {Id: 1}})
		require.ErrorIs(t, err, ErrDuplicateID)
		assert.Contains(t, err.Error(), "1")
	})

	t.Run("empty collection", func(t *testing.T) {
		t.Parallel()

		store, err := NewStore(nil)
		require.NoError(t, err)

		snapshot, err := store.Snapshot()
		require.NoError(t, err)
		assert.NotNil(t, snapshot)
		assert.Empty(t, snapshot)
	})
}

func TestStore_Close(t *testing.T) {
	t.Parallel()

	store, err := NewStore(fixture())
	require.NoError(t, err)

	held, err := store.Snapshot()
	require.NoError(t, err)

	store.Close()
	store.Close()

	_, err = store.Snapshot()
	require.ErrorIs(t, err, ErrStoreClosed)
	assert.Equal(t, 0, store.Len())

	// a snapshot taken before Close stays usable
	page := Evaluate(held, NewQuery())
	assert.Equal(t, 5, page.Total)
}

func TestStore_ConcurrentReaders(t *testing.T) {
	t.Parallel()

	store, err := NewStore(fixture())
	require.NoError(t, err)

	var wg sync.WaitGroup

	for i := range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			records, err := store.Snapshot()
			if err != nil {
				return
			}

			query := NewQuery()
			query.Skip = i % 3
			_ = Evaluate(records, query)
		}()
	}

	store.Close()
	wg.Wait()
}
