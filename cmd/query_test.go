package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contributions-viewer/core"
)

func TestQueryCommand(t *testing.T) {
	seed := filepath.Join("..", "seed_data", "contributions.json")

	t.Run("prints the page", func(t *testing.T) {
		var out bytes.Buffer

		rootCmd.SetOut(&out)
		rootCmd.SetArgs([]string{"query", "--data-file", seed, "--title", "alpha", "--limit", "2"})

		require.NoError(t, rootCmd.Execute())

		var page core.Page
		require.NoError(t, json.Unmarshal(out.Bytes(), &page))
		assert.Equal(t, 3, page.Total)
		assert.Equal(t, 2, page.Limit)
		require.Len(t, page.Contributions, 2)
		assert.Equal(t, int64(1), page.Contributions[0].Id)
		assert.Equal(t, int64(9), page.Contributions[1].Id)
	})

	t.Run("rejects an invalid query", func(t *testing.T) {
		rootCmd.SetOut(&bytes.Buffer{})
		rootCmd.SetErr(&bytes.Buffer{})
		rootCmd.SetArgs([]string{"query", "--data-file", seed, "--match", "none"})

		err := rootCmd.Execute()
		require.ErrorIs(t, err, core.ErrInvalidQuery)
	})
}
