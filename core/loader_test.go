package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeed(t *testing.T, name string, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestFileSource_Load(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name    string
		file    string
		content string
		want    []Contribution
		wantErr error
	}{
		{
			name: "json document",
			file: "contributions.json",
			content: `{"contributions": [
				{"id": 2, "title": "B", "description": "d2", "startTime": "2024-01-02T00:00:00Z", "endTime": "2024-01-03T00:00:00Z", "owner": "bob", "extra": true},
				{"id": 1, "title": "A", "description": "d1", "startTime": "2024-01-01T00:00:00Z", "endTime": "2024-01-02T00:00:00Z", "owner": "alice"}
			]}`,
			want: []Contribution{
				{Id: 2, Title: "B", Description: "d2", StartTime: "2024-01-02T00:00:00Z", EndTime: "2024-01-03T00:00:00Z", Owner: "bob"},
				{Id: 1, Title: "A", Description: "d1", StartTime: "2024-01-01T00:00:00Z", EndTime: "2024-01-02T00:00:00Z", Owner: "alice"},
			},
		},
		{
			name: "yaml document",
			file: "contributions.yaml",
			content: `contributions:
  - id: 7
    title: Seven
    description: ""
    startTime: "2024-01-07T00:00:00Z"
    endTime: "2024-01-08T00:00:00Z"
    owner: carol
`,
			want: []Contribution{
				{Id: 7, Title: "Seven", StartTime: "2024-01-07T00:00:00Z", EndTime: "2024-01-08T00:00:00Z", Owner: "carol"},
			},
		},
		{
			name:    "empty collection",
			file:    "contributions.json",
			content: `{"contributions": []}`,
			want:    []Contribution{},
		},
		{
			name:    "malformed json",
			file:    "contributions.json",
			content: `{"contributions": [`,
			wantErr: ErrMalformedSource,
		},
		{
			name:    "missing contributions key",
			file:    "contributions.json",
			content: `{"items": []}`,
			wantErr: ErrMalformedSource,
		},
		{
			name:    "missing field",
			file:    "contributions.json",
			content: `{"contributions": [{"id": 1, "title": "A", "description": "d", "startTime": "s"}]}`,
			wantErr: ErrMissingField,
		},
		{
			name:    "null id",
			file:    "contributions.json",
			content: `{"contributions": [{"id": null, "title": "A", "description": "d", "startTime": "s", "endTime": "e", "owner": "o"}]}`,
			wantErr: ErrMissingField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeSeed(t, tt.file, tt.content)

			got, err := NewFileSource(path).Load(ctx)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileSource_MissingFieldNames(t *testing.T) {
	t.Parallel()

	path := writeSeed(t, "contributions.json", `{"contributions": [{"id": 1, "title": "A", "description": "d", "startTime": "s"}]}`)

	_, err := NewFileSource(path).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endTime, owner")
	assert.Contains(t, err.Error(), "contribution #0")
}

func TestFileSource_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewFileSource(filepath.Join(t.TempDir(), "missing.json")).Load(context.Background())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadStore(t *testing.T) {
	t.Parallel()

	t.Run("seed data", func(t *testing.T) {
		t.Parallel()

		store, err := LoadStore(context.Background(), NewFileSource(filepath.Join("..", "seed_data", "contributions.json")))
		require.NoError(t, err)
		assert.Positive(t, store.Len())
	})

	t.Run("duplicate ids", func(t *testing.T) {
		t.Parallel()

		path := writeSeed(t, "contributions.json", `{"contributions": [
			{"id": 1, "title": "A", "description": "d", "startTime": "s", "endTime": "e", "owner": "o"},
			{"id": 1, "title": "B", "description": "d", "startTime": "s", "endTime": "e", "owner": "o"}
		]}`)

		_, err := LoadStore(context.Background(), NewFileSource(path))
		require.ErrorIs(t, err, ErrDuplicateID)
	})
}
