package gh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Coordinate
		wantErr bool
	}{
		{
			name:  "tree URL with path",
			input: "https://github.com/acme/widgets/tree/abcdef1234567/src/lib",
			want:  Coordinate{Owner: "acme", Repo: "widgets", Commit: "abcdef1234567", RootPath: "src/lib"},
		},
		{
			name:  "blob URL (single file)",
			input: "https://github.com/acme/widgets/blob/abcdef1/src/main.go",
			want:  Coordinate{Owner: "acme", Repo: "widgets", Commit: "abcdef1", RootPath: "src/main.go"},
		},
		{
			name:  "repo root without path",
			input: "https://github.com/acme/widgets/tree/abcdef1",
			want:  Coordinate{Owner: "acme", Repo: "widgets", Commit: "abcdef1", RootPath: ""},
		},
		{
			name:  "trailing slash trimmed",
			input: "https://github.com/acme/widgets/tree/abcdef1/src/",
			want:  Coordinate{Owner: "acme", Repo: "widgets", Commit: "abcdef1", RootPath: "src"},
		},
		{
			name:    "plain repo URL has no commit",
			input:   "https://github.com/acme/widgets",
			wantErr: true,
		},
		{
			name:    "not a github URL",
			input:   "https://gitlab.com/acme/widgets/tree/abcdef1",
			wantErr: true,
		},
		{
			name:    "garbage",
			input:   "hello world",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseURL(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoordinate_ShortCommit(t *testing.T) {
	assert.Equal(t, "abcdef1", Coordinate{Commit: "abcdef1234567890"}.ShortCommit())
	assert.Equal(t, "abc", Coordinate{Commit: "abc"}.ShortCommit())
}
