package ignore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher_Defaults(t *testing.T) {
	matcher, err := NewMatcher("", nil)
	require.NoError(t, err)

	tests := []struct {
		path     string
		shouldIg bool
	}{
		{".DS_Store", true},
		{"src/.DS_Store", true}, // 子路径也应该被忽略
		{"Thumbs.db", true},
		{"main.go", false}, // 普通文件不应忽略
		{"data/model.bin", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.shouldIg, matcher.Matches(tt.path), "Path: %s", tt.path)
		})
	}
}

func TestMatcher_ExtraPatterns(t *testing.T) {
	matcher, err := NewMatcher("", []string{"*.lock", "vendor/"})
	require.NoError(t, err)

	assert.True(t, matcher.Matches("deps.lock"))
	assert.True(t, matcher.Matches("sub/deps.lock"))
	assert.True(t, matcher.Matches("vendor/pkg/a.go"))
	assert.False(t, matcher.Matches("main.go"))
}

func TestMatcher_IgnoreFile(t *testing.T) {
	tmpDir := t.TempDir()
	ignoreFile := filepath.Join(tmpDir, ".ghmignore")
	require.NoError(t, os.WriteFile(ignoreFile, []byte("*.tmp\ndocs/\n"), 0644))

	matcher, err := NewMatcher(ignoreFile, nil)
	require.NoError(t, err)

	// 文件里的规则和默认规则都生效
	assert.True(t, matcher.Matches("scratch.tmp"))
	assert.True(t, matcher.Matches("docs/guide.md"))
	assert.True(t, matcher.Matches(".DS_Store"))
	assert.False(t, matcher.Matches("src/main.go"))
}

func TestMatcher_NilIsSafe(t *testing.T) {
	var m *Matcher
	assert.False(t, m.Matches("anything"))
}
