package utils_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/insightsheet-cli/internal/utils"
)

func TestExpandGlobsRecursive(t *testing.T) {
	dir := t.TempDir()
	for _, rel := range []string{"a.csv", "nested/b.csv", "nested/deep/c.xlsx", "nested/notes.md"} {
		p := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
	keep := func(p string) bool { return !strings.HasSuffix(p, ".md") }

	files, err := utils.ExpandGlobs([]string{filepath.Join(dir, "**", "*"), filepath.Join(dir, "a.csv")}, keep)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.csv"),
		filepath.Join(dir, "nested", "b.csv"),
		filepath.Join(dir, "nested", "deep", "c.xlsx"),
	}, files)
}

func TestSafeWriteFileCreatesDirs(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out", "clean.csv")
	require.NoError(t, utils.SafeWriteFile(p, []byte("a\n")))
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "a\n", string(b))
}
