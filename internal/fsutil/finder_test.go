package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFiles(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.hcl", "nested/b.yaml", "nested/deeper/c.yml", "notes.txt"} {
		p := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, nil, 0o644))
	}

	t.Run("directory is searched recursively", func(t *testing.T) {
		files, err := FindFiles([]string{root}, ".yaml", ".yml")
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(root, "nested/b.yaml"),
			filepath.Join(root, "nested/deeper/c.yml"),
		}, files)
	})

	t.Run("file paths are filtered by extension and deduplicated", func(t *testing.T) {
		a := filepath.Join(root, "a.hcl")
		files, err := FindFiles([]string{a, a, filepath.Join(root, "notes.txt"), root}, ".hcl")
		require.NoError(t, err)
		assert.Equal(t, []string{a}, files)
	})

	t.Run("missing paths are skipped", func(t *testing.T) {
		files, err := FindFiles([]string{filepath.Join(root, "missing")}, ".hcl")
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("no extension panics", func(t *testing.T) {
		assert.Panics(t, func() { _, _ = FindFiles([]string{root}) })
	})
}
