package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	t.Parallel()

	// Arrange: a nested tree with mixed extensions, written out of order.
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	for _, name := range []string{"20_features.hcl", "10_core.hcl", "notes.txt", "sub/30_ops.hcl"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte("x"), 0o644))
	}

	// Act
	found, err := FindFilesByExtension(root, "hcl")

	// Assert: only .hcl files, sorted lexically by full path.
	require.NoError(t, err)
	want := []string{
		filepath.Join(root, "10_core.hcl"),
		filepath.Join(root, "20_features.hcl"),
		filepath.Join(root, "sub", "30_ops.hcl"),
	}
	assert.Equal(t, want, found)
}

func TestFindFilesByExtension_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := FindFilesByExtension(filepath.Join(t.TempDir(), "does-not-exist"), ".hcl")

	assert.Error(t, err)
}

func TestFindFilesByExtension_EmptyExtensionPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		_, _ = FindFilesByExtension(t.TempDir(), "")
	})
}
