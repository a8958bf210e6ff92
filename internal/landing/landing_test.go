package landing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_WritesIndex(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "README.md")
	docsDir := filepath.Join(dir, "doc")
	require.NoError(t, os.MkdirAll(docsDir, 0o750))
	require.NoError(t, os.WriteFile(src, []byte("# My Crate\n\nSee the [docs](crate/index.html).\n"), 0o600))

	require.NoError(t, Render(src, docsDir, "My Crate"))

	content, err := os.ReadFile(filepath.Join(docsDir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "<h1")
	assert.Contains(t, string(content), "My Crate")
	assert.Contains(t, string(content), `href="crate/index.html"`)
}

func TestRender_KeepsExistingIndex(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "README.md")
	docsDir := filepath.Join(dir, "doc")
	require.NoError(t, os.MkdirAll(docsDir, 0o750))
	require.NoError(t, os.WriteFile(src, []byte("# Replacement"), 0o600))

	existing := []byte("<html>original</html>")
	indexPath := filepath.Join(docsDir, "index.html")
	require.NoError(t, os.WriteFile(indexPath, existing, 0o600))

	require.NoError(t, Render(src, docsDir, "Title"))

	content, err := os.ReadFile(indexPath)
	require.NoError(t, err)
	assert.Equal(t, existing, content, "an existing landing page must win")
}

func TestRender_MissingSource(t *testing.T) {
	dir := t.TempDir()
	docsDir := filepath.Join(dir, "doc")
	require.NoError(t, os.MkdirAll(docsDir, 0o750))

	err := Render(filepath.Join(dir, "nope.md"), docsDir, "Title")
	assert.Error(t, err)
}
