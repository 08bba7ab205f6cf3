package fsutil_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suerga/internal/platform/fsutil"
)

func TestWriteFileAtomicCreatesParents(t *testing.T) {
	t.Parallel()
	dst := filepath.Join(t.TempDir(), "a", "b", "page.html")
	require.NoError(t, fsutil.WriteFileAtomic(dst, []byte("<p>hi</p>"), 0o644))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", string(got))
}

func TestCopyFileAtomic(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	src := filepath.Join(dir, "logo.svg")
	require.NoError(t, os.WriteFile(src, []byte("<svg/>"), 0o644))

	var tap bytes.Buffer
	n, err := fsutil.CopyFileAtomic(src, filepath.Join(dir, "out", "static", "logo.svg"), &tap)
	require.NoError(t, err)
	assert.EqualValues(t, 6, n)
	assert.Equal(t, "<svg/>", tap.String())

	got, err := os.ReadFile(filepath.Join(dir, "out", "static", "logo.svg"))
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(got))
}

func TestResetDirEmptiesTarget(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "build")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "old"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old", "stale.html"), []byte("x"), 0o644))

	require.NoError(t, fsutil.ResetDir(dir))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
