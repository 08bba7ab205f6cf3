package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// WriteFileAtomic writes data through a pending file so readers never observe a partial page.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	if err := renameio.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// CopyFileAtomic streams src into dst and returns the number of bytes copied.
// Every tap receives the same bytes, which lets callers digest while copying.
func CopyFileAtomic(src, dst string, taps ...io.Writer) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", src, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, fmt.Errorf("create parent dir: %w", err)
	}

	pending, err := renameio.NewPendingFile(dst, renameio.WithPermissions(info.Mode().Perm()))
	if err != nil {
		return 0, fmt.Errorf("create pending file: %w", err)
	}
	defer func() { _ = pending.Cleanup() }()

	var w io.Writer = pending
	if len(taps) > 0 {
		w = io.MultiWriter(append([]io.Writer{pending}, taps...)...)
	}
	n, err := io.Copy(w, in)
	if err != nil {
		return 0, fmt.Errorf("copy %s: %w", src, err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return 0, fmt.Errorf("replace %s: %w", dst, err)
	}
	return n, nil
}

// ResetDir removes dir and recreates it empty.
func ResetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}
