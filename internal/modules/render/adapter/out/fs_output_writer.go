package out

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"

	renderout "suerga/internal/modules/render/port/out"
	"suerga/internal/platform/fsutil"
)

type FSOutputWriter struct{}

func NewFSOutputWriter() renderout.OutputWriter {
	return FSOutputWriter{}
}

func (FSOutputWriter) Reset(_ context.Context, targetPath string) error {
	return fsutil.ResetDir(targetPath)
}

func (FSOutputWriter) Write(_ context.Context, targetPath, rel string, data []byte) error {
	return fsutil.WriteFileAtomic(filepath.Join(targetPath, filepath.FromSlash(rel)), data, 0o644)
}

func (FSOutputWriter) Copy(_ context.Context, srcPath, targetPath, rel string) (int64, string, error) {
	h := sha256.New()
	n, err := fsutil.CopyFileAtomic(srcPath, filepath.Join(targetPath, filepath.FromSlash(rel)), h)
	if err != nil {
		return 0, "", err
	}
	return n, hex.EncodeToString(h.Sum(nil)), nil
}
