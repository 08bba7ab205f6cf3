package out

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"suerga/internal/modules/tryit/domain"
	tryout "suerga/internal/modules/tryit/port/out"
	"suerga/internal/platform/fsutil"
	"suerga/internal/platform/markdown"
)

type FilePageStore struct{}

func NewFilePageStore() tryout.PageStore {
	return FilePageStore{}
}

func (FilePageStore) Exists(_ context.Context, sourcePath string) (bool, error) {
	_, err := os.Stat(filepath.Join(sourcePath, domain.PageFile))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat try page: %w", err)
}

func (FilePageStore) Save(_ context.Context, sourcePath string, page domain.Page) (string, error) {
	body, err := page.Source()
	if err != nil {
		return "", err
	}
	content, err := markdown.RenderFrontmatter(map[string]any{"title": page.Title}, body)
	if err != nil {
		return "", err
	}
	path := filepath.Join(sourcePath, domain.PageFile)
	if err := fsutil.WriteFileAtomic(path, []byte(content), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
