package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"suerga/internal/modules/plugin/domain"
	pluginout "suerga/internal/modules/plugin/port/out"
	"suerga/internal/platform/config"
)

type FileManifestStore struct {
	basePath string
	path     string
}

// NewFileManifestStore reads <sourcePath>/.suerga/plugins.json; relative binaries resolve against sourcePath.
func NewFileManifestStore(sourcePath string) pluginout.ManifestStore {
	return &FileManifestStore{basePath: sourcePath, path: filepath.Join(sourcePath, config.StateDirName, "plugins.json")}
}

func (s *FileManifestStore) Load(_ context.Context) ([]domain.Manifest, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Manifest{}, nil
		}
		return nil, fmt.Errorf("read plugin manifest store: %w", err)
	}
	var manifests []domain.Manifest
	decoder := json.NewDecoder(bytes.NewReader(b))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&manifests); err != nil {
		return nil, fmt.Errorf("decode plugin manifests: %w", err)
	}
	for i := range manifests {
		if manifests[i].Binary != "" && !filepath.IsAbs(manifests[i].Binary) {
			manifests[i].Binary = filepath.Clean(filepath.Join(s.basePath, manifests[i].Binary))
		}
	}
	return manifests, nil
}
