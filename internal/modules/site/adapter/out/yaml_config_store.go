package out

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"suerga/internal/modules/site/domain"
	siteout "suerga/internal/modules/site/port/out"
	apperrors "suerga/internal/platform/errors"
)

type YAMLConfigStore struct {
	path string
}

func NewYAMLConfigStore(path string) siteout.ConfigStore {
	return &YAMLConfigStore{path: path}
}

func (s *YAMLConfigStore) Load(_ context.Context) (domain.Context, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: site config %s", apperrors.ErrNotFound, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("read site config: %w", err)
	}
	decoded := map[string]any{}
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode site config: %w", err)
	}
	return domain.Context(decoded), nil
}
