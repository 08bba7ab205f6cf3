package in

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"suerga/internal/modules/site/dto"
	sitein "suerga/internal/modules/site/port/in"
)

type CLIHandler struct {
	usecase sitein.Usecase
}

func NewCLIHandler(usecase sitein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Dump builds the context and renders it as YAML for inspection.
func (h CLIHandler) Dump(ctx context.Context, baseURL string) ([]byte, error) {
	out, err := h.usecase.BuildContext(ctx, dto.BuildContextInput{BaseURL: baseURL})
	if err != nil {
		return nil, err
	}
	raw, err := yaml.Marshal(out.Values)
	if err != nil {
		return nil, fmt.Errorf("encode context: %w", err)
	}
	return raw, nil
}
