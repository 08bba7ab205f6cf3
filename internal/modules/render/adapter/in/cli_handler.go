package in

import (
	"context"

	"suerga/internal/modules/render/dto"
	renderin "suerga/internal/modules/render/port/in"
)

type CLIHandler struct {
	usecase renderin.Usecase
}

func NewCLIHandler(usecase renderin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Build(ctx context.Context, sourcePath, targetPath, baseURL string) (dto.BuildOutput, error) {
	return h.usecase.Build(ctx, dto.BuildInput{SourcePath: sourcePath, TargetPath: targetPath, BaseURL: baseURL})
}

func (h CLIHandler) List(ctx context.Context) ([]dto.IndexEntry, error) {
	return h.usecase.List(ctx)
}
