package out

import (
	"context"

	"suerga/internal/modules/preview/domain"
	previewout "suerga/internal/modules/preview/port/out"
	renderdto "suerga/internal/modules/render/dto"
	renderin "suerga/internal/modules/render/port/in"
)

type RenderBuilder struct {
	render renderin.Usecase
	input  renderdto.BuildInput
}

func NewRenderBuilder(render renderin.Usecase, sourcePath, targetPath, baseURL string) previewout.Builder {
	return &RenderBuilder{render: render, input: renderdto.BuildInput{SourcePath: sourcePath, TargetPath: targetPath, BaseURL: baseURL}}
}

func (b *RenderBuilder) Build(ctx context.Context) (domain.BuildSummary, error) {
	out, err := b.render.Build(ctx, b.input)
	if err != nil {
		return domain.BuildSummary{}, err
	}
	return domain.BuildSummary{Files: out.Files, Changed: len(out.Changed)}, nil
}
