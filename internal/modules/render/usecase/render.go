package usecase

import (
	"context"

	"suerga/internal/modules/render/domain"
	"suerga/internal/modules/render/dto"
	renderin "suerga/internal/modules/render/port/in"
	"suerga/internal/modules/render/service"
)

type Interactor struct {
	svc *service.RenderService
}

func NewInteractor(svc *service.RenderService) renderin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Build(ctx context.Context, input dto.BuildInput) (dto.BuildOutput, error) {
	build, err := i.svc.Build(ctx, input.SourcePath, input.TargetPath, input.BaseURL)
	if err != nil {
		return dto.BuildOutput{}, err
	}
	pages := build.Pages()
	return dto.BuildOutput{
		BuildID:   build.ID,
		Files:     len(build.Outputs),
		Pages:     pages,
		Assets:    len(build.Outputs) - pages,
		Skipped:   build.Skipped,
		Changed:   build.Changed,
		Unchanged: build.Unchanged,
		Removed:   build.Removed,
	}, nil
}

func (i *Interactor) List(ctx context.Context) ([]dto.IndexEntry, error) {
	entries, err := i.svc.Entries(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.IndexEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, toDTO(e))
	}
	return out, nil
}

func toDTO(e domain.IndexEntry) dto.IndexEntry {
	return dto.IndexEntry{
		Path:    e.Path,
		Source:  e.Source,
		Kind:    string(e.Kind),
		SHA256:  e.SHA256,
		Size:    e.Size,
		BuildID: e.BuildID,
		BuiltAt: e.BuiltAt,
	}
}
