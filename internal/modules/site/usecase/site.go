package usecase

import (
	"context"

	"suerga/internal/modules/site/dto"
	sitein "suerga/internal/modules/site/port/in"
	"suerga/internal/modules/site/service"
)

type Interactor struct {
	svc *service.ContextService
}

func NewInteractor(svc *service.ContextService) sitein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) BuildContext(ctx context.Context, input dto.BuildContextInput) (dto.ContextOutput, error) {
	extra := map[string]any{}
	for k, v := range input.Extra {
		extra[k] = v
	}
	extra["base_url"] = input.BaseURL

	c, err := i.svc.Build(ctx, extra, i.svc.Preprocessors())
	if err != nil {
		return dto.ContextOutput{}, err
	}
	settings, err := c.Settings()
	if err != nil {
		return dto.ContextOutput{}, err
	}
	return dto.ContextOutput{
		Values:        map[string]any(c),
		TemplatesPath: settings.TemplatesPath,
		Ignore:        settings.Ignore,
	}, nil
}
