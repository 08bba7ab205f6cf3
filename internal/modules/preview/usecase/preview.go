package usecase

import (
	"context"

	"suerga/internal/modules/preview/dto"
	previewin "suerga/internal/modules/preview/port/in"
	"suerga/internal/modules/preview/service"
)

type Interactor struct {
	svc *service.PreviewService
}

func NewInteractor(svc *service.PreviewService) previewin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Serve(ctx context.Context, input dto.ServeInput) error {
	return i.svc.Serve(ctx, service.Options{
		SourcePath: input.SourcePath,
		TargetPath: input.TargetPath,
		BaseURL:    input.BaseURL,
		Addr:       input.Addr,
		Watch:      input.Watch,
		Debounce:   input.Debounce,
	})
}
