package usecase

import (
	"context"

	"suerga/internal/modules/plugin/dto"
	pluginin "suerga/internal/modules/plugin/port/in"
	"suerga/internal/modules/plugin/service"
)

type Interactor struct {
	svc *service.PluginService
}

func NewInteractor(svc *service.PluginService) pluginin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) ([]dto.PluginInfo, error) {
	return i.svc.List(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}

func (i *Interactor) Preprocess(ctx context.Context, input dto.PreprocessInput) (dto.PreprocessOutput, error) {
	return i.svc.Preprocess(ctx, input)
}
