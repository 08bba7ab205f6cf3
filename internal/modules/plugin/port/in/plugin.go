package in

import (
	"context"

	"suerga/internal/modules/plugin/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.PluginInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
	Preprocess(ctx context.Context, input dto.PreprocessInput) (dto.PreprocessOutput, error)
}
