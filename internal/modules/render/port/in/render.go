package in

import (
	"context"

	"suerga/internal/modules/render/dto"
)

type Usecase interface {
	Build(ctx context.Context, input dto.BuildInput) (dto.BuildOutput, error)
	List(ctx context.Context) ([]dto.IndexEntry, error)
}
