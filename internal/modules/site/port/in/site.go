package in

import (
	"context"

	"suerga/internal/modules/site/dto"
)

type Usecase interface {
	BuildContext(ctx context.Context, input dto.BuildContextInput) (dto.ContextOutput, error)
}
