package in

import (
	"context"

	"suerga/internal/modules/tryit/dto"
)

type Usecase interface {
	Scaffold(ctx context.Context, input dto.ScaffoldInput) (dto.ScaffoldOutput, error)
	Check(ctx context.Context, input dto.CheckInput) (dto.CheckOutput, error)
}
