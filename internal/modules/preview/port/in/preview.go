package in

import (
	"context"

	"suerga/internal/modules/preview/dto"
)

type Usecase interface {
	// Serve blocks until ctx is cancelled or the server fails.
	Serve(ctx context.Context, input dto.ServeInput) error
}
