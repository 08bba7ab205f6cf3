package in

import (
	"context"
	"time"

	"suerga/internal/modules/preview/dto"
	previewin "suerga/internal/modules/preview/port/in"
)

type CLIHandler struct {
	usecase previewin.Usecase
}

func NewCLIHandler(usecase previewin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Serve(ctx context.Context, sourcePath, targetPath, baseURL, addr string, watch bool, debounce time.Duration) error {
	return h.usecase.Serve(ctx, dto.ServeInput{
		SourcePath: sourcePath,
		TargetPath: targetPath,
		BaseURL:    baseURL,
		Addr:       addr,
		Watch:      watch,
		Debounce:   debounce,
	})
}
