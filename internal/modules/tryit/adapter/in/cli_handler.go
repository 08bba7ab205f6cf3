package in

import (
	"context"

	"suerga/internal/modules/tryit/dto"
	tryin "suerga/internal/modules/tryit/port/in"
)

type CLIHandler struct {
	usecase tryin.Usecase
}

func NewCLIHandler(usecase tryin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Scaffold(ctx context.Context, sourcePath, repo, branch string, force bool) (dto.ScaffoldOutput, error) {
	return h.usecase.Scaffold(ctx, dto.ScaffoldInput{SourcePath: sourcePath, Repo: repo, Branch: branch, Force: force})
}

func (h CLIHandler) Check(ctx context.Context, targetPath, page, baseURL, repo string) (dto.CheckOutput, error) {
	return h.usecase.Check(ctx, dto.CheckInput{TargetPath: targetPath, Page: page, BaseURL: baseURL, Repo: repo})
}
