package usecase

import (
	"context"
	"strings"

	"suerga/internal/modules/tryit/domain"
	"suerga/internal/modules/tryit/dto"
	tryin "suerga/internal/modules/tryit/port/in"
	"suerga/internal/modules/tryit/service"
)

type Interactor struct {
	svc *service.TryService
}

func NewInteractor(svc *service.TryService) tryin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Scaffold(ctx context.Context, input dto.ScaffoldInput) (dto.ScaffoldOutput, error) {
	page := pageFor(input.Repo, input.Branch)
	path, err := i.svc.Scaffold(ctx, input.SourcePath, page, input.Force)
	if err != nil {
		return dto.ScaffoldOutput{}, err
	}
	return dto.ScaffoldOutput{Path: path, Repo: page.Widget.Config.Repo}, nil
}

func (i *Interactor) Check(ctx context.Context, input dto.CheckInput) (dto.CheckOutput, error) {
	report, err := i.svc.Check(ctx, input.TargetPath, input.Page, pageFor(input.Repo, ""), input.BaseURL)
	if err != nil {
		return dto.CheckOutput{}, err
	}
	out := dto.CheckOutput{Page: report.Page, OK: report.OK()}
	for _, c := range report.Checks {
		out.Checks = append(out.Checks, dto.CheckResult{Name: c.Name, OK: c.OK, Details: c.Details})
	}
	return out, nil
}

func pageFor(repo, branch string) domain.Page {
	page := domain.DefaultPage()
	if repo = strings.TrimSpace(repo); repo != "" {
		page.Widget.Config.Repo = repo
	}
	page.Widget.Config.Branch = strings.TrimSpace(branch)
	return page
}
