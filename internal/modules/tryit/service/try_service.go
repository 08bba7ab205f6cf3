package service

import (
	"context"
	"fmt"

	"suerga/internal/modules/tryit/domain"
	tryout "suerga/internal/modules/tryit/port/out"
	apperrors "suerga/internal/platform/errors"
)

type TryService struct {
	store  tryout.PageStore
	reader tryout.RenderedPageReader
}

func NewTryService(store tryout.PageStore, reader tryout.RenderedPageReader) *TryService {
	return &TryService{store: store, reader: reader}
}

func (s *TryService) Scaffold(ctx context.Context, sourcePath string, page domain.Page, overwrite bool) (string, error) {
	if err := page.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	exists, err := s.store.Exists(ctx, sourcePath)
	if err != nil {
		return "", err
	}
	if exists && !overwrite {
		return "", fmt.Errorf("%w: %s in %s", apperrors.ErrAlreadyExists, domain.PageFile, sourcePath)
	}
	return s.store.Save(ctx, sourcePath, page)
}

func (s *TryService) Check(ctx context.Context, targetPath, pageRel string, page domain.Page, baseURL string) (domain.Report, error) {
	if err := page.Validate(); err != nil {
		return domain.Report{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if pageRel == "" {
		pageRel = domain.RenderedFile
	}
	rendered, err := s.reader.Read(ctx, targetPath, pageRel)
	if err != nil {
		return domain.Report{}, err
	}
	report := domain.Verify(page, rendered, baseURL)
	report.Page = pageRel
	return report, nil
}
