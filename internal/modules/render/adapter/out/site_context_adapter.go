package out

import (
	"context"

	"suerga/internal/modules/render/domain"
	renderout "suerga/internal/modules/render/port/out"
	sitedto "suerga/internal/modules/site/dto"
	sitein "suerga/internal/modules/site/port/in"
)

type SiteContextAdapter struct {
	site sitein.Usecase
}

func NewSiteContextAdapter(site sitein.Usecase) renderout.ContextProvider {
	return &SiteContextAdapter{site: site}
}

func (a *SiteContextAdapter) Context(ctx context.Context, baseURL string) (domain.SiteContext, error) {
	out, err := a.site.BuildContext(ctx, sitedto.BuildContextInput{BaseURL: baseURL})
	if err != nil {
		return domain.SiteContext{}, err
	}
	return domain.SiteContext{
		Values:        out.Values,
		TemplatesPath: out.TemplatesPath,
		Ignore:        out.Ignore,
	}, nil
}
