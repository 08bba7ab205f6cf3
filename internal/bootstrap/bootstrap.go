package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	plugininadapter "suerga/internal/modules/plugin/adapter/in"
	pluginoutadapter "suerga/internal/modules/plugin/adapter/out"
	pluginservice "suerga/internal/modules/plugin/service"
	pluginusecase "suerga/internal/modules/plugin/usecase"
	previewinadapter "suerga/internal/modules/preview/adapter/in"
	previewoutadapter "suerga/internal/modules/preview/adapter/out"
	previewservice "suerga/internal/modules/preview/service"
	previewusecase "suerga/internal/modules/preview/usecase"
	renderinadapter "suerga/internal/modules/render/adapter/in"
	renderoutadapter "suerga/internal/modules/render/adapter/out"
	renderservice "suerga/internal/modules/render/service"
	renderusecase "suerga/internal/modules/render/usecase"
	siteinadapter "suerga/internal/modules/site/adapter/in"
	siteoutadapter "suerga/internal/modules/site/adapter/out"
	siteservice "suerga/internal/modules/site/service"
	siteusecase "suerga/internal/modules/site/usecase"
	tryinadapter "suerga/internal/modules/tryit/adapter/in"
	tryoutadapter "suerga/internal/modules/tryit/adapter/out"
	trydto "suerga/internal/modules/tryit/dto"
	tryservice "suerga/internal/modules/tryit/service"
	tryusecase "suerga/internal/modules/tryit/usecase"
	"suerga/internal/platform/clock"
	"suerga/internal/platform/config"
	"suerga/internal/platform/id"
	xlog "suerga/internal/platform/log"
	uiapp "suerga/internal/ui/app"
)

type App struct {
	Config     config.Config
	RenderCLI  renderinadapter.CLIHandler
	SiteCLI    siteinadapter.CLIHandler
	PluginCLI  plugininadapter.CLIHandler
	PreviewCLI previewinadapter.CLIHandler
	TryCLI     tryinadapter.CLIHandler

	closers []io.Closer
}

// NewTry wires the try page commands, which need no site state.
func NewTry() tryinadapter.CLIHandler {
	return tryinadapter.NewCLIHandler(tryusecase.NewInteractor(tryservice.NewTryService(
		tryoutadapter.NewFilePageStore(),
		tryoutadapter.NewHTMLInspector(),
	)))
}

func New(cfg config.Config) (*App, error) {
	app := &App{Config: cfg, TryCLI: NewTry()}
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	pluginUC := pluginusecase.NewInteractor(pluginservice.NewPluginService(
		pluginoutadapter.NewFileManifestStore(cfg.SourcePath),
		pluginoutadapter.NewGRPCHost(),
	))

	responseCache, err := siteoutadapter.NewSQLiteResponseCache(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new response cache: %w", err)
	}
	app.closers = append(app.closers, responseCache)
	github := siteoutadapter.NewGitHubClient(siteoutadapter.GitHubOptions{
		BaseURL: cfg.GitHubAPI,
		Token:   cfg.GitHubToken,
		Client:  httpClient,
		Limiter: rate.NewLimiter(rate.Limit(4), 4),
		Cache:   responseCache,
		Logger:  xlog.WithComponent("github"),
	})
	siteUC := siteusecase.NewInteractor(siteservice.NewContextService(
		siteoutadapter.NewYAMLConfigStore(cfg.SiteConfig),
		siteoutadapter.NewGoFeedFetcher(httpClient),
		github,
		siteoutadapter.NewPluginPreprocessor(pluginUC, cfg.SourcePath),
		xlog.WithComponent("site"),
	))

	buildIndex, err := renderoutadapter.NewSQLiteBuildIndex(cfg.DBPath)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("new build index: %w", err)
	}
	app.closers = append(app.closers, buildIndex)
	renderUC := renderusecase.NewInteractor(renderservice.NewRenderService(renderservice.Deps{
		Clock:     clock.SystemClock{},
		IDs:       id.UUID{},
		Contexts:  renderoutadapter.NewSiteContextAdapter(siteUC),
		Tree:      renderoutadapter.NewFSSourceTree(),
		Markdown:  renderoutadapter.NewGoldmarkConverter(),
		Templates: renderoutadapter.NewPongo2Engine(),
		Writer:    renderoutadapter.NewFSOutputWriter(),
		Index:     buildIndex,
		Logger:    xlog.WithComponent("render"),
	}))

	previewLogger := xlog.WithComponent("preview")
	previewUC := previewusecase.NewInteractor(previewservice.NewPreviewService(
		previewoutadapter.NewRenderBuilder(renderUC, cfg.SourcePath, cfg.TargetPath, cfg.BaseURL),
		previewoutadapter.NewFSNotifyWatcher(previewLogger),
		previewoutadapter.NewChiServer(previewLogger),
		previewLogger,
	))

	app.RenderCLI = renderinadapter.NewCLIHandler(renderUC)
	app.SiteCLI = siteinadapter.NewCLIHandler(siteUC)
	app.PluginCLI = plugininadapter.NewCLIHandler(pluginUC)
	app.PreviewCLI = previewinadapter.NewCLIHandler(previewUC)
	return app, nil
}

// Close releases the SQLite handles.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}

type pageCheck struct {
	try     tryinadapter.CLIHandler
	target  string
	page    string
	baseURL string
}

func (c pageCheck) Check(ctx context.Context) (trydto.CheckOutput, error) {
	return c.try.Check(ctx, c.target, c.page, c.baseURL, "")
}

// RunReportTUI shows the last build and the verification of its try page.
func RunReportTUI(app *App, page string) error {
	checks := pageCheck{try: app.TryCLI, target: app.Config.TargetPath, page: page, baseURL: app.Config.BaseURL}
	model := uiapp.New(app.RenderCLI, checks)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}
