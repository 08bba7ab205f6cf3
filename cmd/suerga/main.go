package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"suerga/internal/bootstrap"
	"suerga/internal/platform/config"
	xlog "suerga/internal/platform/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string
	var logJSON bool

	root := &cobra.Command{
		Use:           "suerga",
		Short:         "Static documentation site builder",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			xlog.Configure(xlog.Config{Level: logLevel, Output: cmd.ErrOrStderr(), Console: !logJSON})
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); defaults to $LOG_LEVEL or info")
	root.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit logs as JSON")

	root.AddCommand(newBuildCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newContextCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newTryCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newPluginCmd())
	return root
}

func loadApp(sourcePath, targetPath, baseURL string) (*bootstrap.App, error) {
	cfg, err := config.New(sourcePath, targetPath, baseURL)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

func newBuildCmd() *cobra.Command {
	var targetPath, baseURL string
	cmd := &cobra.Command{
		Use:   "build <source>",
		Short: "Render a site source (must contain pysuerga.yml) into the target directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(args[0], targetPath, baseURL)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.RenderCLI.Build(cmd.Context(), app.Config.SourcePath, app.Config.TargetPath, app.Config.BaseURL)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "built %d files (%d pages, %d assets) into %s: %d changed, %d unchanged, %d removed\n",
				out.Files, out.Pages, out.Assets, app.Config.TargetPath, len(out.Changed), out.Unchanged, len(out.Removed))
			return nil
		},
	}
	cmd.Flags().StringVar(&targetPath, "target-path", "build", "directory where to write the output")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "base url where the website is served from")
	return cmd
}

func newServeCmd() *cobra.Command {
	var targetPath, baseURL, addr string
	var watch bool
	cmd := &cobra.Command{
		Use:   "serve <source>",
		Short: "Build the site and serve it locally, optionally rebuilding on change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(args[0], targetPath, baseURL)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			cfg := app.Config
			return app.PreviewCLI.Serve(ctx, cfg.SourcePath, cfg.TargetPath, cfg.BaseURL, addr, watch, cfg.WatchDebounce)
		},
	}
	cmd.Flags().StringVar(&targetPath, "target-path", "build", "directory where to write the output")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "base url where the website is served from")
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8000", "listen address")
	cmd.Flags().BoolVar(&watch, "watch", false, "rebuild when the source changes")
	return cmd
}

func newContextCmd() *cobra.Command {
	var baseURL string
	cmd := &cobra.Command{
		Use:   "context <source>",
		Short: "Print the template context after all preprocessors ran",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(args[0], "", baseURL)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			raw, err := app.SiteCLI.Dump(cmd.Context(), app.Config.BaseURL)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(raw)
			return err
		},
	}
	cmd.Flags().StringVar(&baseURL, "base-url", "", "base url where the website is served from")
	return cmd
}

func newCheckCmd() *cobra.Command {
	var targetPath, page, baseURL, repo string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the rendered try page of a build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := bootstrap.NewTry().Check(cmd.Context(), targetPath, page, baseURL, repo)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, c := range out.Checks {
				status := "ok"
				if !c.OK {
					status = "FAIL"
				}
				_, _ = fmt.Fprintf(w, "%-4s %s", status, c.Name)
				if c.Details != "" {
					_, _ = fmt.Fprintf(w, ": %s", c.Details)
				}
				_, _ = fmt.Fprintln(w)
			}
			if !out.OK {
				return fmt.Errorf("%s failed verification", out.Page)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&targetPath, "target-path", "build", "build output directory")
	cmd.Flags().StringVar(&page, "page", "try.html", "page to verify, relative to the target")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "base url the site was built with")
	cmd.Flags().StringVar(&repo, "repo", "", "expected widget repository (defaults to the built-in one)")
	return cmd
}

func newTryCmd() *cobra.Command {
	try := &cobra.Command{Use: "try", Short: "Try-it-online page operations"}

	var repo, branch string
	var force bool
	initCmd := &cobra.Command{
		Use:   "init <source>",
		Short: "Write the try page into a site source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := bootstrap.NewTry().Scaffold(cmd.Context(), args[0], repo, branch, force)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (repo=%s)\n", out.Path, out.Repo)
			return nil
		},
	}
	initCmd.Flags().StringVar(&repo, "repo", "", "repository the widget kernel is built from")
	initCmd.Flags().StringVar(&branch, "branch", "", "repository branch (optional)")
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing try page")
	try.AddCommand(initCmd)
	return try
}

func newReportCmd() *cobra.Command {
	var targetPath, baseURL, page string
	var tui bool
	cmd := &cobra.Command{
		Use:   "report <source>",
		Short: "Show the outputs recorded by the last build",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(args[0], targetPath, baseURL)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			if tui {
				return bootstrap.RunReportTUI(app, page)
			}
			entries, err := app.RenderCLI.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no build recorded")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "PATH\tKIND\tSIZE\tSHA256")
			for _, e := range entries {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", e.Path, e.Kind, e.Size, e.SHA256[:min(12, len(e.SHA256))])
			}
			_, _ = fmt.Fprintf(tw, "\nbuild %s at %s\n", entries[0].BuildID, entries[0].BuiltAt.Format("2006-01-02 15:04:05 MST"))
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&targetPath, "target-path", "build", "build output directory")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "base url the site was built with")
	cmd.Flags().StringVar(&page, "page", "try.html", "page verified in the TUI")
	cmd.Flags().BoolVar(&tui, "tui", false, "browse the report in a terminal UI")
	return cmd
}

func newPluginCmd() *cobra.Command {
	plugin := &cobra.Command{Use: "plugin", Short: "Context preprocessor plugins"}
	plugin.AddCommand(&cobra.Command{
		Use:   "list <source>",
		Short: "List plugin manifests",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(args[0], "", "")
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			plugins, err := app.PluginCLI.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(plugins) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no plugins configured")
				return nil
			}
			for _, p := range plugins {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s@%s enabled=%t binary=%s capabilities=%v\n", p.Name, p.Version, p.Enabled, p.Binary, p.Capabilities)
			}
			return nil
		},
	})

	plugin.AddCommand(&cobra.Command{
		Use:   "doctor <source>",
		Short: "Validate plugin checksums and lifecycle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(args[0], "", "")
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			results, err := app.PluginCLI.Doctor(cmd.Context())
			if err != nil {
				return err
			}
			if len(results) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no plugins configured")
				return nil
			}
			for _, r := range results {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s checksum=%t binary=%t lifecycle=%t", r.Name, r.ChecksumValid, r.BinaryReachable, r.LifecycleOK)
				if r.Error != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), " error=%q", r.Error)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	})
	return plugin
}
