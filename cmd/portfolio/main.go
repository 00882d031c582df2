package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/serper/portfolio/internal/collector"
	"github.com/serper/portfolio/internal/config"
	"github.com/serper/portfolio/internal/logger"
	"github.com/serper/portfolio/internal/portfolio"
	"github.com/serper/portfolio/internal/render"
	"github.com/serper/portfolio/internal/server"
	"github.com/serper/portfolio/internal/theme"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	root := &cobra.Command{
		Use:          "portfolio",
		Short:        "GitHub repositories → filterable portfolio page",
		SilenceUsage: true,
	}

	root.AddCommand(serveCmd(), renderCmd(), collectCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the portfolio page, fetching repositories on every load",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			app := fx.New(
				fx.Supply(cfg),
				fx.Provide(
					func(cfg *config.Config) *zap.Logger { return logger.New(cfg.IsDev()) },
					fx.Annotate(collector.New, fx.As(new(server.Source))),
					render.New,
					server.New,
				),
				fx.Decorate(func(l *zap.Logger) *zap.Logger {
					return l.With(zap.String("service", "portfolio"))
				}),
				fx.Invoke(server.Run),
				fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
					return &fxevent.ZapLogger{Logger: l}
				}),
			)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
}

func renderCmd() *cobra.Command {
	var filter, themeName, out string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Fetch once and write a static portfolio page",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, l, repos, err := fetch(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = l.Sync() }()

			renderer, err := render.New()
			if err != nil {
				return err
			}

			page := render.NewPage(cfg.GitHubUser, portfolio.New(repos), filter, theme.Parse(themeName))
			page.Static = true

			write := func(w io.Writer) error {
				if err := renderer.Page(w, page); err != nil {
					return fmt.Errorf("rendering page: %w", err)
				}
				return nil
			}
			if out == "" {
				return write(cmd.OutOrStdout())
			}

			if err := writeFile(out, write); err != nil {
				return err
			}
			l.Info("wrote portfolio page", zap.String("path", out), zap.Int("repositories", len(page.Repositories)))
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", portfolio.FilterAll, "Technology filter to apply")
	cmd.Flags().StringVar(&themeName, "theme", string(theme.Light), "Color theme (dark or light)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (default stdout)")
	return cmd
}

// writeFile creates path and hands it to write. A failed close is reported
// since the page may not have reached the disk.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	return write(f)
}

func collectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "collect",
		Short: "Fetch once and print the snapshot as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, l, repos, err := fetch(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = l.Sync() }()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(portfolio.NewSnapshot(cfg.GitHubUser, repos, time.Now()))
		},
	}
}

// fetch runs a single collection cycle for the one-shot commands
func fetch(ctx context.Context) (*config.Config, *zap.Logger, []portfolio.Repository, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	l := logger.New(cfg.IsDev())

	c, err := collector.New(cfg, l)
	if err != nil {
		return nil, nil, nil, err
	}

	repos, err := c.Collect(ctx)
	if err != nil {
		l.Error("error loading repositories", zap.Error(err))
		return nil, nil, nil, fmt.Errorf("%s: %w", render.ErrorMessage, err)
	}
	return cfg, l, repos, nil
}
