// Package app assembles the store and services shared by the binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/de-tools/audit-atlas/pkg/services/analysis"
	"github.com/de-tools/audit-atlas/pkg/services/config"
	"github.com/de-tools/audit-atlas/pkg/services/hierarchy"
	"github.com/de-tools/audit-atlas/pkg/services/portfolio"
	"github.com/de-tools/audit-atlas/pkg/services/workflow"
	"github.com/de-tools/audit-atlas/pkg/store/memory"
	"github.com/de-tools/audit-atlas/pkg/store/seed"
	"github.com/de-tools/audit-atlas/pkg/telemetry"
)

// Version is stamped at build time with -ldflags "-X ...app.Version=...".
var Version = "dev"

type App struct {
	Store      memory.Store
	Resolver   hierarchy.Resolver
	Explorer   portfolio.Explorer
	Controller workflow.Controller
	// Analyzer is nil when AI analysis is disabled or has no API key.
	Analyzer analysis.Analyzer

	shutdown telemetry.ShutdownFunc
}

func NewLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}
	if cfg.Log.Pretty {
		out = zerolog.ConsoleWriter{Out: out}
	}
	return zerolog.New(out).Level(cfg.LogLevel()).With().Timestamp().Logger()
}

// Build seeds the store and wires the services. The logger is taken from ctx.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := zerolog.Ctx(ctx)

	shutdown, err := telemetry.Init(ctx, cfg.TelemetrySettings(Version))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	st, err := seed.NewSeededStore(ctx, cfg.Seed.Path)
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("failed to seed store: %w", err)
	}

	a := &App{
		Store:      st,
		Resolver:   hierarchy.NewResolver(st),
		Explorer:   portfolio.NewExplorer(st),
		Controller: workflow.NewController(st, workflow.WithLinkPolicy(cfg.LinkPolicy())),
		shutdown:   shutdown,
	}

	if cfg.Analysis.Enabled {
		client, err := analysis.NewClient(cfg.AnalysisSettings())
		switch {
		case errors.Is(err, analysis.ErrAPIKeyRequired):
			logger.Warn().Msg("no Anthropic API key; AI analysis disabled")
		case err != nil:
			_ = shutdown(ctx)
			return nil, fmt.Errorf("failed to create analysis client: %w", err)
		default:
			a.Analyzer = client
		}
	}

	logger.Info().
		Int("projects", len(st.ListProjects(ctx))).
		Int("issues", len(st.ListIssues(ctx))).
		Str("link_policy", string(cfg.LinkPolicy())).
		Bool("analysis", a.Analyzer != nil).
		Msg("audit store ready")
	return a, nil
}

func (a *App) Close(ctx context.Context) error {
	if a.shutdown == nil {
		return nil
	}
	return a.shutdown(ctx)
}
