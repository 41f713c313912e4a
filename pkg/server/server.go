package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	handlers "github.com/de-tools/audit-atlas/pkg/handlers/audit"
	auditmiddleware "github.com/de-tools/audit-atlas/pkg/server/middleware"
	"github.com/de-tools/audit-atlas/pkg/services/analysis"
	"github.com/de-tools/audit-atlas/pkg/services/hierarchy"
	"github.com/de-tools/audit-atlas/pkg/services/portfolio"
	"github.com/de-tools/audit-atlas/pkg/services/workflow"
)

const defaultShutdownTimeout = 10 * time.Second

type WebAPI struct {
	router          *chi.Mux
	logger          *zerolog.Logger
	server          *http.Server
	shutdownTimeout time.Duration
}

type Dependencies struct {
	Resolver   hierarchy.Resolver
	Explorer   portfolio.Explorer
	Controller workflow.Controller
	Papers     handlers.PaperEditor
	// Analyzer is optional.
	Analyzer analysis.Analyzer
	Logger   zerolog.Logger
}

type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

func ConfigureRouter(config Config) *chi.Mux {
	deps := config.Dependencies
	h := handlers.NewHandler(deps.Resolver, deps.Explorer, deps.Controller, deps.Papers, deps.Analyzer)

	router := chi.NewRouter()
	router.Use(auditmiddleware.Logger(&deps.Logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/projects", h.ListProjects)
		r.Get("/projects/{project}", h.GetProject)
		r.Get("/projects/{project}/programmes", h.ListProgrammes)
		r.Post("/projects/{project}/report", h.DraftReport)

		r.Get("/issues", h.ListIssues)
		r.Get("/issues/{issue}", h.GetIssue)
		r.Post("/issues/{issue}/status", h.SetIssueStatus)

		r.Post("/working-papers/{wp}/status", h.SetWorkingPaperStatus)
		r.Patch("/working-papers/{wp}", h.PatchWorkingPaper)

		r.Get("/dashboard", h.GetDashboard)
		r.Post("/analysis", h.Analyze)
	})

	return router
}

func NewWebAPI(config Config) *WebAPI {
	router := ConfigureRouter(config)
	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	logger := config.Dependencies.Logger

	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		shutdownTimeout: timeout,
	}
}

// Start serves until the listener fails, ctx is cancelled or the process
// receives SIGINT/SIGTERM.
func (w *WebAPI) Start(ctx context.Context) error {
	serverErrors := make(chan error, 1)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(shutdownCtx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}

		if err != nil {
			return err
		}
	}

	return nil
}
