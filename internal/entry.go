// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/starford/codex/internal/api"
	"github.com/starford/codex/internal/metrics"
	"github.com/starford/codex/internal/site"
	"github.com/starford/codex/internal/sse"
	"github.com/starford/codex/internal/watch"
	"github.com/starford/codex/internal/web"
)

// Version is reported by the MCP server; overridden at build time.
var Version = "dev"

// newApplication applies opts. Without WithLogger, a JSON logger writing to
// logOut is used.
func newApplication(opts []Option, logOut io.Writer) (*application, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if app.logger == nil {
		app.logger = slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
			Level: app.config.App.LogLevel,
		}))
	}
	return app, nil
}

// Server is the assembled HTTP surface.
type Server struct {
	Handler http.Handler
	Broker  *sse.Broker
}

// NewServer builds the chi router over an opened archive. The broker is
// created only when change notices are enabled.
func NewServer(cfg *Config, arc *Archive, intro site.Intro, recorder *metrics.PrometheusRecorder, logger *slog.Logger) *Server {
	srv := &Server{}
	var events http.Handler
	if cfg.Watch.Enabled {
		srv.Broker = sse.NewBroker(2 * time.Second)
		events = srv.Broker
	}

	pages := web.NewHandler(arc.Service, web.Site{
		Title:       cfg.Site.Title,
		Subtitle:    cfg.Site.Subtitle,
		LiveUpdates: cfg.Watch.Enabled,
	}, intro, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":      "ok",
			"manuscripts": arc.Catalog.Len(),
			"skipped":     arc.Catalog.Skipped(),
		})
	})

	if recorder != nil {
		r.Handle("/metrics", recorder.Handler())
	}

	r.Mount("/api", api.NewRouter(arc.Service, events))
	pages.Register(r)
	r.NotFound(pages.NotFound)

	srv.Handler = r
	return srv
}

// Run starts the HTTP server with the given options and blocks until ctx is
// cancelled or a shutdown signal arrives.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts, os.Stdout)
	if err != nil {
		return err
	}
	cfg := app.config
	logger := app.logger
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("documents", cfg.Archive.Documents),
		slog.String("stylesheet", cfg.Archive.Stylesheet),
		slog.Bool("watch", cfg.Watch.Enabled),
		slog.Bool("metrics", cfg.Metrics.Enabled),
		slog.String("log_level", cfg.App.LogLevel.String()))

	var recorder *metrics.PrometheusRecorder
	var rec metrics.Recorder = metrics.NoopRecorder{}
	if cfg.Metrics.Enabled {
		reg := app.registry
		if reg == nil {
			reg = prometheus.NewRegistry()
		}
		recorder = metrics.NewPrometheusRecorder(reg)
		rec = recorder
	}

	intro, err := site.LoadIntro(cfg.Site.Intro)
	if err != nil {
		return fmt.Errorf("load intro: %w", err)
	}

	arc, err := OpenArchive(cfg, logger, rec)
	if err != nil {
		return err
	}
	defer arc.Close()

	srv := NewServer(cfg, arc, intro, recorder, logger)
	if srv.Broker != nil {
		defer srv.Broker.Close()
	}

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           srv.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.Int("manuscripts", arc.Catalog.Len()))

	ctx, stop := context.WithCancel(ctx)
	defer stop()
	g, gCtx := errgroup.WithContext(ctx)

	if srv.Broker != nil {
		g.Go(func() error {
			if err := watch.Watch(gCtx, arc.Catalog.Dir(), arc.Catalog.Extension(), logger, srv.Broker.PublishDocumentEvent); err != nil {
				logger.Warn("watcher unavailable", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")
		stop()
		if srv.Broker != nil {
			srv.Broker.Close()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
