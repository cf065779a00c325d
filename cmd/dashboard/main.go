package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/thor-dashboard/internal/adapter/http"
	"github.com/couchcryptid/thor-dashboard/internal/adapter/render"
	"github.com/couchcryptid/thor-dashboard/internal/config"
	"github.com/couchcryptid/thor-dashboard/internal/dashboard"
	"github.com/couchcryptid/thor-dashboard/internal/dataset"
	"github.com/couchcryptid/thor-dashboard/internal/geo"
	"github.com/couchcryptid/thor-dashboard/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	loader := dataset.NewLoader(os.DirFS(cfg.DataDir), logger, metrics)
	filter := geo.NewFilter(nil, metrics)
	renderer := render.NewRenderer(cfg.ChartWidth, cfg.ChartHeight, logger)

	dash := dashboard.New(loader, filter, renderer,
		dashboard.Sources{Geo: cfg.GeoDataFile, Ops: cfg.OpsDataFile},
		cfg.MapStyle, logger, metrics)

	// The dashboard has no degraded mode without its data.
	if err := dash.Load(); err != nil {
		logger.Error("failed to load datasets", "data_dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, dash, os.Stdout, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
