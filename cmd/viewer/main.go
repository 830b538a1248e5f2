// Command viewer opens the grouped Heathrow series in an interactive window.
// All settings come from the environment; see internal/config.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/heathrow-climate/internal/adapter/metoffice"
	"github.com/couchcryptid/heathrow-climate/internal/adapter/viewer"
	"github.com/couchcryptid/heathrow-climate/internal/config"
	"github.com/couchcryptid/heathrow-climate/internal/domain"
	"github.com/couchcryptid/heathrow-climate/internal/observability"
	"github.com/couchcryptid/heathrow-climate/internal/pipeline"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return pipeline.ExitCode(err)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	defer func() {
		if werr := observability.WriteTextfile(cfg.MetricsTextfile); werr != nil {
			logger.Warn("metrics not written", "error", werr)
		}
	}()

	// Fail before parsing when the window could never open.
	if err := viewer.CheckDisplay(); err != nil {
		metrics.RenderErrors.WithLabelValues("interactive").Inc()
		logger.Error("viewer unavailable", "error", err)
		return pipeline.ExitCode(err)
	}

	reader := metoffice.NewReader(cfg.DataPath, logger)
	transformer := pipeline.NewTransformer(cfg.GroupKey, cfg.Aggregations, logger)
	p := pipeline.New(reader, transformer, nil, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	res, err := p.Prepare(ctx)
	stop()
	if err != nil {
		logger.Error("viewer failed", "error", err)
		return pipeline.ExitCode(err)
	}

	// files opened from the window go through the same pipeline and metrics
	reload := func(ctx context.Context, path string) (domain.Table, domain.GroupedTable, error) {
		r, err := pipeline.New(metoffice.NewReader(path, logger), transformer, nil, logger, metrics).Prepare(ctx)
		return r.Table, r.Grouped, err
	}

	v, err := viewer.New(res.Table, res.Grouped, viewer.Options{
		Title:    fmt.Sprintf("Heathrow by %s", cfg.GroupKey.Name),
		Width:    cfg.ChartWidth,
		Height:   cfg.ChartHeight,
		BinWidth: cfg.HistogramBinWidth,
		Reload:   reload,
	}, logger)
	if err != nil {
		metrics.RenderErrors.WithLabelValues("interactive").Inc()
		logger.Error("viewer failed", "error", err)
		return pipeline.ExitCode(err)
	}

	v.ShowAndRun()
	return pipeline.ExitOK
}
