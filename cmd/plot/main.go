// Command plot renders the grouped Heathrow series to a PNG or SVG file.
// All settings come from the environment; see internal/config.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/couchcryptid/heathrow-climate/internal/adapter/chart"
	"github.com/couchcryptid/heathrow-climate/internal/adapter/metoffice"
	"github.com/couchcryptid/heathrow-climate/internal/config"
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

	reader := metoffice.NewReader(cfg.DataPath, logger)
	transformer := pipeline.NewTransformer(cfg.GroupKey, cfg.Aggregations, logger)
	caption := fmt.Sprintf("%s grouped by %s", filepath.Base(cfg.DataPath), cfg.GroupKey.Name)
	renderer := chart.NewStaticRenderer(cfg.OutputPath, cfg.ChartWidth, cfg.ChartHeight, caption, logger)

	p := pipeline.New(reader, transformer, renderer, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("plot started",
		"data_file", cfg.DataPath,
		"group_by", cfg.GroupKey.Name,
		"output", cfg.OutputPath,
	)
	err = p.Run(ctx)

	if werr := observability.WriteTextfile(cfg.MetricsTextfile); werr != nil {
		logger.Warn("metrics not written", "error", werr)
	}
	if err != nil {
		logger.Error("plot failed", "error", err)
		return pipeline.ExitCode(err)
	}
	return pipeline.ExitOK
}
