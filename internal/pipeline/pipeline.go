package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/heathrow-climate/internal/domain"
	"github.com/couchcryptid/heathrow-climate/internal/observability"
)

// Loader reads the station file into a table.
type Loader interface {
	Load(ctx context.Context) (domain.Table, error)
}

// Transformer reduces a table to one row per group.
type Transformer interface {
	Transform(ctx context.Context, table domain.Table) (domain.GroupedTable, error)
}

// Renderer draws a grouped table.
type Renderer interface {
	Render(ctx context.Context, grouped domain.GroupedTable) error
}

// Result is the output of the load and transform stages.
type Result struct {
	Table   domain.Table
	Grouped domain.GroupedTable
}

// Pipeline orchestrates load, transform and render.
type Pipeline struct {
	loader      Loader
	transformer Transformer
	renderer    Renderer
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// New creates a Pipeline. The renderer may be nil when only Prepare is used.
func New(l Loader, t Transformer, r Renderer, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		loader:      l,
		transformer: t,
		renderer:    r,
		logger:      logger,
		metrics:     metrics,
	}
}

// Prepare loads the station file and groups it.
func (p *Pipeline) Prepare(ctx context.Context) (Result, error) {
	start := time.Now()
	table, err := p.loader.Load(ctx)
	p.observe("load", start)
	if err != nil {
		p.metrics.LoadErrors.Inc()
		if domain.IsParseError(err) {
			p.metrics.ParseErrors.Inc()
		}
		p.logger.Error("load failed", "error", err)
		return Result{}, fmt.Errorf("load: %w", err)
	}
	p.metrics.RowsLoaded.Add(float64(table.Len()))

	start = time.Now()
	grouped, err := p.transformer.Transform(ctx, table)
	p.observe("transform", start)
	if err != nil {
		p.logger.Error("transform failed", "error", err)
		return Result{}, fmt.Errorf("transform: %w", err)
	}

	p.metrics.GroupsProduced.Set(float64(grouped.Len()))
	for col, n := range grouped.MissingCount() {
		p.metrics.MissingAggregates.WithLabelValues(col).Add(float64(n))
	}
	p.logger.Info("table grouped",
		"rows", table.Len(),
		"group_by", grouped.Key.Name,
		"groups", grouped.Len(),
	)

	return Result{Table: table, Grouped: grouped}, nil
}

// Run prepares the data and renders it with the configured renderer.
func (p *Pipeline) Run(ctx context.Context) error {
	if p.renderer == nil {
		return errors.New("pipeline has no renderer")
	}

	res, err := p.Prepare(ctx)
	if err != nil {
		return err
	}

	start := time.Now()
	err = p.renderer.Render(ctx, res.Grouped)
	p.observe("render", start)
	if err != nil {
		p.metrics.RenderErrors.WithLabelValues(rendererName(p.renderer)).Inc()
		p.logger.Error("render failed", "error", err)
		return fmt.Errorf("render: %w", err)
	}
	p.logger.Info("pipeline finished", "groups", res.Grouped.Len())
	return nil
}

func (p *Pipeline) observe(stage string, start time.Time) {
	d := time.Since(start)
	p.metrics.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
	p.logger.Debug("stage done", "stage", stage, "duration", d)
}

func rendererName(r Renderer) string {
	if n, ok := r.(interface{ Name() string }); ok {
		return n.Name()
	}
	return "static"
}
