package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/heathrow-climate/internal/adapter/metoffice"
	"github.com/couchcryptid/heathrow-climate/internal/domain"
	"github.com/couchcryptid/heathrow-climate/internal/observability"
	"github.com/couchcryptid/heathrow-climate/internal/pipeline"
)

// --- mocks ---

type mockLoader struct {
	table domain.Table
	err   error
	calls int
}

func (m *mockLoader) Load(_ context.Context) (domain.Table, error) {
	m.calls++
	return m.table, m.err
}

type mockTransformer struct {
	grouped domain.GroupedTable
	err     error
	calls   int
}

func (m *mockTransformer) Transform(_ context.Context, _ domain.Table) (domain.GroupedTable, error) {
	m.calls++
	return m.grouped, m.err
}

type mockRenderer struct {
	err      error
	rendered []domain.GroupedTable
}

func (m *mockRenderer) Render(_ context.Context, grouped domain.GroupedTable) error {
	m.rendered = append(m.rendered, grouped)
	return m.err
}

func (m *mockRenderer) Name() string { return "mock" }

func newTestMetrics() *observability.Metrics {
	// Use a fresh registry to avoid "already registered" panics in tests.
	return observability.NewMetricsForTesting()
}

func sampleTable(t *testing.T) domain.Table {
	t.Helper()
	table, err := domain.NewTable([]domain.Observation{
		{Year: 2000, Month: 1, TMax: 8, TMin: 2, AirFrost: 5, Rain: 40, Sun: 60},
		{Year: 2000, Month: 2, TMax: 9, TMin: 3, AirFrost: 3, Rain: 30, Sun: 70},
	}, domain.SourceInfo{Name: "sample.txt"})
	require.NoError(t, err)
	return table
}

func sampleGrouped() domain.GroupedTable {
	return domain.GroupedTable{
		Key:    domain.ByMonth,
		Keys:   []int{1, 2},
		Aggs:   []domain.ColumnAggregation{{Column: domain.ColTMax, Agg: domain.AggMax}},
		Values: [][]float64{{8, 9}},
	}
}

// --- tests ---

func TestPipeline_Run_HappyPath(t *testing.T) {
	ldr := &mockLoader{table: sampleTable(t)}
	tfm := &mockTransformer{grouped: sampleGrouped()}
	rdr := &mockRenderer{}
	metrics := newTestMetrics()

	p := pipeline.New(ldr, tfm, rdr, slog.Default(), metrics)
	require.NoError(t, p.Run(context.Background()))

	require.Len(t, rdr.rendered, 1)
	assert.Equal(t, []int{1, 2}, rdr.rendered[0].Keys)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.RowsLoaded), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.GroupsProduced), 0)
	assert.Equal(t, 3, testutil.CollectAndCount(metrics.StageDuration))
}

func TestPipeline_Prepare(t *testing.T) {
	table := sampleTable(t)
	ldr := &mockLoader{table: table}
	tfm := &mockTransformer{grouped: sampleGrouped()}

	p := pipeline.New(ldr, tfm, nil, slog.Default(), newTestMetrics())
	res, err := p.Prepare(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Table.Len())
	assert.Equal(t, "sample.txt", res.Table.Source().Name)
	assert.Equal(t, 2, res.Grouped.Len())
}

func TestPipeline_Run_NoRenderer(t *testing.T) {
	ldr := &mockLoader{}
	p := pipeline.New(ldr, &mockTransformer{}, nil, slog.Default(), newTestMetrics())
	require.Error(t, p.Run(context.Background()))
	assert.Zero(t, ldr.calls)
}

func TestPipeline_Run_LoadFailureStopsEarly(t *testing.T) {
	ldr := &mockLoader{err: fmt.Errorf("%w: /nope", domain.ErrFileNotFound)}
	tfm := &mockTransformer{}
	rdr := &mockRenderer{}
	metrics := newTestMetrics()

	err := pipeline.New(ldr, tfm, rdr, slog.Default(), metrics).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
	assert.Zero(t, tfm.calls)
	assert.Empty(t, rdr.rendered)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.LoadErrors), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.ParseErrors), 0)
}

func TestPipeline_Run_ParseErrorCounted(t *testing.T) {
	ldr := &mockLoader{err: &domain.ParseError{Line: 9, Reason: "bad"}}
	metrics := newTestMetrics()

	err := pipeline.New(ldr, &mockTransformer{}, &mockRenderer{}, slog.Default(), metrics).Run(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsParseError(err))
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ParseErrors), 0)
}

func TestPipeline_Run_TransformFailureStopsBeforeRender(t *testing.T) {
	tfm := &mockTransformer{err: errors.New("bad column")}
	rdr := &mockRenderer{}

	err := pipeline.New(&mockLoader{table: sampleTable(t)}, tfm, rdr, slog.Default(), newTestMetrics()).
		Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "transform")
	assert.Empty(t, rdr.rendered)
}

func TestPipeline_Run_RenderError(t *testing.T) {
	rdr := &mockRenderer{err: fmt.Errorf("%w: nothing to plot", domain.ErrRender)}
	metrics := newTestMetrics()

	err := pipeline.New(&mockLoader{table: sampleTable(t)}, &mockTransformer{grouped: sampleGrouped()}, rdr,
		slog.Default(), metrics).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRender)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RenderErrors.WithLabelValues("mock")), 0)
}

func TestPipeline_MissingAggregatesRecorded(t *testing.T) {
	grouped := domain.GroupedTable{
		Key:    domain.ByYear,
		Keys:   []int{1948, 1949},
		Aggs:   []domain.ColumnAggregation{{Column: domain.ColSun, Agg: domain.AggMean}},
		Values: [][]float64{{math.NaN(), 100}},
	}
	metrics := newTestMetrics()

	_, err := pipeline.New(&mockLoader{table: sampleTable(t)}, &mockTransformer{grouped: grouped}, nil,
		slog.Default(), metrics).Prepare(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.MissingAggregates.WithLabelValues(domain.ColSun)), 0)
}

func TestPipeline_EndToEndWithReader(t *testing.T) {
	rdr := &mockRenderer{}
	p := pipeline.New(
		metoffice.NewReader(fixture, slog.Default()),
		pipeline.NewTransformer(domain.ByMonth, defaultAggs, slog.Default()),
		rdr, slog.Default(), newTestMetrics(),
	)
	require.NoError(t, p.Run(context.Background()))
	require.Len(t, rdr.rendered, 1)
	assert.Equal(t, 12, rdr.rendered[0].Len())
}

func TestPipeline_MissingFileExitCode(t *testing.T) {
	p := pipeline.New(
		metoffice.NewReader(filepath.Join(t.TempDir(), "missing.txt"), slog.Default()),
		pipeline.NewTransformer(domain.ByMonth, defaultAggs, slog.Default()),
		&mockRenderer{}, slog.Default(), newTestMetrics(),
	)
	err := p.Run(context.Background())
	assert.Equal(t, pipeline.ExitFileNotFound, pipeline.ExitCode(err))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, pipeline.ExitOK},
		{"not found", fmt.Errorf("load: %w", domain.ErrFileNotFound), pipeline.ExitFileNotFound},
		{"parse", fmt.Errorf("load: %w", &domain.ParseError{Line: 3}), pipeline.ExitParse},
		{"render", fmt.Errorf("render: %w", domain.ErrRender), pipeline.ExitRender},
		{"config", fmt.Errorf("%w: GROUP_BY", domain.ErrConfig), pipeline.ExitFailure},
		{"other", errors.New("boom"), pipeline.ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pipeline.ExitCode(tt.err))
		})
	}
}
