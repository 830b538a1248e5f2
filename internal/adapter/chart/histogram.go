package chart

import (
	"fmt"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/couchcryptid/heathrow-climate/internal/domain"
)

// HistogramOptions controls BuildHistogram. The value axis is vertical and
// fixed to [YMin,YMax] so it lines up with the time series next to it.
type HistogramOptions struct {
	Width, Height int
	Title         string
	YMin, YMax    float64
	BinWidth      float64
}

// BuildHistogram draws a rotated step histogram of the raw values of each
// aggregated column, one outline per column, in percent of valid values.
// values[i] holds the raw values for aggs[i].
func BuildHistogram(aggs []domain.ColumnAggregation, values [][]float64, opts HistogramOptions) (gochart.Chart, error) {
	if len(aggs) != len(values) {
		return gochart.Chart{}, fmt.Errorf("%w: %d aggregations for %d value columns", domain.ErrRender, len(aggs), len(values))
	}
	edges := domain.HistogramEdges(opts.YMin, opts.YMax, opts.BinWidth)
	if len(edges) < 2 {
		return gochart.Chart{}, ErrNothingToPlot
	}

	var (
		series []gochart.Series
		maxPct float64
	)
	for i, a := range aggs {
		h := domain.NewHistogram(values[i], edges)
		if h.Count == 0 {
			continue
		}
		xs, ys := stepOutline(h)
		for _, p := range h.Percent {
			maxPct = math.Max(maxPct, p)
		}
		name := a.Column
		if info, ok := domain.LookupColumn(a.Column); ok {
			name = info.Title
		}
		series = append(series, gochart.ContinuousSeries{
			Name:    fmt.Sprintf("%s (n=%d)", name, h.Count),
			XValues: xs,
			YValues: ys,
			Style: gochart.Style{
				StrokeColor: SeriesColor(a, i),
				StrokeWidth: 1.5,
			},
		})
	}
	if len(series) == 0 {
		return gochart.Chart{}, ErrNothingToPlot
	}

	_, xMax := niceAxisBounds(0, math.Max(maxPct, 1))
	ch := gochart.Chart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 8, Right: 16, Bottom: 16}},
		XAxis: gochart.XAxis{
			Name:  "%",
			Range: &gochart.ContinuousRange{Min: 0, Max: xMax},
			Ticks: niceTicks(0, xMax, 4),
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: opts.YMin, Max: opts.YMax},
			Ticks: niceTicks(opts.YMin, opts.YMax, 6),
		},
		Series: series,
	}
	ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	return ch, nil
}

// stepOutline traces the bins as a vertical staircase: percent on X, value on Y.
func stepOutline(h domain.Histogram) ([]float64, []float64) {
	n := len(h.Percent)
	xs := make([]float64, 0, 2*n+2)
	ys := make([]float64, 0, 2*n+2)
	xs = append(xs, 0)
	ys = append(ys, h.Edges[0])
	for i, p := range h.Percent {
		xs = append(xs, p, p)
		ys = append(ys, h.Edges[i], h.Edges[i+1])
	}
	xs = append(xs, 0)
	ys = append(ys, h.Edges[n])
	return xs, ys
}
