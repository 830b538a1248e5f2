package chart

import (
	"fmt"
	"math"
	"sort"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/couchcryptid/heathrow-climate/internal/domain"
)

// ErrNothingToPlot is wrapped when a chart would have no visible series.
var ErrNothingToPlot = fmt.Errorf("%w: nothing to plot", domain.ErrRender)

var (
	colorMin   = drawing.Color{R: 31, G: 119, B: 180, A: 255}
	colorMean  = drawing.Color{R: 44, G: 160, B: 44, A: 255}
	colorMax   = drawing.Color{R: 214, G: 39, B: 40, A: 255}
	colorOther = []drawing.Color{
		{R: 255, G: 127, B: 14, A: 255},
		{R: 148, G: 103, B: 189, A: 255},
		{R: 140, G: 86, B: 75, A: 255},
		{R: 23, G: 190, B: 207, A: 255},
	}
	colorMarker = drawing.Color{R: 90, G: 90, B: 90, A: 255}
)

// SeriesColor picks the line colour for the i-th aggregation: blue for
// minimums, green for means, red for maximums, a fixed palette otherwise.
func SeriesColor(a domain.ColumnAggregation, i int) drawing.Color {
	switch a.Agg {
	case domain.AggMin:
		return colorMin
	case domain.AggMean, domain.AggMedian:
		return colorMean
	case domain.AggMax:
		return colorMax
	default:
		return colorOther[i%len(colorOther)]
	}
}

// TimeSeriesOptions controls BuildTimeSeries.
type TimeSeriesOptions struct {
	Width, Height int
	Title         string

	// View restricts the key axis; the zero value shows every key.
	View Viewport

	// YMin and YMax fix the value axis when YFixed is set.
	YFixed     bool
	YMin, YMax float64

	// Selected draws a marker at this key when HasSelected is set.
	HasSelected bool
	Selected    int
}

// BuildTimeSeries draws one line per aggregation against the group key.
// Missing aggregates are left out of their line.
func BuildTimeSeries(g domain.GroupedTable, opts TimeSeriesOptions) (gochart.Chart, error) {
	if g.Len() == 0 || !g.HasValues() {
		return gochart.Chart{}, ErrNothingToPlot
	}

	view := opts.View
	if view.Span() <= 0 {
		view = NewViewport(g.Keys)
	}

	yMin, yMax := opts.YMin, opts.YMax
	if !opts.YFixed {
		var ok bool
		if yMin, yMax, ok = YAxisBounds(g); !ok {
			return gochart.Chart{}, ErrNothingToPlot
		}
	}

	series := make([]gochart.Series, 0, len(g.Aggs)+1)
	var named []gochart.Series
	for i, a := range g.Aggs {
		for j, seg := range segments(g.Keys, g.Values[i]) {
			st := gochart.Style{
				StrokeColor: SeriesColor(a, i),
				StrokeWidth: 2,
				DotColor:    SeriesColor(a, i),
				DotWidth:    3,
			}
			if len(seg.xs) == 1 {
				// an isolated point is drawn as a dot
				seg.xs = append(seg.xs, seg.xs[0])
				seg.ys = append(seg.ys, seg.ys[0])
				st.DotWidth = 5
			}
			s := gochart.ContinuousSeries{XValues: seg.xs, YValues: seg.ys, Style: st}
			if j == 0 {
				s.Name = a.Label()
				named = append(named, s)
			}
			series = append(series, s)
		}
	}
	if len(series) == 0 {
		return gochart.Chart{}, ErrNothingToPlot
	}
	if opts.HasSelected {
		if s, ok := selectedMarker(g, opts.Selected, yMin, yMax); ok {
			series = append(series, s)
			named = append(named, s)
		}
	}

	title := opts.Title
	if title == "" {
		title = fmt.Sprintf("Heathrow by %s", g.Key.Name)
	}

	ch := gochart.Chart{
		Title:      title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: gochart.XAxis{
			Name:  g.Key.Name,
			Range: &gochart.ContinuousRange{Min: view.Min, Max: view.Max},
			Ticks: keyTicks(g, view.Min, view.Max),
		},
		YAxis: gochart.YAxis{
			Name:  yAxisName(g),
			Range: &gochart.ContinuousRange{Min: yMin, Max: yMax},
			Ticks: niceTicks(yMin, yMax, 6),
		},
		Series: series,
	}
	// gap segments after the first share their column's legend entry
	ch.Elements = []gochart.Renderable{gochart.Legend(&gochart.Chart{Series: named})}
	return ch, nil
}

// segment is a run of consecutive groups with valid values.
type segment struct {
	xs, ys []float64
}

// segments splits a column at missing values so a gap is not drawn as an
// interpolated line.
func segments(keys []int, values []float64) []segment {
	var out []segment
	var cur segment
	for j, k := range keys {
		if math.IsNaN(values[j]) {
			if len(cur.xs) > 0 {
				out = append(out, cur)
				cur = segment{}
			}
			continue
		}
		cur.xs = append(cur.xs, float64(k))
		cur.ys = append(cur.ys, values[j])
	}
	if len(cur.xs) > 0 {
		out = append(out, cur)
	}
	return out
}

// selectedMarker is a dashed vertical line through the aggregates of one group,
// spanning the whole value axis when the group has no valid aggregate.
func selectedMarker(g domain.GroupedTable, key int, yMin, yMax float64) (gochart.Series, bool) {
	row := g.IndexOf(key)
	if row < 0 {
		return nil, false
	}
	var ys []float64
	for i := range g.Aggs {
		if v := g.Values[i][row]; !math.IsNaN(v) {
			ys = append(ys, v)
		}
	}
	dot := 6.0
	if len(ys) == 0 {
		ys = []float64{yMin, yMax}
		dot = 0
	}
	sort.Float64s(ys)
	if len(ys) == 1 {
		ys = append(ys, ys[0])
	}
	xs := make([]float64, len(ys))
	for i := range xs {
		xs[i] = float64(key)
	}
	return gochart.ContinuousSeries{
		Name:    "Selected: " + g.Labels()[row],
		XValues: xs,
		YValues: ys,
		Style: gochart.Style{
			StrokeColor:     colorMarker,
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{4, 3},
			DotColor:        colorMarker,
			DotWidth:        dot,
		},
	}, true
}

// yAxisName is the shared unit of the aggregated columns, or empty when they differ.
func yAxisName(g domain.GroupedTable) string {
	unit := ""
	for i, a := range g.Aggs {
		info, ok := domain.LookupColumn(a.Column)
		if !ok {
			return ""
		}
		if i > 0 && info.Unit != unit {
			return ""
		}
		unit = info.Unit
	}
	return unit
}
