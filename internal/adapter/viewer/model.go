package viewer

import (
	"fmt"
	"image"
	"log/slog"
	"math"
	"strings"

	"github.com/couchcryptid/heathrow-climate/internal/adapter/chart"
	"github.com/couchcryptid/heathrow-climate/internal/domain"
)

// model is the viewer state behind the widgets: the visible key range, the
// selected group and the shared value axis. It never modifies the data.
type model struct {
	table   domain.Table
	grouped domain.GroupedTable
	opts    Options
	logger  *slog.Logger

	view     chart.Viewport
	selected int // index into grouped.Keys
	yMin     float64
	yMax     float64

	raw *lruCache[int, [][]float64] // raw values per key, aligned with grouped.Aggs
}

func newModel(table domain.Table, grouped domain.GroupedTable, opts Options, logger *slog.Logger) (*model, error) {
	if grouped.Len() == 0 || !grouped.HasValues() {
		return nil, chart.ErrNothingToPlot
	}

	m := &model{
		table:   table,
		grouped: grouped,
		opts:    opts,
		logger:  logger,
		view:    chart.NewViewport(grouped.Keys),
		raw:     newLRUCache[int, [][]float64](rawCacheSize),
	}

	var extra [][]float64
	for _, a := range grouped.Aggs {
		if vals, err := table.Float(a.Column); err == nil {
			extra = append(extra, vals)
		}
	}
	lo, hi, ok := chart.YAxisBounds(grouped, extra...)
	if !ok {
		return nil, chart.ErrNothingToPlot
	}
	m.yMin, m.yMax = lo, hi
	return m, nil
}

func (m *model) selectedKey() int { return m.grouped.Keys[m.selected] }

// selectIndex moves the selection, clamped to the key range.
func (m *model) selectIndex(i int) {
	m.selected = max(0, min(i, m.grouped.Len()-1))
}

// zoom scales the key axis around a horizontal position given as a fraction
// of the plot width.
func (m *model) zoom(factor, frac float64) {
	m.view = m.view.Zoom(factor, m.view.ToKey(frac, 1))
}

// pan shifts the key axis by a fraction of the plot width.
func (m *model) pan(frac float64) {
	m.view = m.view.Pan(m.view.PixelsToKeys(frac, 1))
}

func (m *model) reset() { m.view = m.view.Reset() }

// rawValues returns the ungrouped values of every aggregated column for one key.
func (m *model) rawValues(key int) [][]float64 {
	if vals, ok := m.raw.get(key); ok {
		return vals
	}
	rows := m.table.FilterKey(m.grouped.Key, key)
	vals := make([][]float64, len(m.grouped.Aggs))
	for i, a := range m.grouped.Aggs {
		col, err := rows.Float(a.Column)
		if err != nil {
			m.logger.Warn("column unavailable for histogram", "column", a.Column, "error", err)
			continue
		}
		vals[i] = col
	}
	m.raw.put(key, vals)
	return vals
}

func (m *model) seriesImage(w, h int) image.Image {
	ch, err := chart.BuildTimeSeries(m.grouped, chart.TimeSeriesOptions{
		Width:       w,
		Height:      h,
		Title:       m.opts.Title,
		View:        m.view,
		YFixed:      true,
		YMin:        m.yMin,
		YMax:        m.yMax,
		HasSelected: true,
		Selected:    m.selectedKey(),
	})
	if err != nil {
		m.logger.Warn("time series unavailable", "error", err)
		return chart.Blank(w, h)
	}
	img, err := chart.RenderImage(ch)
	if err != nil {
		m.logger.Warn("time series render failed", "error", err)
		return chart.Blank(w, h)
	}
	return img
}

func (m *model) histogramImage(w, h int) image.Image {
	key := m.selectedKey()
	ch, err := chart.BuildHistogram(m.grouped.Aggs, m.rawValues(key), chart.HistogramOptions{
		Width:    w,
		Height:   h,
		Title:    m.grouped.Labels()[m.selected],
		YMin:     m.yMin,
		YMax:     m.yMax,
		BinWidth: m.opts.BinWidth,
	})
	if err != nil {
		m.logger.Debug("histogram unavailable", "key", key, "error", err)
		return chart.Blank(w, h)
	}
	img, err := chart.RenderImage(ch)
	if err != nil {
		m.logger.Warn("histogram render failed", "error", err)
		return chart.Blank(w, h)
	}
	return img
}

// summary describes the selected group's aggregates, e.g.
// "June: tmin_degc min 10.3, tmax_degc max 25.1".
func (m *model) summary() string {
	parts := make([]string, 0, len(m.grouped.Aggs))
	for i, a := range m.grouped.Aggs {
		v := m.grouped.Values[i][m.selected]
		if math.IsNaN(v) {
			parts = append(parts, fmt.Sprintf("%s %s missing", a.Column, a.Agg))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %s %.1f", a.Column, a.Agg, v))
	}
	return m.grouped.Labels()[m.selected] + ": " + strings.Join(parts, ", ")
}
