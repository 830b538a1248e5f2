// Package chart builds go-chart charts from grouped station data and writes
// them as PNG or SVG. It also holds the viewport arithmetic used by the
// interactive viewer.
package chart

import (
	"math"
	"strconv"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/couchcryptid/heathrow-climate/internal/domain"
)

// maxKeyTicks caps the number of labelled ticks on the group-key axis.
const maxKeyTicks = 12

// niceAxisBounds expands [lo,hi] by a 5% margin and rounds outwards to the
// order of magnitude of the span.
func niceAxisBounds(lo, hi float64) (float64, float64) {
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return lo, hi
	}
	if hi <= lo {
		hi = lo + 1
	}
	span := hi - lo
	pad := span * 0.05
	a := lo - pad
	b := hi + pad
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	if !math.IsInf(mag, 0) && mag > 0 {
		a = math.Floor(a/mag) * mag
		b = math.Ceil(b/mag) * mag
	}
	return a, b
}

// niceTicks generates about n ticks between lo and hi using 1, 2, 2.5 or 5
// steps scaled by a power of ten.
func niceTicks(lo, hi float64, n int) []gochart.Tick {
	if n < 2 || math.IsNaN(lo) || math.IsNaN(hi) {
		return nil
	}
	if hi <= lo {
		hi = lo + 1
	}
	mag := math.Pow(10, math.Floor(math.Log10((hi-lo)/float64(n-1))))
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		step := c * mag
		count := math.Max(math.Ceil((hi-lo)/step), 2)
		if score := math.Abs(count - float64(n)); score < bestScore {
			bestScore = score
			bestStep = step
		}
	}

	start := math.Ceil(lo/bestStep) * bestStep
	var ticks []gochart.Tick
	for v := start; v <= hi+bestStep/1e6; v += bestStep {
		ticks = append(ticks, gochart.Tick{Value: v, Label: formatTick(v)})
		if len(ticks) > n+2 {
			break
		}
	}
	return ticks
}

func formatTick(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// keyTicks labels the group keys that fall inside [lo,hi], thinned to at most
// maxKeyTicks labels. go-chart takes the axis range from the outermost ticks,
// so unlabelled ticks at lo and hi pin the axis to the viewport.
func keyTicks(g domain.GroupedTable, lo, hi float64) []gochart.Tick {
	labels := g.Labels()
	var idx []int
	for i, k := range g.Keys {
		if x := float64(k); x > lo && x < hi {
			idx = append(idx, i)
		}
	}
	ticks := make([]gochart.Tick, 0, maxKeyTicks+3)
	ticks = append(ticks, gochart.Tick{Value: lo})
	if len(idx) > 0 {
		step := (len(idx) + maxKeyTicks - 1) / maxKeyTicks
		for j := 0; j < len(idx); j += step {
			i := idx[j]
			ticks = append(ticks, gochart.Tick{Value: float64(g.Keys[i]), Label: labels[i]})
		}
	}
	return append(ticks, gochart.Tick{Value: hi})
}

// ValueRange returns the smallest and largest valid aggregate in g, widened to
// cover any extra values. ok is false when every value is missing.
func ValueRange(g domain.GroupedTable, extra ...[]float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	visit := func(vals []float64) {
		for _, v := range vals {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	for _, col := range g.Values {
		visit(col)
	}
	for _, vals := range extra {
		visit(vals)
	}
	if math.IsInf(lo, 1) {
		return math.NaN(), math.NaN(), false
	}
	return lo, hi, true
}

// YAxisBounds returns the rounded value axis range used by both the time
// series and the histogram panel.
func YAxisBounds(g domain.GroupedTable, extra ...[]float64) (lo, hi float64, ok bool) {
	lo, hi, ok = ValueRange(g, extra...)
	if !ok {
		return lo, hi, false
	}
	lo, hi = niceAxisBounds(lo, hi)
	return lo, hi, true
}
