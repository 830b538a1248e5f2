package domain

import "math"

// Histogram holds per-bin percentages of the valid values. Bin i spans
// [Edges[i], Edges[i+1]); the last bin also includes its upper edge.
type Histogram struct {
	Edges   []float64
	Percent []float64
	Count   int // number of valid values binned
}

// MaxHistogramBins caps the bins HistogramEdges will produce.
const MaxHistogramBins = 10000

// HistogramEdges returns bin edges of the given width covering [lo, hi], aligned
// to multiples of width. It returns nil when the inputs are not finite or the
// range would need more than MaxHistogramBins bins.
func HistogramEdges(lo, hi, width float64) []float64 {
	if !finite(lo) || !finite(hi) || !finite(width) || width <= 0 {
		return nil
	}
	if hi < lo {
		lo, hi = hi, lo
	}
	start := math.Floor(lo/width) * width
	end := math.Ceil(hi/width) * width
	if end <= start {
		end = start + width
	}
	bins := math.Round((end - start) / width)
	if !finite(bins) || bins < 1 || bins > MaxHistogramBins {
		return nil
	}
	n := int(bins)
	edges := make([]float64, n+1)
	for i := range edges {
		edges[i] = start + float64(i)*width
	}
	return edges
}

// NewHistogram bins values into edges, skipping NaN and values outside the edges.
// Percentages sum to 100 when at least one value falls inside.
func NewHistogram(values, edges []float64) Histogram {
	h := Histogram{Edges: edges}
	if len(edges) < 2 {
		return h
	}
	counts := make([]int, len(edges)-1)
	last := len(edges) - 1
	for _, v := range values {
		if math.IsNaN(v) || v < edges[0] || v > edges[last] {
			continue
		}
		i := binIndex(edges, v)
		counts[i]++
		h.Count++
	}

	h.Percent = make([]float64, len(counts))
	if h.Count == 0 {
		return h
	}
	for i, c := range counts {
		h.Percent[i] = 100 * float64(c) / float64(h.Count)
	}
	return h
}

// binIndex finds the bin holding v by binary search over the edges.
func binIndex(edges []float64, v float64) int {
	lo, hi := 0, len(edges)-2
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if edges[mid] <= v {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
