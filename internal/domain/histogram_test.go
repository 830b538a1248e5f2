package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistogramEdges(t *testing.T) {
	assert.Equal(t, []float64{-1, -0.5, 0, 0.5, 1, 1.5}, HistogramEdges(-0.8, 1.2, 0.5))
	assert.Equal(t, []float64{2, 3}, HistogramEdges(2, 2, 1))
	assert.Equal(t, []float64{0, 5, 10}, HistogramEdges(10, 0, 5))
	assert.Nil(t, HistogramEdges(0, 1, 0))
	assert.Nil(t, HistogramEdges(math.NaN(), 1, 1))
}

func TestHistogramEdges_RejectsUnusableWidth(t *testing.T) {
	assert.Nil(t, HistogramEdges(-5, 30, math.NaN()))
	assert.Nil(t, HistogramEdges(-5, 30, math.Inf(1)))
	assert.Nil(t, HistogramEdges(-5, 30, 1e-12), "too many bins")
	assert.Nil(t, HistogramEdges(math.Inf(-1), 30, 1))

	edges := HistogramEdges(0, MaxHistogramBins, 1)
	assert.Len(t, edges, MaxHistogramBins+1)
}

func TestNewHistogram(t *testing.T) {
	edges := []float64{0, 1, 2, 3}
	h := NewHistogram([]float64{0, 0.5, 1.5, 3, math.NaN(), 7}, edges)

	assert.Equal(t, 4, h.Count)
	require.Len(t, h.Percent, 3)
	assert.InDelta(t, 50, h.Percent[0], 1e-9)
	assert.InDelta(t, 25, h.Percent[1], 1e-9)
	assert.InDelta(t, 25, h.Percent[2], 1e-9, "upper edge belongs to the last bin")

	var total float64
	for _, p := range h.Percent {
		total += p
	}
	assert.InDelta(t, 100, total, 1e-9)
}

func TestNewHistogram_NoValidValues(t *testing.T) {
	h := NewHistogram([]float64{math.NaN()}, []float64{0, 1})
	assert.Equal(t, 0, h.Count)
	assert.Equal(t, []float64{0}, h.Percent)

	h = NewHistogram([]float64{1}, []float64{0})
	assert.Nil(t, h.Percent)
}
