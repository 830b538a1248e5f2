package chart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/heathrow-climate/internal/domain"
)

func yearTable(from, to int) domain.GroupedTable {
	g := domain.GroupedTable{
		Key:    domain.ByYear,
		Aggs:   []domain.ColumnAggregation{{Column: domain.ColRain, Agg: domain.AggSum}},
		Values: [][]float64{nil},
	}
	for y := from; y <= to; y++ {
		g.Keys = append(g.Keys, y)
		g.Values[0] = append(g.Values[0], float64(500+y%7))
	}
	return g
}

func TestNiceAxisBounds(t *testing.T) {
	lo, hi := niceAxisBounds(1.4, 25.1)
	assert.InDelta(t, 0, lo, 1e-9)
	assert.InDelta(t, 30, hi, 1e-9)

	lo, hi = niceAxisBounds(5, 5)
	assert.Less(t, lo, 5.0)
	assert.Greater(t, hi, 5.0)

	lo, hi = niceAxisBounds(-3.2, 0.4)
	assert.LessOrEqual(t, lo, -3.2)
	assert.GreaterOrEqual(t, hi, 0.4)
}

func TestNiceTicks(t *testing.T) {
	ticks := niceTicks(0, 30, 6)
	labels := make([]string, len(ticks))
	for i, tk := range ticks {
		labels[i] = tk.Label
	}
	assert.Equal(t, []string{"0", "5", "10", "15", "20", "25", "30"}, labels)

	assert.Nil(t, niceTicks(0, 1, 1))
	assert.Nil(t, niceTicks(math.NaN(), 1, 5))
}

func TestFormatTick(t *testing.T) {
	assert.Equal(t, "0", formatTick(-0.001))
	assert.Equal(t, "2.5", formatTick(2.5))
	assert.Equal(t, "0.3", formatTick(0.30000000000000004))
	assert.Equal(t, "-12", formatTick(-12))
}

func TestKeyTicks_MonthLabels(t *testing.T) {
	g := domain.GroupedTable{Key: domain.ByMonth, Keys: []int{1, 2, 3}}
	ticks := keyTicks(g, 0.5, 3.5)
	require.Len(t, ticks, 5)
	assert.Equal(t, "January", ticks[1].Label)
	assert.InDelta(t, 3, ticks[3].Value, 0)

	ticks = keyTicks(g, 1.5, 2.5)
	require.Len(t, ticks, 3)
	assert.Equal(t, "February", ticks[1].Label)
}

func TestKeyTicks_BracketViewport(t *testing.T) {
	g := domain.GroupedTable{Key: domain.ByDecade, Keys: []int{2010}}
	ticks := keyTicks(g, 2009.5, 2010.5)
	require.Len(t, ticks, 3)
	assert.InDelta(t, 2009.5, ticks[0].Value, 0)
	assert.Empty(t, ticks[0].Label)
	assert.Equal(t, "2010s", ticks[1].Label)
	assert.InDelta(t, 2010.5, ticks[2].Value, 0)
	assert.Empty(t, ticks[2].Label)

	ticks = keyTicks(g, 2011, 2015)
	assert.Len(t, ticks, 2, "no key in view still spans the viewport")
}

func TestKeyTicks_Thinned(t *testing.T) {
	ticks := keyTicks(yearTable(1948, 2017), 1947.5, 2017.5)
	assert.LessOrEqual(t, len(ticks), maxKeyTicks+2)
	assert.Equal(t, "1948", ticks[1].Label)
}

func TestValueRange(t *testing.T) {
	g := domain.GroupedTable{
		Key:    domain.ByMonth,
		Keys:   []int{1, 2},
		Aggs:   []domain.ColumnAggregation{{Column: domain.ColTMin, Agg: domain.AggMin}},
		Values: [][]float64{{math.NaN(), 2.5}},
	}
	lo, hi, ok := ValueRange(g)
	assert.True(t, ok)
	assert.InDelta(t, 2.5, lo, 0)
	assert.InDelta(t, 2.5, hi, 0)

	lo, hi, ok = ValueRange(g, []float64{-4, math.NaN(), 9})
	assert.True(t, ok)
	assert.InDelta(t, -4, lo, 0)
	assert.InDelta(t, 9, hi, 0)

	g.Values = [][]float64{{math.NaN(), math.NaN()}}
	_, _, ok = ValueRange(g)
	assert.False(t, ok)
}
