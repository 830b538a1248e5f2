package domain

import (
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// GroupedTable is a Table reduced to one row per group key, keys ascending.
// Values[i][j] is the aggregate of Aggs[i] for Keys[j]; NaN marks a missing aggregate.
type GroupedTable struct {
	Key    GroupKey
	Keys   []int
	Aggs   []ColumnAggregation
	Values [][]float64
}

// Len returns the number of groups.
func (g GroupedTable) Len() int { return len(g.Keys) }

// Column returns a copy of the aggregated values for a column.
func (g GroupedTable) Column(col string) ([]float64, bool) {
	for i, a := range g.Aggs {
		if a.Column == col {
			out := make([]float64, len(g.Values[i]))
			copy(out, g.Values[i])
			return out, true
		}
	}
	return nil, false
}

// Labels returns the display label of every key.
func (g GroupedTable) Labels() []string {
	out := make([]string, len(g.Keys))
	for i, k := range g.Keys {
		if g.Key.Label != nil {
			out[i] = g.Key.Label(k)
		}
	}
	return out
}

// IndexOf returns the row index of key, or -1.
func (g GroupedTable) IndexOf(key int) int {
	for i, k := range g.Keys {
		if k == key {
			return i
		}
	}
	return -1
}

// MissingCount returns the number of missing aggregates per column.
func (g GroupedTable) MissingCount() map[string]int {
	out := make(map[string]int, len(g.Aggs))
	for i, a := range g.Aggs {
		n := 0
		for _, v := range g.Values[i] {
			if math.IsNaN(v) {
				n++
			}
		}
		out[a.Column] = n
	}
	return out
}

// HasValues reports whether at least one aggregate is present.
func (g GroupedTable) HasValues() bool {
	for _, col := range g.Values {
		for _, v := range col {
			if !math.IsNaN(v) {
				return true
			}
		}
	}
	return false
}

// Frame renders the grouped table as a dataframe, key column first.
func (g GroupedTable) Frame() dataframe.DataFrame {
	cols := make([]series.Series, 0, len(g.Aggs)+1)
	cols = append(cols, series.New(g.Keys, series.Int, g.Key.Name))
	for i, a := range g.Aggs {
		cols = append(cols, series.New(g.Values[i], series.Float, a.Column))
	}
	return dataframe.New(cols...)
}
