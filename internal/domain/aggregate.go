package domain

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Aggregation reduces the values of one column within a group.
type Aggregation string

// Supported aggregations.
const (
	AggMin    Aggregation = "min"
	AggMax    Aggregation = "max"
	AggMean   Aggregation = "mean"
	AggSum    Aggregation = "sum"
	AggMedian Aggregation = "median"
)

// DefaultAggregations is the minimum/mean/maximum temperature envelope.
const DefaultAggregations = "tmin_degc:min,tavg_degc:mean,tmax_degc:max"

// ParseAggregation validates an aggregation name.
func ParseAggregation(name string) (Aggregation, error) {
	switch a := Aggregation(strings.ToLower(strings.TrimSpace(name))); a {
	case AggMin, AggMax, AggMean, AggSum, AggMedian:
		return a, nil
	default:
		return "", fmt.Errorf("unknown aggregation %q", name)
	}
}

// Apply reduces values, skipping NaN. It returns NaN when no valid value remains.
func (a Aggregation) Apply(values []float64) float64 {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		return math.NaN()
	}

	switch a {
	case AggMin:
		return slices.Min(valid)
	case AggMax:
		return slices.Max(valid)
	case AggMean:
		return sum(valid) / float64(len(valid))
	case AggSum:
		return sum(valid)
	case AggMedian:
		slices.Sort(valid)
		mid := len(valid) / 2
		if len(valid)%2 == 1 {
			return valid[mid]
		}
		return (valid[mid-1] + valid[mid]) / 2
	default:
		return math.NaN()
	}
}

func sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}

// ColumnAggregation pairs a measurement column with the aggregation applied to it.
type ColumnAggregation struct {
	Column string
	Agg    Aggregation
}

// Label is a human readable series name, e.g. "Minimum Temperature (min, degC)".
func (c ColumnAggregation) Label() string {
	info, ok := LookupColumn(c.Column)
	if !ok {
		return fmt.Sprintf("%s (%s)", c.Column, c.Agg)
	}
	return fmt.Sprintf("%s (%s, %s)", info.Title, c.Agg, info.Unit)
}

// ParseAggregations parses "column:agg,column:agg". Columns must be known
// measurement columns and may appear only once.
func ParseAggregations(spec string) ([]ColumnAggregation, error) {
	var out []ColumnAggregation
	seen := make(map[string]bool)
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		col, aggName, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("aggregation %q: want column:aggregation", part)
		}
		col = strings.TrimSpace(col)
		if _, known := LookupColumn(col); !known {
			return nil, fmt.Errorf("aggregation %q: unknown column %q", part, col)
		}
		if seen[col] {
			return nil, fmt.Errorf("aggregation %q: column %q listed twice", part, col)
		}
		agg, err := ParseAggregation(aggName)
		if err != nil {
			return nil, fmt.Errorf("aggregation %q: %w", part, err)
		}
		seen[col] = true
		out = append(out, ColumnAggregation{Column: col, Agg: agg})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no aggregations in %q", spec)
	}
	return out, nil
}
