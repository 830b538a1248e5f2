package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/couchcryptid/heathrow-climate/internal/domain"
)

// keyColumn holds the computed group key while grouping.
const keyColumn = "_group_key"

// GroupingTransformer implements Transformer by grouping rows on a key derived
// from the observation period and aggregating each configured column.
type GroupingTransformer struct {
	key    domain.GroupKey
	aggs   []domain.ColumnAggregation
	logger *slog.Logger
}

// NewTransformer creates a GroupingTransformer.
func NewTransformer(key domain.GroupKey, aggs []domain.ColumnAggregation, logger *slog.Logger) *GroupingTransformer {
	return &GroupingTransformer{
		key:    key,
		aggs:   aggs,
		logger: logger,
	}
}

// Key returns the grouping key.
func (t *GroupingTransformer) Key() domain.GroupKey { return t.key }

// Transform groups the table. Missing values are skipped per column; a group
// without any valid value for a column gets NaN for that column.
func (t *GroupingTransformer) Transform(ctx context.Context, table domain.Table) (domain.GroupedTable, error) {
	if len(t.aggs) == 0 {
		return domain.GroupedTable{}, fmt.Errorf("no aggregations configured")
	}
	if t.key.Of == nil {
		return domain.GroupedTable{}, fmt.Errorf("group key %q has no selector", t.key.Name)
	}

	out := domain.GroupedTable{
		Key:    t.key,
		Aggs:   append([]domain.ColumnAggregation(nil), t.aggs...),
		Values: make([][]float64, len(t.aggs)),
	}
	if table.Len() == 0 {
		return out, nil
	}
	if err := t.checkColumns(table); err != nil {
		return domain.GroupedTable{}, err
	}

	frame := table.WithKeyColumn(t.key, keyColumn)
	if frame.Err != nil {
		return domain.GroupedTable{}, fmt.Errorf("add key column: %w", frame.Err)
	}

	type group struct {
		key    int
		values []float64
	}
	groups := make([]group, 0)
	for _, g := range frame.GroupBy(keyColumn).GetGroups() {
		if err := ctx.Err(); err != nil {
			return domain.GroupedTable{}, err
		}
		keys, err := g.Col(keyColumn).Int()
		if err != nil || len(keys) == 0 {
			return domain.GroupedTable{}, fmt.Errorf("read group key: %w", err)
		}
		row := group{key: keys[0], values: make([]float64, len(t.aggs))}
		for i, a := range t.aggs {
			row.values[i] = a.Agg.Apply(g.Col(a.Column).Float())
		}
		groups = append(groups, row)
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].key < groups[j].key })

	out.Keys = make([]int, len(groups))
	for i := range out.Values {
		out.Values[i] = make([]float64, len(groups))
	}
	for j, g := range groups {
		out.Keys[j] = g.key
		for i, v := range g.values {
			out.Values[i][j] = v
		}
	}

	for col, n := range out.MissingCount() {
		if n > 0 {
			t.logger.Warn("groups without valid values", "column", col, "groups", n)
		}
	}
	t.logger.Debug("grouped table", "table", out.Frame().String())

	return out, nil
}

// checkColumns verifies every aggregated column exists and is numeric.
func (t *GroupingTransformer) checkColumns(table domain.Table) error {
	var missing []string
	for _, a := range t.aggs {
		if !table.HasColumn(a.Column) {
			missing = append(missing, a.Column)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("columns %v specified for aggregation do not exist in data", missing)
	}
	return nil
}
