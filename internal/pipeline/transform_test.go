package pipeline_test

import (
	"context"
	"log/slog"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/heathrow-climate/internal/adapter/metoffice"
	"github.com/couchcryptid/heathrow-climate/internal/domain"
	"github.com/couchcryptid/heathrow-climate/internal/pipeline"
)

const fixture = "../adapter/metoffice/testdata/heathrowdata.txt"

var defaultAggs = []domain.ColumnAggregation{
	{Column: domain.ColTMin, Agg: domain.AggMin},
	{Column: domain.ColTAvg, Agg: domain.AggMean},
	{Column: domain.ColTMax, Agg: domain.AggMax},
}

func loadFixture(t *testing.T) domain.Table {
	t.Helper()
	table, err := metoffice.NewReader(fixture, slog.Default()).Load(context.Background())
	require.NoError(t, err)
	return table
}

func TestGroupingTransformer_ByMonth(t *testing.T) {
	table := loadFixture(t)

	grouped, err := pipeline.NewTransformer(domain.ByMonth, defaultAggs, slog.Default()).
		Transform(context.Background(), table)
	require.NoError(t, err)

	assert.Equal(t, "month", grouped.Key.Name)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, grouped.Keys)
	assert.Equal(t, "January", grouped.Labels()[0])

	tmin, ok := grouped.Column(domain.ColTMin)
	require.True(t, ok)
	tavg, _ := grouped.Column(domain.ColTAvg)
	tmax, _ := grouped.Column(domain.ColTMax)

	assert.InDelta(t, 1.4, tmin[0], 1e-9)
	assert.InDelta(t, 5.3, tavg[0], 1e-9)
	assert.InDelta(t, 8.9, tmax[0], 1e-9)
	assert.InDelta(t, 25.1, tmax[6], 1e-9)
	assert.InDelta(t, 11.5, tmax[10], 1e-9, "estimated marker stripped")
}

func TestGroupingTransformer_AllMissingGroupIsNaN(t *testing.T) {
	table := loadFixture(t)
	aggs := []domain.ColumnAggregation{
		{Column: domain.ColSun, Agg: domain.AggMean},
		{Column: domain.ColAirFrost, Agg: domain.AggSum},
	}

	grouped, err := pipeline.NewTransformer(domain.ByYear, aggs, slog.Default()).
		Transform(context.Background(), table)
	require.NoError(t, err)

	assert.Equal(t, []int{1948, 1949, 2017}, grouped.Keys)

	sun, _ := grouped.Column(domain.ColSun)
	assert.True(t, math.IsNaN(sun[0]), "1948 has no sunshine data")
	assert.True(t, math.IsNaN(sun[1]), "1949 has no sunshine data")
	assert.False(t, math.IsNaN(sun[2]))

	af, _ := grouped.Column(domain.ColAirFrost)
	assert.True(t, math.IsNaN(af[0]), "missing, not zero")
	assert.InDelta(t, 39, af[1], 1e-9)

	assert.Equal(t, map[string]int{domain.ColSun: 2, domain.ColAirFrost: 1}, grouped.MissingCount())
}

func TestGroupingTransformer_ByDecadeAscending(t *testing.T) {
	table := loadFixture(t)

	grouped, err := pipeline.NewTransformer(domain.ByDecade, defaultAggs, slog.Default()).
		Transform(context.Background(), table)
	require.NoError(t, err)
	assert.Equal(t, []int{1940, 2010}, grouped.Keys)
	assert.Equal(t, []string{"1940s", "2010s"}, grouped.Labels())
}

func TestGroupingTransformer_Deterministic(t *testing.T) {
	tfm := pipeline.NewTransformer(domain.ByYear, []domain.ColumnAggregation{
		{Column: domain.ColSun, Agg: domain.AggMedian},
		{Column: domain.ColRain, Agg: domain.AggSum},
	}, slog.Default())

	first, err := tfm.Transform(context.Background(), loadFixture(t))
	require.NoError(t, err)
	second, err := tfm.Transform(context.Background(), loadFixture(t))
	require.NoError(t, err)

	opts := cmp.Options{
		cmpopts.EquateNaNs(),
		cmpopts.IgnoreFields(domain.GroupedTable{}, "Key"),
	}
	if diff := cmp.Diff(first, second, opts); diff != "" {
		t.Errorf("grouped tables differ (-first +second):\n%s", diff)
	}
}

func TestGroupingTransformer_EmptyTable(t *testing.T) {
	grouped, err := pipeline.NewTransformer(domain.ByMonth, defaultAggs, slog.Default()).
		Transform(context.Background(), domain.Table{})
	require.NoError(t, err)
	assert.Equal(t, 0, grouped.Len())
	assert.False(t, grouped.HasValues())
	assert.Len(t, grouped.Values, len(defaultAggs))
}

func TestGroupingTransformer_UnknownColumn(t *testing.T) {
	aggs := []domain.ColumnAggregation{{Column: "snow_cm", Agg: domain.AggSum}}

	_, err := pipeline.NewTransformer(domain.ByMonth, aggs, slog.Default()).
		Transform(context.Background(), loadFixture(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snow_cm")
}

func TestGroupingTransformer_NoAggregations(t *testing.T) {
	_, err := pipeline.NewTransformer(domain.ByMonth, nil, slog.Default()).
		Transform(context.Background(), loadFixture(t))
	require.Error(t, err)
}
