package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// SourceInfo is QA metadata about the file a Table was read from.
type SourceInfo struct {
	Path      string
	Dir       string
	Name      string
	SizeBytes int64
	ModTime   time.Time
	LoadedAt  time.Time
}

// LogAttrs returns the source description as slog key/value pairs.
func (s SourceInfo) LogAttrs() []any {
	return []any{
		"path", s.Path,
		"size_bytes", s.SizeBytes,
		"modified", s.ModTime,
		"loaded_at", s.LoadedAt,
	}
}

// Table is the parsed station file: one row per data line, in file order.
// The zero value is an empty table with no columns.
type Table struct {
	frame  dataframe.DataFrame
	source SourceInfo
}

// NewTable builds a Table from parsed observations.
func NewTable(obs []Observation, source SourceInfo) (Table, error) {
	frame, err := newFrame(obs)
	if err != nil {
		return Table{}, err
	}
	source.LoadedAt = clock.Now()
	return Table{frame: frame, source: source}, nil
}

func newFrame(obs []Observation) (dataframe.DataFrame, error) {
	n := len(obs)
	years := make([]int, n)
	months := make([]int, n)
	tmax := make([]float64, n)
	tmin := make([]float64, n)
	af := make([]float64, n)
	rain := make([]float64, n)
	sun := make([]float64, n)
	tavg := make([]float64, n)
	estimated := make([]bool, n)
	provisional := make([]bool, n)

	for i, o := range obs {
		years[i] = o.Year
		months[i] = o.Month
		tmax[i] = o.TMax
		tmin[i] = o.TMin
		af[i] = o.AirFrost
		rain[i] = o.Rain
		sun[i] = o.Sun
		tavg[i] = o.TAvg()
		estimated[i] = o.Estimated
		provisional[i] = o.Provisional
	}

	frame := dataframe.New(
		series.New(years, series.Int, ColYear),
		series.New(months, series.Int, ColMonth),
		series.New(tmax, series.Float, ColTMax),
		series.New(tmin, series.Float, ColTMin),
		series.New(af, series.Float, ColAirFrost),
		series.New(rain, series.Float, ColRain),
		series.New(sun, series.Float, ColSun),
		series.New(tavg, series.Float, ColTAvg),
		series.New(estimated, series.Bool, ColEstimated),
		series.New(provisional, series.Bool, ColProvisional),
	)
	if frame.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("build table: %w", frame.Err)
	}
	return frame, nil
}

// Len returns the number of rows.
func (t Table) Len() int { return t.frame.Nrow() }

// Columns returns the column names in table order.
func (t Table) Columns() []string { return t.frame.Names() }

// Source returns the QA metadata of the file the table was read from.
func (t Table) Source() SourceInfo { return t.source }

// HasColumn reports whether the table has a column with the given name.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.frame.Names() {
		if c == name {
			return true
		}
	}
	return false
}

// Frame returns a copy of the underlying dataframe.
func (t Table) Frame() dataframe.DataFrame { return t.frame.Copy() }

// Float returns a copy of a numeric column. Missing values are NaN.
func (t Table) Float(col string) ([]float64, error) {
	s := t.frame.Col(col)
	if s.Err != nil {
		return nil, fmt.Errorf("column %s: %w", col, s.Err)
	}
	return s.Float(), nil
}

// Periods returns the first-of-month time of every row.
func (t Table) Periods() []time.Time {
	if t.Len() == 0 {
		return nil
	}
	years, _ := t.frame.Col(ColYear).Int()
	months, _ := t.frame.Col(ColMonth).Int()
	out := make([]time.Time, len(years))
	for i := range years {
		out[i] = time.Date(years[i], time.Month(months[i]), 1, 0, 0, 0, 0, time.UTC)
	}
	return out
}

// Bool returns a copy of a boolean column.
func (t Table) Bool(col string) ([]bool, error) {
	s := t.frame.Col(col)
	if s.Err != nil {
		return nil, fmt.Errorf("column %s: %w", col, s.Err)
	}
	return s.Bool()
}

// MissingCount returns the number of NaN values in a numeric column.
func (t Table) MissingCount(col string) (int, error) {
	vals, err := t.Float(col)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, v := range vals {
		if math.IsNaN(v) {
			n++
		}
	}
	return n, nil
}

// WithKeyColumn returns a copy of the frame with an extra integer column holding
// the group key of every row.
func (t Table) WithKeyColumn(key GroupKey, col string) dataframe.DataFrame {
	periods := t.Periods()
	keys := make([]int, len(periods))
	for i, p := range periods {
		keys[i] = key.Of(p)
	}
	return t.frame.Copy().Mutate(series.New(keys, series.Int, col))
}

// FilterKey returns the rows whose group key equals value.
func (t Table) FilterKey(key GroupKey, value int) Table {
	if t.Len() == 0 {
		return t
	}
	matches := 0
	for _, p := range t.Periods() {
		if key.Of(p) == value {
			matches++
		}
	}
	if matches == 0 {
		empty, _ := newFrame(nil)
		return Table{frame: empty, source: t.source}
	}

	const keyCol = "_key"
	filtered := t.WithKeyColumn(key, keyCol).
		Filter(dataframe.F{Colname: keyCol, Comparator: series.Eq, Comparando: value}).
		Drop(keyCol)
	return Table{frame: filtered, source: t.source}
}

// Head renders the first n rows for debug logging.
func (t Table) Head(n int) string {
	if t.Len() == 0 {
		return "(empty table)"
	}
	if n > t.Len() {
		n = t.Len()
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return t.frame.Subset(idx).String()
}
