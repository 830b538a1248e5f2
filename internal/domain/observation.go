package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Column names of the station table, in table order.
const (
	ColYear        = "year"
	ColMonth       = "month"
	ColTMax        = "tmax_degc"
	ColTMin        = "tmin_degc"
	ColAirFrost    = "af_days"
	ColRain        = "rain_mm"
	ColSun         = "sun_hours"
	ColTAvg        = "tavg_degc"
	ColEstimated   = "estimated"
	ColProvisional = "provisional"
)

// MissingMarker is the station file sentinel for a missing monthly value.
const MissingMarker = "---"

const provisionalMarker = "provisional"

// dataFieldCount is the number of value fields on a data line, excluding the
// optional Provisional marker.
const dataFieldCount = 7

// ColumnInfo describes a measurement column for labelling.
type ColumnInfo struct {
	Name  string
	Title string
	Unit  string
}

// measurementColumns lists the numeric measurement columns in table order.
var measurementColumns = []ColumnInfo{
	{Name: ColTMax, Title: "Maximum Temperature", Unit: "degC"},
	{Name: ColTMin, Title: "Minimum Temperature", Unit: "degC"},
	{Name: ColAirFrost, Title: "Air Frost", Unit: "days"},
	{Name: ColRain, Title: "Rainfall", Unit: "mm"},
	{Name: ColSun, Title: "Sunshine", Unit: "hours"},
	{Name: ColTAvg, Title: "Average Temperature", Unit: "degC"},
}

// MeasurementColumns returns the numeric measurement columns, derived columns included.
func MeasurementColumns() []ColumnInfo {
	out := make([]ColumnInfo, len(measurementColumns))
	copy(out, measurementColumns)
	return out
}

// LookupColumn returns the description of a measurement column.
func LookupColumn(name string) (ColumnInfo, bool) {
	for _, c := range measurementColumns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnInfo{}, false
}

// Observation is one monthly data line of a station file. Missing values are NaN.
type Observation struct {
	Year     int
	Month    int
	TMax     float64
	TMin     float64
	AirFrost float64
	Rain     float64
	Sun      float64

	Estimated   bool // at least one value carried the "*" marker
	Provisional bool
	Line        int
}

// Period returns the first day of the observation month in UTC.
func (o Observation) Period() time.Time {
	return time.Date(o.Year, time.Month(o.Month), 1, 0, 0, 0, 0, time.UTC)
}

// TAvg is the midpoint of the monthly maximum and minimum. It is not a true
// monthly mean, but tracks it closely enough for plotting.
func (o Observation) TAvg() float64 {
	return (o.TMax + o.TMin) / 2
}

// IsDataLine reports whether a line starts the data section: its first field
// must be an integer year.
func IsDataLine(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	_, err := strconv.Atoi(fields[0])
	return err == nil
}

// IsSiteClosed reports whether a line is the end-of-data marker used by closed stations.
func IsSiteClosed(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), "site closed")
}

// ParseLine parses one data line. lineNo is used for error reporting only.
func ParseLine(lineNo int, line string) (Observation, error) {
	fields := strings.Fields(line)

	obs := Observation{Line: lineNo}
	if len(fields) == dataFieldCount+1 && strings.EqualFold(fields[dataFieldCount], provisionalMarker) {
		obs.Provisional = true
		fields = fields[:dataFieldCount]
	}
	if len(fields) != dataFieldCount {
		return Observation{}, &ParseError{
			Line:   lineNo,
			Text:   line,
			Reason: "expected " + strconv.Itoa(dataFieldCount) + " columns, got " + strconv.Itoa(len(fields)),
		}
	}

	year, err := strconv.Atoi(fields[0])
	if err != nil {
		return Observation{}, &ParseError{Line: lineNo, Text: line, Column: ColYear, Reason: "not an integer", Err: err}
	}
	month, err := strconv.Atoi(fields[1])
	if err != nil {
		return Observation{}, &ParseError{Line: lineNo, Text: line, Column: ColMonth, Reason: "not an integer", Err: err}
	}
	if month < 1 || month > 12 {
		return Observation{}, &ParseError{Line: lineNo, Text: line, Column: ColMonth, Reason: "month out of range"}
	}
	obs.Year = year
	obs.Month = month

	targets := []struct {
		col string
		dst *float64
	}{
		{ColTMax, &obs.TMax},
		{ColTMin, &obs.TMin},
		{ColAirFrost, &obs.AirFrost},
		{ColRain, &obs.Rain},
		{ColSun, &obs.Sun},
	}
	for i, tgt := range targets {
		v, estimated, err := parseValue(fields[i+2])
		if err != nil {
			return Observation{}, &ParseError{Line: lineNo, Text: line, Column: tgt.col, Reason: "not a number", Err: err}
		}
		*tgt.dst = v
		obs.Estimated = obs.Estimated || estimated
	}

	return obs, nil
}

// parseValue converts one value field, stripping markers. "---" yields NaN.
func parseValue(s string) (float64, bool, error) {
	if s == MissingMarker {
		return math.NaN(), false, nil
	}
	estimated := strings.Contains(s, "*")
	s = strings.TrimRight(s, "*#$")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, strconv.ErrSyntax
	}
	return v, estimated, nil
}
