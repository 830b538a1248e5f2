// Package domain models Met Office historic station data (monthly summaries).
//
// # Data Source
//
// The Met Office publishes monthly summaries for a set of UK climate stations at
// https://www.metoffice.gov.uk/pub/data/weather/uk/climate/stationdata/. The default
// input is the Heathrow file (heathrowdata.txt), downloaded ahead of time into the
// user's home directory.
//
// # File Layout
//
// A free-text preamble precedes the data:
//
//	Heathrow (London Airport)
//	Location 507800E 176700N, Lat 51.479 Lon -0.449, 25 metres amsl
//	Estimated data is marked with a * after the value.
//	Missing data (more than 2 days missing in month) is marked by  ---.
//	...
//	   yyyy  mm   tmax    tmin      af    rain     sun
//	              degC    degC    days      mm   hours
//
// The preamble ends at the first line whose first field is an integer year. Every
// following non-blank line is one month:
//
//	   1948   1    8.9     3.3    ---     85.0    ---
//	   2017  11   11.5     5.0       2    54.6    56.7#  Provisional
//
// Columns, in order: year, month, mean daily maximum temperature (degC), mean daily
// minimum temperature (degC), days of air frost, total rainfall (mm), total sunshine
// (hours). A trailing "Provisional" marks figures that may still be revised. A
// "Site closed" line ends the data for stations that no longer report.
//
// # Value Markers
//
//	---  missing value (more than 2 days missing in the month)
//	*    estimated value, e.g. "12.1*"
//	#    sunshine from the automatic Kipp & Zonen sensor, e.g. "56.7#"
//	$    value recorded after a station move or instrument change
//
// Markers are stripped; "---" becomes NaN. A value that is still not a number after
// stripping is a [ParseError].
//
// # Missing Values
//
// NaN is the only missing-value representation inside the program. Aggregations skip
// NaN for the column being aggregated, and a group with no valid values for a column
// yields NaN for that column rather than zero. The derived tavg_degc column is NaN
// whenever either of its inputs is.
package domain
