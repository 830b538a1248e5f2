package domain

import (
	"fmt"
	"math"
	"strings"
)

// StationHeader is the preamble written ahead of generated station data.
type StationHeader struct {
	Name     string
	Location string
}

// Lines returns the preamble in the Met Office layout, column headings included.
func (h StationHeader) Lines() []string {
	return []string{
		h.Name,
		h.Location,
		"Estimated data is marked with a * after the value.",
		"Missing data (more than 2 days missing in month) is marked by  ---.",
		"Sunshine data taken from an automatic Kipp & Zonen sensor marked with a #, otherwise sunshine data taken from a Campbell Stokes recorder.",
		"   yyyy  mm   tmax    tmin      af    rain     sun",
		"              degC    degC    days      mm   hours",
	}
}

// FormatObservation renders an observation as a fixed-width data line that
// ParseLine accepts. Estimated marks every present temperature with "*".
func FormatObservation(o Observation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "   %4d  %2d", o.Year, o.Month)

	tempMark := ""
	if o.Estimated {
		tempMark = "*"
	}
	b.WriteString(formatValue(o.TMax, 1, 7, tempMark))
	b.WriteString(formatValue(o.TMin, 1, 8, tempMark))
	b.WriteString(formatValue(o.AirFrost, 0, 8, ""))
	b.WriteString(formatValue(o.Rain, 1, 8, ""))
	b.WriteString(formatValue(o.Sun, 1, 8, ""))
	if o.Provisional {
		b.WriteString("  Provisional")
	}
	return b.String()
}

func formatValue(v float64, prec, width int, mark string) string {
	if math.IsNaN(v) {
		return fmt.Sprintf("%*s", width, MissingMarker)
	}
	return fmt.Sprintf("%*s", width, fmt.Sprintf("%.*f", prec, v)+mark)
}
