package domain

import (
	"fmt"
	"strconv"
	"time"
)

// GroupKey derives a grouping key from an observation period.
type GroupKey struct {
	Name  string
	Of    func(time.Time) int
	Label func(int) string
}

// Supported group keys.
var (
	ByYear = GroupKey{
		Name:  "year",
		Of:    func(t time.Time) int { return t.Year() },
		Label: strconv.Itoa,
	}
	ByMonth = GroupKey{
		Name: "month",
		Of:   func(t time.Time) int { return int(t.Month()) },
		Label: func(m int) string {
			if m < 1 || m > 12 {
				return strconv.Itoa(m)
			}
			return time.Month(m).String()
		},
	}
	ByDecade = GroupKey{
		Name:  "decade",
		Of:    func(t time.Time) int { return t.Year() / 10 * 10 },
		Label: func(d int) string { return strconv.Itoa(d) + "s" },
	}
)

// ParseGroupKey resolves a group key by name.
func ParseGroupKey(name string) (GroupKey, error) {
	switch name {
	case ByYear.Name:
		return ByYear, nil
	case ByMonth.Name:
		return ByMonth, nil
	case ByDecade.Name:
		return ByDecade, nil
	default:
		return GroupKey{}, fmt.Errorf("unknown group key %q (want year, month or decade)", name)
	}
}
