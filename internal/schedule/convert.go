package schedule

// convert.go provides parse-or-default conversions for raw XER cell values.
//
// XER exports are inconsistent enough that per-field parse failures must not
// control flow: every function here is total over arbitrary text, returning
// the type's default plus a flag the mapper aggregates into data-quality
// counters.

import (
	"strconv"
	"strings"
	"time"
)

// HoursPerDay is the fixed conversion used for every duration, float, and
// lag field. P6 stores these in hours; the model stores days.
const HoursPerDay = 8

// dateLayouts are tried in order. P6 writes "2006-01-02 15:04" in modern
// exports; older exporters drop the time or use day-month-abbrev forms.
var dateLayouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-06 15:04",
	"02-Jan-06",
}

// ParseFloat parses s as a float64. Empty, whitespace, or unparsable input
// yields (0, true); the second return reports whether the default was taken.
func ParseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, true
	}
	return f, false
}

// HoursToDays parses s as an hour count and converts it to days.
func HoursToDays(s string) (float64, bool) {
	hours, defaulted := ParseFloat(s)
	return hours / HoursPerDay, defaulted
}

// ParseDate parses s against the known XER date layouts, returning nil on
// any failure. It never reports an error: a missing or garbled date is an
// absent date.
func ParseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
