package core

import (
	"strings"
	"time"
)

// dateLayouts are tried in order when a post date has to be placed on a calendar.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// ParseCalendarDate parses a post date without timezone semantics.
// The boolean is false when no known layout matches.
func ParseCalendarDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// CompareCalendarDates orders two date strings chronologically.
// Parseable dates sort before unparseable ones; unparseable dates compare lexically.
func CompareCalendarDates(a, b string) int {
	ta, okA := ParseCalendarDate(a)
	tb, okB := ParseCalendarDate(b)
	switch {
	case okA && okB:
		return ta.Compare(tb)
	case okA:
		return -1
	case okB:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// DaysBetween returns the whole number of days from earlier to later.
func DaysBetween(earlier, later time.Time) float64 {
	return later.Sub(earlier).Hours() / 24
}
