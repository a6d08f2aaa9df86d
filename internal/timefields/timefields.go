// Package timefields splits the combined "<date>, <h:mm AM/PM>" class date
// column into the separate fields used for grouping.
package timefields

import (
	"strings"
	"time"
)

// dateLayouts are tried in order against the part before the first comma.
var dateLayouts = []string{
	time.DateOnly,
	"1/2/2006",
	"01/02/2006",
	"1/2/06",
	"2006/01/02",
	"Jan 2 2006",
	"January 2 2006",
	"2 Jan 2006",
	"02-Jan-2006",
}

func datePart(s string) string {
	before, _, _ := strings.Cut(s, ",")
	return strings.TrimSpace(before)
}

// ParseDate parses the date portion of a combined date-time string.
func ParseDate(s string) (time.Time, bool) {
	part := datePart(s)
	if part == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, part); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ExtractTime returns the trimmed text after the first comma, or "" when
// there is no comma.
func ExtractTime(s string) string {
	_, after, found := strings.Cut(s, ",")
	if !found {
		return ""
	}
	return strings.TrimSpace(after)
}

// ExtractDayOfWeek returns the weekday name of the date portion.
func ExtractDayOfWeek(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return ""
	}
	return t.Weekday().String()
}

// ExtractPeriod returns the month-year label of the date portion, e.g. "Mar-24".
func ExtractPeriod(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return ""
	}
	return t.Format("Jan-06")
}

// ExtractDate returns the date portion formatted as 2006-01-02. Unparseable
// dates are returned as they appear in the input.
func ExtractDate(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return datePart(s)
	}
	return t.Format(time.DateOnly)
}

// ParseClock parses a time of day such as "6:00 AM" into hours and minutes.
func ParseClock(s string) (hour, minute int, ok bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, layout := range []string{"3:04 PM", "3:04PM", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Hour(), t.Minute(), true
		}
	}
	return 0, 0, false
}
