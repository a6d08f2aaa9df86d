// Package query filters, searches and sorts slot datasets. Every function is a
// pure function of its inputs; datasets are never modified in place.
package query

import (
	"strings"
	"time"

	"github.com/studioanalytics/internal/slots"
)

// All disables an exact-match filter. An empty value does the same.
const All = "all"

// DateRange selects occurrences whose date lies in [From, To]. Either bound
// may be empty.
type DateRange struct {
	From string `json:"from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	To   string `json:"to,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (r *DateRange) open() bool {
	return r == nil || (r.From == "" && r.To == "")
}

// Contains reports whether an occurrence date falls inside the range. Dates
// that cannot be parsed are outside every bounded range.
func (r *DateRange) Contains(date string) bool {
	if r.open() {
		return true
	}
	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return false
	}
	if r.From != "" {
		if from, err := time.Parse(time.DateOnly, r.From); err == nil && d.Before(from) {
			return false
		}
	}
	if r.To != "" {
		if to, err := time.Parse(time.DateOnly, r.To); err == nil && d.After(to) {
			return false
		}
	}
	return true
}

type Options struct {
	SearchTerm        string     `json:"searchTerm,omitempty"`
	SelectedTrainer   string     `json:"selectedTrainer,omitempty"`
	SelectedClass     string     `json:"selectedClass,omitempty"`
	SelectedLocation  string     `json:"selectedLocation,omitempty"`
	SelectedDayOfWeek string     `json:"selectedDayOfWeek,omitempty"`
	SelectedPeriod    string     `json:"selectedPeriod,omitempty"`
	DateRange         *DateRange `json:"dateRange,omitempty"`
}

func selected(want, got string) bool {
	if want == "" || strings.EqualFold(want, All) {
		return true
	}
	return want == got
}

func (o Options) matchesSearch(slot slots.Slot) bool {
	term := strings.ToLower(strings.TrimSpace(o.SearchTerm))
	if term == "" {
		return true
	}
	for _, value := range []string{
		slot.TeacherName,
		slot.CleanedClass,
		slot.Location,
		slot.DayOfWeek,
		slot.ClassTime,
	} {
		if strings.Contains(strings.ToLower(value), term) {
			return true
		}
	}
	return false
}

func (o Options) matches(slot slots.Slot) bool {
	return o.matchesSearch(slot) &&
		selected(o.SelectedTrainer, slot.TeacherName) &&
		selected(o.SelectedClass, slot.CleanedClass) &&
		selected(o.SelectedLocation, slot.Location) &&
		selected(o.SelectedDayOfWeek, slot.DayOfWeek) &&
		selected(o.SelectedPeriod, slot.Period)
}

// Query narrows every slot to the occurrences inside the date range, drops
// slots left without occurrences and keeps those matching the search term and
// the exact-match filters.
func Query(dataset []slots.Slot, opts Options) []slots.Slot {
	out := make([]slots.Slot, 0, len(dataset))
	for _, slot := range dataset {
		if !opts.DateRange.open() {
			slot = slots.FilterOccurrences(slot, func(occ slots.Occurrence) bool {
				return opts.DateRange.Contains(occ.Date)
			})
		}
		if slot.TotalOccurrences == 0 {
			continue
		}
		if !opts.matches(slot) {
			continue
		}
		out = append(out, slot)
	}
	return out
}
