package query

import (
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/studioanalytics/internal/slots"
)

var validate = validator.New()

// Request composes the standard options with ad hoc filters and a sort order.
type Request struct {
	Options Options   `json:"options"`
	Filters []Filter  `json:"filters,omitempty" validate:"dive"`
	Sort    []SortKey `json:"sort,omitempty" validate:"dive"`
}

func (r Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}

// Run applies Query, then the ad hoc filters, then the sort.
func Run(dataset []slots.Slot, r Request) []slots.Slot {
	out := Query(dataset, r.Options)
	if len(r.Filters) > 0 {
		out = Apply(out, r.Filters...)
	}
	return Sort(out, r.Sort...)
}

// Choices lists the distinct values offered by the exact-match filters.
type Choices struct {
	Trainers   []string `json:"trainers"`
	Classes    []string `json:"classes"`
	Locations  []string `json:"locations"`
	DaysOfWeek []string `json:"daysOfWeek"`
	Periods    []string `json:"periods"`
}

func distinct(dataset []slots.Slot, field Field) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, slot := range dataset {
		v := field.Get(slot).Text
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func ListChoices(dataset []slots.Slot) Choices {
	return Choices{
		Trainers:   distinct(Sort(dataset, SortKey{Field: FieldTeacherName}), FieldTeacherName),
		Classes:    distinct(Sort(dataset, SortKey{Field: FieldCleanedClass}), FieldCleanedClass),
		Locations:  distinct(Sort(dataset, SortKey{Field: FieldLocation}), FieldLocation),
		DaysOfWeek: weekdays(distinct(dataset, FieldDayOfWeek)),
		Periods:    distinct(Sort(dataset, SortKey{Field: FieldDate}), FieldPeriod),
	}
}

var weekOrder = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func weekdays(days []string) []string {
	slices.SortStableFunc(days, func(a, b string) int {
		return rank(a) - rank(b)
	})
	return days
}

func rank(day string) int {
	if i := slices.Index(weekOrder, day); i >= 0 {
		return i
	}
	return len(weekOrder)
}
