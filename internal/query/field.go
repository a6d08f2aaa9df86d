package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/studioanalytics/internal/slots"
)

// Field is a filterable and sortable slot attribute.
type Field uint

const (
	FieldUndefined Field = iota
	FieldTeacherName
	FieldCleanedClass
	FieldDayOfWeek
	FieldClassTime
	FieldLocation
	FieldPeriod
	FieldDate
	FieldTotalCheckins
	FieldTotalRevenue
	FieldTotalCancelled
	FieldTotalNonPaid
	FieldTotalHours
	FieldTotalOccurrences
	FieldTotalEmpty
	FieldTotalNonEmpty
	FieldClassAverageIncludingEmpty
	FieldClassAverageExcludingEmpty
)

var fieldNames = map[Field]string{
	FieldTeacherName:                "teacherName",
	FieldCleanedClass:               "cleanedClass",
	FieldDayOfWeek:                  "dayOfWeek",
	FieldClassTime:                  "classTime",
	FieldLocation:                   "location",
	FieldPeriod:                     "period",
	FieldDate:                       "date",
	FieldTotalCheckins:              "totalCheckins",
	FieldTotalRevenue:               "totalRevenue",
	FieldTotalCancelled:             "totalCancelled",
	FieldTotalNonPaid:               "totalNonPaid",
	FieldTotalHours:                 "totalHours",
	FieldTotalOccurrences:           "totalOccurrences",
	FieldTotalEmpty:                 "totalEmpty",
	FieldTotalNonEmpty:              "totalNonEmpty",
	FieldClassAverageIncludingEmpty: "classAverageIncludingEmpty",
	FieldClassAverageExcludingEmpty: "classAverageExcludingEmpty",
}

var fieldsByName = func() map[string]Field {
	out := make(map[string]Field, len(fieldNames))
	for f, name := range fieldNames {
		out[strings.ToLower(name)] = f
	}
	return out
}()

func ParseField(name string) (Field, error) {
	if f, ok := fieldsByName[strings.ToLower(strings.TrimSpace(name))]; ok {
		return f, nil
	}
	return FieldUndefined, fmt.Errorf("%q: unknown field", name)
}

func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return "undefined"
}

func (f Field) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Field) UnmarshalText(text []byte) error {
	parsed, err := ParseField(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Numeric reports whether the field holds a number.
func (f Field) Numeric() bool {
	return f >= FieldTotalCheckins && f <= FieldClassAverageExcludingEmpty
}

// Value is a typed field value.
type Value struct {
	Text string
	// Number is set when Numeric is true.
	Number  float64
	Numeric bool
	// Missing marks a not applicable average.
	Missing bool
}

func text(s string) Value {
	return Value{Text: s}
}

func number(n float64) Value {
	return Value{Text: strconv.FormatFloat(n, 'f', -1, 64), Number: n, Numeric: true}
}

func average(a slots.Average) Value {
	if !a.Valid {
		return Value{Text: a.String(), Missing: true}
	}
	return number(a.Value)
}

// Get returns the value of f on slot.
func (f Field) Get(slot slots.Slot) Value {
	switch f {
	case FieldTeacherName:
		return text(slot.TeacherName)
	case FieldCleanedClass:
		return text(slot.CleanedClass)
	case FieldDayOfWeek:
		return text(slot.DayOfWeek)
	case FieldClassTime:
		return text(slot.ClassTime)
	case FieldLocation:
		return text(slot.Location)
	case FieldPeriod:
		return text(slot.Period)
	case FieldDate:
		return text(slot.Date)
	case FieldTotalCheckins:
		return number(float64(slot.TotalCheckins))
	case FieldTotalRevenue:
		return number(slot.TotalRevenue.InexactFloat64())
	case FieldTotalCancelled:
		return number(float64(slot.TotalCancelled))
	case FieldTotalNonPaid:
		return number(float64(slot.TotalNonPaid))
	case FieldTotalHours:
		return number(slot.TotalHours)
	case FieldTotalOccurrences:
		return number(float64(slot.TotalOccurrences))
	case FieldTotalEmpty:
		return number(float64(slot.TotalEmpty))
	case FieldTotalNonEmpty:
		return number(float64(slot.TotalNonEmpty))
	case FieldClassAverageIncludingEmpty:
		return average(slot.ClassAverageIncludingEmpty)
	case FieldClassAverageExcludingEmpty:
		return average(slot.ClassAverageExcludingEmpty)
	default:
		return Value{}
	}
}

// asNumber treats text that parses as a number as numeric.
func (v Value) asNumber() (float64, bool) {
	if v.Numeric {
		return v.Number, true
	}
	if v.Missing {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (v Value) asDate() (time.Time, bool) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(v.Text))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
