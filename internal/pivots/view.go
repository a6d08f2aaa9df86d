package pivots

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/studioanalytics/internal/query"
)

type ID string

func NewID() ID {
	return ID(gonanoid.Must())
}

// Dimension is an axis of a pivot table.
type Dimension string

const (
	DimensionTeacher   Dimension = "teacherName"
	DimensionClass     Dimension = "cleanedClass"
	DimensionLocation  Dimension = "location"
	DimensionDayOfWeek Dimension = "dayOfWeek"
	DimensionClassTime Dimension = "classTime"
	DimensionPeriod    Dimension = "period"
	// DimensionDate buckets occurrence dates according to the view's TimeGrouping.
	DimensionDate Dimension = "date"
)

type TimeGrouping string

const (
	GroupingNone    TimeGrouping = "none"
	GroupingDay     TimeGrouping = "day"
	GroupingWeek    TimeGrouping = "week"
	GroupingMonth   TimeGrouping = "month"
	GroupingQuarter TimeGrouping = "quarter"
	GroupingYear    TimeGrouping = "year"
)

// View is a saved pivot table configuration.
type View struct {
	ID           ID           `json:"id"`
	Name         string       `json:"name" validate:"required,max=100"`
	Rows         Dimension    `json:"rows" validate:"required,oneof=teacherName cleanedClass location dayOfWeek classTime period date"`
	Columns      Dimension    `json:"columns" validate:"omitempty,oneof=teacherName cleanedClass location dayOfWeek classTime period date"`
	Metric       query.Field  `json:"metric" validate:"required"`
	Heatmap      bool         `json:"heatmap"`
	Totals       bool         `json:"totals"`
	TimeGrouping TimeGrouping `json:"timeGrouping" validate:"omitempty,oneof=none day week month quarter year"`
	Created      time.Time    `json:"created"`
}

var validate = validator.New()

var ErrInvalidView = errors.New("invalid view")

func (v View) Validate() error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidView, err)
	}
	if !v.Metric.Numeric() {
		return fmt.Errorf("%w: metric %q is not numeric", ErrInvalidView, v.Metric)
	}
	if v.Rows == v.Columns {
		return fmt.Errorf("%w: rows and columns are both %q", ErrInvalidView, v.Rows)
	}
	return nil
}

// bucket returns the label of date under grouping.
func bucket(date time.Time, grouping TimeGrouping) string {
	switch grouping {
	case GroupingWeek:
		year, week := date.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case GroupingMonth:
		return date.Format("2006-01")
	case GroupingQuarter:
		return fmt.Sprintf("%d-Q%d", date.Year(), (int(date.Month())-1)/3+1)
	case GroupingYear:
		return date.Format("2006")
	default:
		return date.Format(time.DateOnly)
	}
}

func normalizeGrouping(g TimeGrouping) TimeGrouping {
	if g == "" {
		return GroupingNone
	}
	return TimeGrouping(strings.ToLower(string(g)))
}
