package slots

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/studioanalytics/internal/classnames"
	"github.com/studioanalytics/internal/timefields"
)

var ErrMalformedRow = errors.New("malformed row")

var slotNamespace = uuid.MustParse("6f1c3d0e-8a57-4b57-9c57-57a1b2c3d4e5")

// NewUniqueID derives a stable identifier from a slot key.
func NewUniqueID(key Key) string {
	return uuid.NewSHA1(slotNamespace, []byte(key.String())).String()
}

type parsedRow struct {
	key        Key
	date       string
	period     string
	occurrence Occurrence
}

func parseRow(row RawRow) (*parsedRow, error) {
	className := row.Text(ColumnClassName)
	dateTime := row.Text(ColumnClassDate)
	if className == "" && dateTime == "" {
		return nil, fmt.Errorf("%w: class name and class date are empty", ErrMalformedRow)
	}
	teacher := strings.TrimSpace(row.Text(ColumnTeacherFirstName) + " " + row.Text(ColumnTeacherLastName))
	checkins := max(row.Int(ColumnCheckedIn), 0)
	date := timefields.ExtractDate(dateTime)
	return &parsedRow{
		key: Key{
			Class:     classnames.Normalize(className),
			DayOfWeek: timefields.ExtractDayOfWeek(dateTime),
			Time:      timefields.ExtractTime(dateTime),
			Location:  row.Text(ColumnLocation),
			Teacher:   teacher,
		},
		date:   date,
		period: timefields.ExtractPeriod(dateTime),
		occurrence: Occurrence{
			Date:      date,
			Checkins:  checkins,
			Revenue:   row.Decimal(ColumnTotalRevenue),
			Cancelled: max(row.Int(ColumnLateCancellations), 0),
			NonPaid:   max(row.Int(ColumnComps)+row.Int(ColumnNonPaidCustomers), 0),
			Hours:     row.Float(ColumnHours),
			IsEmpty:   checkins == 0,
		},
	}, nil
}

// Aggregator folds raw rows into slots one row at a time.
type Aggregator struct {
	logger  *slog.Logger
	index   map[Key]int
	slots   []Slot
	rows    int
	skipped int
}

func NewAggregator(logger *slog.Logger) *Aggregator {
	return &Aggregator{
		logger: logger,
		index:  make(map[Key]int),
	}
}

// Add folds one row. Rows that cannot be parsed are logged and skipped.
func (a *Aggregator) Add(row RawRow) {
	a.rows++
	parsed, err := parseRow(row)
	if err != nil {
		a.skipped++
		a.logger.Warn("skip row", "row", a.rows, "error", err)
		return
	}
	if i, ok := a.index[parsed.key]; ok {
		slot := a.slots[i]
		a.slots[i] = Recompute(slot, append(slot.Occurrences, parsed.occurrence))
		return
	}
	a.index[parsed.key] = len(a.slots)
	a.slots = append(a.slots, Recompute(Slot{
		UniqueID:     NewUniqueID(parsed.key),
		TeacherName:  parsed.key.Teacher,
		CleanedClass: parsed.key.Class,
		DayOfWeek:    parsed.key.DayOfWeek,
		ClassTime:    parsed.key.Time,
		Location:     parsed.key.Location,
		Date:         parsed.date,
		Period:       parsed.period,
	}, []Occurrence{parsed.occurrence}))
}

// Slots returns the slots in the order their keys were first seen.
func (a *Aggregator) Slots() []Slot {
	return a.slots
}

// Rows returns the number of rows passed to Add.
func (a *Aggregator) Rows() int {
	return a.rows
}

// Skipped returns the number of rows that could not be parsed.
func (a *Aggregator) Skipped() int {
	return a.skipped
}

func Aggregate(logger *slog.Logger, rows []RawRow) []Slot {
	a := NewAggregator(logger)
	for _, row := range rows {
		a.Add(row)
	}
	return a.Slots()
}
