package pivots

import (
	"cmp"
	"slices"
	"time"

	"github.com/studioanalytics/internal/query"
	"github.com/studioanalytics/internal/slots"
	"github.com/studioanalytics/internal/timefields"
)

// Table is a computed pivot. Cells[i][j] is the metric for Rows[i] and
// Columns[j]; a null cell has no occurrences or a not applicable average.
type Table struct {
	View    *View             `json:"view"`
	Rows    []string          `json:"rows"`
	Columns []string          `json:"columns"`
	Cells   [][]slots.Average `json:"cells"`

	RowTotals    []slots.Average `json:"rowTotals,omitempty"`
	ColumnTotals []slots.Average `json:"columnTotals,omitempty"`
	GrandTotal   *slots.Average  `json:"grandTotal,omitempty"`

	// Min and Max span the valid cells when the view is a heatmap.
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

type cellKey struct {
	row, column string
}

// Compute pivots the occurrences of dataset by the view's dimensions. Every
// cell and total is folded from its own occurrences, never summed from other
// cells, so averages stay exact at every level.
func Compute(dataset []slots.Slot, view *View) *Table {
	grouping := normalizeGrouping(view.TimeGrouping)
	cells := map[cellKey][]slots.Occurrence{}
	byRow := map[string][]slots.Occurrence{}
	byColumn := map[string][]slots.Occurrence{}
	all := []slots.Occurrence{}
	for _, slot := range dataset {
		for _, occ := range slot.Occurrences {
			row := label(view.Rows, slot, occ, grouping)
			column := view.Metric.String()
			if view.Columns != "" {
				column = label(view.Columns, slot, occ, grouping)
			}
			key := cellKey{row, column}
			cells[key] = append(cells[key], occ)
			byRow[row] = append(byRow[row], occ)
			byColumn[column] = append(byColumn[column], occ)
			all = append(all, occ)
		}
	}

	table := &Table{
		View:    view,
		Rows:    labels(view.Rows, byRow),
		Columns: labels(view.Columns, byColumn),
	}
	table.Cells = make([][]slots.Average, len(table.Rows))
	for i, row := range table.Rows {
		table.Cells[i] = make([]slots.Average, len(table.Columns))
		for j, column := range table.Columns {
			occs, ok := cells[cellKey{row, column}]
			if !ok {
				continue
			}
			cell := metric(view.Metric, occs)
			table.Cells[i][j] = cell
			if view.Heatmap && cell.Valid {
				table.extend(cell.Value)
			}
		}
	}

	if view.Totals {
		for _, row := range table.Rows {
			table.RowTotals = append(table.RowTotals, metric(view.Metric, byRow[row]))
		}
		for _, column := range table.Columns {
			table.ColumnTotals = append(table.ColumnTotals, metric(view.Metric, byColumn[column]))
		}
		grand := metric(view.Metric, all)
		table.GrandTotal = &grand
	}
	return table
}

func (t *Table) extend(v float64) {
	if t.Min == nil || v < *t.Min {
		t.Min = &v
	}
	if t.Max == nil || v > *t.Max {
		t.Max = &v
	}
}

func metric(field query.Field, occs []slots.Occurrence) slots.Average {
	value := field.Get(slots.Recompute(slots.Slot{}, occs))
	if !value.Numeric {
		return slots.Average{}
	}
	return slots.Average{Value: value.Number, Valid: true}
}

func label(dimension Dimension, slot slots.Slot, occ slots.Occurrence, grouping TimeGrouping) string {
	switch dimension {
	case DimensionTeacher:
		return slot.TeacherName
	case DimensionClass:
		return slot.CleanedClass
	case DimensionLocation:
		return slot.Location
	case DimensionDayOfWeek:
		return slot.DayOfWeek
	case DimensionClassTime:
		return slot.ClassTime
	case DimensionPeriod:
		if period := timefields.ExtractPeriod(occ.Date); period != "" {
			return period
		}
		return slot.Period
	case DimensionDate:
		date, ok := timefields.ParseDate(occ.Date)
		if !ok {
			return occ.Date
		}
		return bucket(date, grouping)
	default:
		return ""
	}
}

var weekOrder = map[string]int{
	"Monday": 0, "Tuesday": 1, "Wednesday": 2, "Thursday": 3,
	"Friday": 4, "Saturday": 5, "Sunday": 6,
}

func labels(dimension Dimension, groups map[string][]slots.Occurrence) []string {
	out := make([]string, 0, len(groups))
	for l := range groups {
		out = append(out, l)
	}
	switch dimension {
	case DimensionDayOfWeek:
		slices.SortFunc(out, func(a, b string) int {
			ia, oka := weekOrder[a]
			ib, okb := weekOrder[b]
			switch {
			case oka && okb:
				return ia - ib
			case oka:
				return -1
			case okb:
				return 1
			}
			return compareText(a, b)
		})
	case DimensionPeriod:
		slices.SortFunc(out, func(a, b string) int {
			ta, erra := time.Parse("Jan-06", a)
			tb, errb := time.Parse("Jan-06", b)
			if erra == nil && errb == nil {
				return ta.Compare(tb)
			}
			return compareText(a, b)
		})
	default:
		slices.SortFunc(out, compareText)
	}
	return out
}

func compareText(a, b string) int {
	return cmp.Compare(a, b)
}
