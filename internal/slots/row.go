package slots

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Source columns of the payroll export.
const (
	ColumnTeacherFirstName  = "Teacher First Name"
	ColumnTeacherLastName   = "Teacher Last Name"
	ColumnClassName         = "Class name"
	ColumnClassDate         = "Class date"
	ColumnLocation          = "Location"
	ColumnHours             = "Hours"
	ColumnCheckedIn         = "Checked in"
	ColumnLateCancellations = "Late cancellations"
	ColumnTotalRevenue      = "Total Revenue"
	ColumnComps             = "Comps"
	ColumnNonPaidCustomers  = "Non Paid Customers"
)

// RawRow is one source row keyed by column header. Lookups ignore case and
// surrounding whitespace in the header.
type RawRow map[string]string

func NewRawRow(header, record []string) RawRow {
	row := make(RawRow, len(header))
	for i, column := range header {
		if i >= len(record) {
			break
		}
		row[normalizeColumn(column)] = record[i]
	}
	return row
}

func normalizeColumn(column string) string {
	return strings.ToLower(strings.TrimSpace(column))
}

// Text returns the trimmed cell value, or "" when the column is absent.
func (r RawRow) Text(column string) string {
	if v, ok := r[normalizeColumn(column)]; ok {
		return strings.TrimSpace(v)
	}
	// rows built by hand may use the exact header
	return strings.TrimSpace(r[column])
}

func cleanNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	return strings.ReplaceAll(s, ",", "")
}

// Int parses the cell as an integer count, 0 on failure.
func (r RawRow) Int(column string) int64 {
	s := cleanNumber(r.Text(column))
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}

// Float parses the cell as a number, 0 on failure.
func (r RawRow) Float(column string) float64 {
	f, err := strconv.ParseFloat(cleanNumber(r.Text(column)), 64)
	if err != nil {
		return 0
	}
	return f
}

// Decimal parses the cell as an amount of money, 0 on failure.
func (r RawRow) Decimal(column string) decimal.Decimal {
	d, err := decimal.NewFromString(cleanNumber(r.Text(column)))
	if err != nil {
		return decimal.Zero
	}
	return d
}
