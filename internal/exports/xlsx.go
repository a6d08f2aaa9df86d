package exports

import (
	"fmt"
	"io"

	"github.com/studioanalytics/internal/slots"
	"github.com/xuri/excelize/v2"
)

const (
	slotsSheet       = "Slots"
	occurrencesSheet = "Occurrences"
)

var occurrenceColumns = []any{"uniqueID", "teacherName", "cleanedClass", "date", "checkins", "revenue", "cancelled", "nonPaid", "hours", "isEmpty"}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// WriteXLSX writes a workbook with a Slots sheet and an Occurrences sheet.
func WriteXLSX(w io.Writer, dataset []slots.Slot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", slotsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(occurrencesSheet); err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}

	header := make([]any, len(slotColumns))
	for i, column := range slotColumns {
		header[i] = column
	}
	if err := setRow(f, slotsSheet, 1, header); err != nil {
		return fmt.Errorf("write slots header: %w", err)
	}
	if err := setRow(f, occurrencesSheet, 1, occurrenceColumns); err != nil {
		return fmt.Errorf("write occurrences header: %w", err)
	}

	occurrenceRow := 2
	for i, s := range dataset {
		revenue, _ := s.TotalRevenue.Float64()
		values := []any{
			s.UniqueID, s.TeacherName, s.CleanedClass, s.DayOfWeek, s.ClassTime, s.Location, s.Date, s.Period,
			s.TotalCheckins, revenue, s.TotalCancelled, s.TotalNonPaid, s.TotalHours,
			s.TotalOccurrences, s.TotalEmpty, s.TotalNonEmpty,
			averageCell(s.ClassAverageIncludingEmpty), averageCell(s.ClassAverageExcludingEmpty),
		}
		if err := setRow(f, slotsSheet, i+2, values); err != nil {
			return fmt.Errorf("write slot %q: %w", s.UniqueID, err)
		}
		for _, occ := range s.Occurrences {
			revenue, _ := occ.Revenue.Float64()
			values := []any{s.UniqueID, s.TeacherName, s.CleanedClass, occ.Date, occ.Checkins, revenue, occ.Cancelled, occ.NonPaid, occ.Hours, occ.IsEmpty}
			if err := setRow(f, occurrencesSheet, occurrenceRow, values); err != nil {
				return fmt.Errorf("write occurrence of %q: %w", s.UniqueID, err)
			}
			occurrenceRow++
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func averageCell(a slots.Average) any {
	if !a.Valid {
		return a.String()
	}
	return a.Value
}
