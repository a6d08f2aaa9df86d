// Package exports serialises filtered slot datasets for download.
package exports

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/studioanalytics/internal/slots"
)

const JSONFilename = "class_data.json"

func CSVFilename(now time.Time) string {
	return fmt.Sprintf("class_data_export_%s.csv", now.Format(time.DateOnly))
}

func XLSXFilename(now time.Time) string {
	return fmt.Sprintf("class_data_export_%s.xlsx", now.Format(time.DateOnly))
}

var slotColumns = []string{
	"uniqueID",
	"teacherName",
	"cleanedClass",
	"dayOfWeek",
	"classTime",
	"location",
	"date",
	"period",
	"totalCheckins",
	"totalRevenue",
	"totalCancelled",
	"totalNonPaid",
	"totalHours",
	"totalOccurrences",
	"totalEmpty",
	"totalNonEmpty",
	"classAverageIncludingEmpty",
	"classAverageExcludingEmpty",
}

func slotRecord(s slots.Slot) []string {
	return []string{
		s.UniqueID,
		s.TeacherName,
		s.CleanedClass,
		s.DayOfWeek,
		s.ClassTime,
		s.Location,
		s.Date,
		s.Period,
		strconv.FormatInt(s.TotalCheckins, 10),
		s.TotalRevenue.StringFixed(2),
		strconv.FormatInt(s.TotalCancelled, 10),
		strconv.FormatInt(s.TotalNonPaid, 10),
		strconv.FormatFloat(s.TotalHours, 'f', -1, 64),
		strconv.FormatInt(s.TotalOccurrences, 10),
		strconv.FormatInt(s.TotalEmpty, 10),
		strconv.FormatInt(s.TotalNonEmpty, 10),
		s.ClassAverageIncludingEmpty.String(),
		s.ClassAverageExcludingEmpty.String(),
	}
}

// WriteCSV writes one line per slot. The occurrences column holds the
// occurrences as a JSON array.
func WriteCSV(w io.Writer, dataset []slots.Slot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(append(slices.Clone(slotColumns), "occurrences")); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, s := range dataset {
		occurrences, err := json.Marshal(s.Occurrences)
		if err != nil {
			return fmt.Errorf("marshal occurrences of %q: %w", s.UniqueID, err)
		}
		if err := cw.Write(append(slotRecord(s), string(occurrences))); err != nil {
			return fmt.Errorf("write slot %q: %w", s.UniqueID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteJSON(w io.Writer, dataset []slots.Slot) error {
	if dataset == nil {
		dataset = []slots.Slot{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dataset); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return nil
}
