package exports

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/studioanalytics/internal/slots"
	"github.com/xuri/excelize/v2"
)

func testDataset() []slots.Slot {
	return []slots.Slot{
		slots.Recompute(slots.Slot{
			UniqueID:     "a",
			TeacherName:  "Jane Doe",
			CleanedClass: "Studio Mat 57",
			DayOfWeek:    "Monday",
			ClassTime:    "6:00 AM",
			Location:     "Downtown",
			Date:         "2024-01-01",
			Period:       "Jan-24",
		}, []slots.Occurrence{
			{Date: "2024-01-01", Checkins: 5, Revenue: decimal.RequireFromString("100.5")},
			{Date: "2024-01-08", Checkins: 7, Revenue: decimal.RequireFromString("140")},
		}),
		slots.Recompute(slots.Slot{UniqueID: "b", TeacherName: "John Roe"}, []slots.Occurrence{
			{Date: "2024-01-02", IsEmpty: true},
		}),
	}
}

func TestFilenames(t *testing.T) {
	now := time.Date(2024, time.March, 5, 13, 0, 0, 0, time.UTC)
	if got := CSVFilename(now); got != "class_data_export_2024-03-05.csv" {
		t.Fatalf("unexpected csv filename %q", got)
	}
	if got := XLSXFilename(now); got != "class_data_export_2024-03-05.xlsx" {
		t.Fatalf("unexpected xlsx filename %q", got)
	}
}

func TestWriteCSV(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteCSV(buf, testDataset()); err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header and 2 records, got %d", len(records))
	}
	header := records[0]
	if header[len(header)-1] != "occurrences" || header[1] != "teacherName" {
		t.Fatalf("unexpected header %v", header)
	}
	first := records[1]
	if first[1] != "Jane Doe" || first[8] != "12" || first[9] != "240.50" || first[16] != "6.00" {
		t.Fatalf("unexpected first record %v", first)
	}
	var occurrences []slots.Occurrence
	if err := json.Unmarshal([]byte(first[len(first)-1]), &occurrences); err != nil {
		t.Fatal(err)
	}
	if len(occurrences) != 2 || occurrences[1].Checkins != 7 {
		t.Fatalf("unexpected occurrences %+v", occurrences)
	}
	if second := records[2]; second[17] != "N/A" {
		t.Fatalf("expected not applicable average, got %q", second[17])
	}
}

func TestWriteJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteJSON(buf, testDataset()); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("\n  {\n    \"uniqueID\": \"a\"")) {
		t.Fatalf("expected indented output, got %s", buf.String())
	}
	var decoded []slots.Slot
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 2 || !decoded[0].Consistent() || decoded[1].ClassAverageExcludingEmpty.Valid {
		t.Fatalf("unexpected decoded dataset %+v", decoded)
	}

	buf.Reset()
	if err := WriteJSON(buf, nil); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "[]\n" {
		t.Fatalf("expected empty array, got %q", buf.String())
	}
}

func TestWriteXLSX(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := WriteXLSX(buf, testDataset()); err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows(slotsSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 || rows[1][1] != "Jane Doe" {
		t.Fatalf("unexpected slots sheet %v", rows)
	}
	occurrences, err := f.GetRows(occurrencesSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(occurrences) != 4 {
		t.Fatalf("expected header and 3 occurrences, got %d", len(occurrences))
	}
}
