package pivots

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/shopspring/decimal"
	"github.com/studioanalytics/internal/datasets"
	"github.com/studioanalytics/internal/keys"
	"github.com/studioanalytics/internal/query"
	"github.com/studioanalytics/internal/slots"
)

func occurrence(date string, checkins int64) slots.Occurrence {
	return slots.Occurrence{
		Date:     date,
		Checkins: checkins,
		Revenue:  decimal.NewFromInt(checkins * 20),
		IsEmpty:  checkins == 0,
	}
}

func testDataset() []slots.Slot {
	return []slots.Slot{
		slots.Recompute(slots.Slot{
			UniqueID:     "b",
			TeacherName:  "John Roe",
			CleanedClass: "Studio HIIT",
			DayOfWeek:    "Tuesday",
			Location:     "Uptown",
		}, []slots.Occurrence{
			occurrence("2024-01-02", 3),
			occurrence("2024-02-06", 0),
		}),
		slots.Recompute(slots.Slot{
			UniqueID:     "a",
			TeacherName:  "Jane Doe",
			CleanedClass: "Studio Mat 57",
			DayOfWeek:    "Monday",
			Location:     "Downtown",
		}, []slots.Occurrence{
			occurrence("2024-01-01", 5),
			occurrence("2024-01-08", 0),
			occurrence("2024-02-05", 7),
		}),
	}
}

func valid(v float64) slots.Average {
	return slots.Average{Value: v, Valid: true}
}

func TestCompute(t *testing.T) {
	table := Compute(testDataset(), &View{
		Rows:         DimensionTeacher,
		Columns:      DimensionDate,
		TimeGrouping: GroupingMonth,
		Metric:       query.FieldClassAverageExcludingEmpty,
		Heatmap:      true,
		Totals:       true,
	})

	if !reflect.DeepEqual(table.Rows, []string{"Jane Doe", "John Roe"}) {
		t.Fatalf("unexpected rows %v", table.Rows)
	}
	if !reflect.DeepEqual(table.Columns, []string{"2024-01", "2024-02"}) {
		t.Fatalf("unexpected columns %v", table.Columns)
	}
	expected := [][]slots.Average{
		{valid(5), valid(7)},
		{valid(3), {}},
	}
	if !reflect.DeepEqual(table.Cells, expected) {
		t.Fatalf("expected cells %v, got %v", expected, table.Cells)
	}
	if !reflect.DeepEqual(table.RowTotals, []slots.Average{valid(6), valid(3)}) {
		t.Fatalf("unexpected row totals %v", table.RowTotals)
	}
	if !reflect.DeepEqual(table.ColumnTotals, []slots.Average{valid(4), valid(7)}) {
		t.Fatalf("unexpected column totals %v", table.ColumnTotals)
	}
	if table.GrandTotal == nil || *table.GrandTotal != valid(5) {
		t.Fatalf("unexpected grand total %v", table.GrandTotal)
	}
	if table.Min == nil || *table.Min != 3 || table.Max == nil || *table.Max != 7 {
		t.Fatalf("unexpected heatmap range %v..%v", table.Min, table.Max)
	}
}

func TestCompute_singleColumn(t *testing.T) {
	table := Compute(testDataset(), &View{
		Rows:   DimensionDayOfWeek,
		Metric: query.FieldTotalCheckins,
	})
	if !reflect.DeepEqual(table.Rows, []string{"Monday", "Tuesday"}) {
		t.Fatalf("unexpected rows %v", table.Rows)
	}
	if !reflect.DeepEqual(table.Columns, []string{"totalCheckins"}) {
		t.Fatalf("unexpected columns %v", table.Columns)
	}
	if !reflect.DeepEqual(table.Cells, [][]slots.Average{{valid(12)}, {valid(3)}}) {
		t.Fatalf("unexpected cells %v", table.Cells)
	}
	if table.GrandTotal != nil || table.Min != nil {
		t.Fatal("expected no totals or heatmap range")
	}
}

func TestBucket(t *testing.T) {
	view := &View{Rows: DimensionDate, Metric: query.FieldTotalOccurrences}
	for _, tc := range []struct {
		grouping TimeGrouping
		expected []string
	}{
		{GroupingNone, []string{"2024-01-01", "2024-01-02", "2024-01-08", "2024-02-05", "2024-02-06"}},
		{GroupingWeek, []string{"2024-W01", "2024-W02", "2024-W06"}},
		{GroupingQuarter, []string{"2024-Q1"}},
		{GroupingYear, []string{"2024"}},
	} {
		view.TimeGrouping = tc.grouping
		table := Compute(testDataset(), view)
		if !reflect.DeepEqual(table.Rows, tc.expected) {
			t.Fatalf("%s: expected %v, got %v", tc.grouping, tc.expected, table.Rows)
		}
	}
}

func TestView_Validate(t *testing.T) {
	for name, view := range map[string]View{
		"no name":          {Rows: DimensionTeacher, Metric: query.FieldTotalCheckins},
		"text metric":      {Name: "x", Rows: DimensionTeacher, Metric: query.FieldTeacherName},
		"same dimensions":  {Name: "x", Rows: DimensionTeacher, Columns: DimensionTeacher, Metric: query.FieldTotalCheckins},
		"unknown grouping": {Name: "x", Rows: DimensionDate, Metric: query.FieldTotalCheckins, TimeGrouping: "decade"},
		"unknown rows":     {Name: "x", Rows: "color", Metric: query.FieldTotalCheckins},
	} {
		if err := view.Validate(); !errors.Is(err, ErrInvalidView) {
			t.Fatalf("%s: expected %q, got %v", name, ErrInvalidView, err)
		}
	}
}

func TestService(t *testing.T) {
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLogger(nil))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	key, err := keys.NewKey()
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	state := datasets.NewState(slog.New(slog.NewTextHandler(io.Discard, nil)), datasets.NewStore(db, key))
	if err := state.Replace(ctx, testDataset()); err != nil {
		t.Fatal(err)
	}
	service := NewService(NewStore(db), state)

	first, err := service.CreateView(ctx, View{Name: "By teacher", Rows: DimensionTeacher, Metric: query.FieldTotalRevenue})
	if err != nil {
		t.Fatal(err)
	}
	if first.TimeGrouping != GroupingNone {
		t.Fatalf("expected default grouping, got %q", first.TimeGrouping)
	}
	second, err := service.CreateView(ctx, View{Name: "By day", Rows: DimensionDayOfWeek, Metric: query.FieldTotalCheckins})
	if err != nil {
		t.Fatal(err)
	}

	views, err := service.ListViews(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 2 || views[0].ID != first.ID || views[1].ID != second.ID {
		t.Fatalf("unexpected views %v", views)
	}

	table, err := service.ComputeView(ctx, first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(table.Cells, [][]slots.Average{{valid(240)}, {valid(60)}}) {
		t.Fatalf("unexpected cells %v", table.Cells)
	}

	if err := service.DeleteView(ctx, first.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := service.ComputeView(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected %q, got %v", ErrNotFound, err)
	}
	if err := service.DeleteView(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected %q, got %v", ErrNotFound, err)
	}
}
