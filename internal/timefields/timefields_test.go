package timefields

import "testing"

func TestExtract(t *testing.T) {
	for _, tc := range []struct {
		input  string
		time   string
		day    string
		period string
		date   string
	}{
		{"2024-01-01, 6:00 AM", "6:00 AM", "Monday", "Jan-24", "2024-01-01"},
		{"01/08/2024, 7:15 PM", "7:15 PM", "Monday", "Jan-24", "2024-01-08"},
		{"3/15/2024,  12:30 PM ", "12:30 PM", "Friday", "Mar-24", "2024-03-15"},
		{"Dec 31 2023, 9:00 AM", "9:00 AM", "Sunday", "Dec-23", "2023-12-31"},
		{"2024-02-29", "", "Thursday", "Feb-24", "2024-02-29"},
		{"not a date, 6:00 AM", "6:00 AM", "", "", "not a date"},
		{"garbage", "", "", "", "garbage"},
		{"", "", "", "", ""},
	} {
		t.Run(tc.input, func(t *testing.T) {
			if got := ExtractTime(tc.input); got != tc.time {
				t.Fatalf("ExtractTime: expected %q, got %q", tc.time, got)
			}
			if got := ExtractDayOfWeek(tc.input); got != tc.day {
				t.Fatalf("ExtractDayOfWeek: expected %q, got %q", tc.day, got)
			}
			if got := ExtractPeriod(tc.input); got != tc.period {
				t.Fatalf("ExtractPeriod: expected %q, got %q", tc.period, got)
			}
			if got := ExtractDate(tc.input); got != tc.date {
				t.Fatalf("ExtractDate: expected %q, got %q", tc.date, got)
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	for _, tc := range []struct {
		input        string
		hour, minute int
		ok           bool
	}{
		{"6:00 AM", 6, 0, true},
		{"7:15 pm", 19, 15, true},
		{"12:30 PM", 12, 30, true},
		{"18:45", 18, 45, true},
		{"", 0, 0, false},
		{"noon", 0, 0, false},
	} {
		hour, minute, ok := ParseClock(tc.input)
		if hour != tc.hour || minute != tc.minute || ok != tc.ok {
			t.Fatalf("ParseClock(%q): expected %d:%d %v, got %d:%d %v", tc.input, tc.hour, tc.minute, tc.ok, hour, minute, ok)
		}
	}
}
