package slots

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Occurrence is one run of a slot on one calendar date.
type Occurrence struct {
	// Date is the calendar day, formatted as 2006-01-02 when the source date parsed.
	Date      string          `json:"date"`
	Checkins  int64           `json:"checkins"`
	Revenue   decimal.Decimal `json:"revenue"`
	Cancelled int64           `json:"cancelled"`
	// NonPaid is comps plus non-paying customers.
	NonPaid int64   `json:"nonPaid"`
	Hours   float64 `json:"hours"`
	IsEmpty bool    `json:"isEmpty"`
}

// Average is a class average that is not applicable when its denominator is zero.
type Average struct {
	Value float64
	Valid bool
}

func NewAverage(sum, count int64) Average {
	if count == 0 {
		return Average{}
	}
	return Average{Value: float64(sum) / float64(count), Valid: true}
}

func (a Average) String() string {
	if !a.Valid {
		return "N/A"
	}
	return strconv.FormatFloat(a.Value, 'f', 2, 64)
}

func (a Average) MarshalJSON() ([]byte, error) {
	if !a.Valid || math.IsNaN(a.Value) || math.IsInf(a.Value, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value)
}

func (a *Average) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = Average{}
		return nil
	}
	var value float64
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*a = Average{Value: value, Valid: true}
	return nil
}

// Key identifies a slot: no two slots in a dataset share one.
type Key struct {
	Class     string
	DayOfWeek string
	Time      string
	Location  string
	Teacher   string
}

func (k Key) String() string {
	return k.Class + "|" + k.DayOfWeek + "|" + k.Time + "|" + k.Location + "|" + k.Teacher
}

// Slot is a unique combination of class, day, time, location and teacher with
// the occurrences it ran. Every Total* and average field is derived from
// Occurrences by Recompute and is never set on its own.
type Slot struct {
	UniqueID     string `json:"uniqueID"`
	TeacherName  string `json:"teacherName"`
	CleanedClass string `json:"cleanedClass"`
	DayOfWeek    string `json:"dayOfWeek"`
	ClassTime    string `json:"classTime"`
	Location     string `json:"location"`
	Date         string `json:"date"`
	Period       string `json:"period"`

	Occurrences []Occurrence `json:"occurrences"`

	TotalCheckins    int64           `json:"totalCheckins"`
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	TotalCancelled   int64           `json:"totalCancelled"`
	TotalNonPaid     int64           `json:"totalNonPaid"`
	TotalHours       float64         `json:"totalHours"`
	TotalOccurrences int64           `json:"totalOccurrences"`
	TotalEmpty       int64           `json:"totalEmpty"`
	TotalNonEmpty    int64           `json:"totalNonEmpty"`

	ClassAverageIncludingEmpty Average `json:"classAverageIncludingEmpty"`
	ClassAverageExcludingEmpty Average `json:"classAverageExcludingEmpty"`
}

func (s Slot) Key() Key {
	return Key{
		Class:     s.CleanedClass,
		DayOfWeek: s.DayOfWeek,
		Time:      s.ClassTime,
		Location:  s.Location,
		Teacher:   s.TeacherName,
	}
}

// Consistent reports whether the derived fields match a fold over Occurrences.
func (s Slot) Consistent() bool {
	r := Recompute(s, s.Occurrences)
	return r.TotalCheckins == s.TotalCheckins &&
		r.TotalRevenue.Equal(s.TotalRevenue) &&
		r.TotalCancelled == s.TotalCancelled &&
		r.TotalNonPaid == s.TotalNonPaid &&
		r.TotalHours == s.TotalHours &&
		r.TotalOccurrences == s.TotalOccurrences &&
		r.TotalEmpty == s.TotalEmpty &&
		r.TotalNonEmpty == s.TotalNonEmpty &&
		r.ClassAverageIncludingEmpty == s.ClassAverageIncludingEmpty &&
		r.ClassAverageExcludingEmpty == s.ClassAverageExcludingEmpty
}
