package calendars

import (
	"fmt"
	"io"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/studioanalytics/internal/slots"
	"github.com/studioanalytics/internal/timefields"
	"github.com/studioanalytics/internal/timezone"
)

const defaultDuration = time.Hour

// WriteICal writes one event per occurrence, reading class times as wall clock
// times in location. Occurrences whose date or time cannot be parsed are left
// out.
func WriteICal(w io.Writer, name string, dataset []slots.Slot, location *time.Location) error {
	icalendar := ics.NewCalendar()
	icalendar.SetName(name)
	icalendar.SetProductId("-//studioanalytics//classes//EN")
	stamp := time.Now().UTC()
	for _, slot := range dataset {
		hour, minute, ok := timefields.ParseClock(slot.ClassTime)
		if !ok {
			continue
		}
		for _, occ := range slot.Occurrences {
			day, err := time.Parse(time.DateOnly, occ.Date)
			if err != nil {
				continue
			}
			start := timezone.At(day, hour, minute, location)
			duration := defaultDuration
			if occ.Hours > 0 {
				duration = time.Duration(occ.Hours * float64(time.Hour))
			}
			event := icalendar.AddEvent(fmt.Sprintf("%s-%s", slot.UniqueID, occ.Date))
			event.SetDtStampTime(stamp)
			event.SetSummary(fmt.Sprintf("%s with %s", slot.CleanedClass, slot.TeacherName))
			event.SetLocation(slot.Location)
			event.SetDescription(fmt.Sprintf("Checked in: %d, late cancellations: %d, revenue: %s", occ.Checkins, occ.Cancelled, occ.Revenue.StringFixed(2)))
			event.SetStartAt(start)
			event.SetEndAt(start.Add(duration))
		}
	}
	return icalendar.SerializeTo(w)
}
