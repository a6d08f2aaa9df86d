// Package timezone places the wall clock times found in payroll exports in the
// studio's time zone.
package timezone

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

func Load(name string) (*time.Location, error) {
	location, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load location %q: %w", name, err)
	}
	return location, nil
}

// At returns the instant the clock in location reads hour:minute on day.
func At(day time.Time, hour, minute int, location *time.Location) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, location)
}
