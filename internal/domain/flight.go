package domain

import (
	"fmt"
	"time"
)

// FlightSnapshot is a point-in-time copy of a flight's schedule and seat
// availability fetched from the inventory service. Departure and arrival are
// times of day in "HH:MM" form; the schedule date carries the calendar day.
type FlightSnapshot struct {
	ID             int64
	AirlineName    string
	FromPlace      string
	ToPlace        string
	ScheduleDate   time.Time
	DepartureTime  string
	ArrivalTime    string
	PriceCents     int64
	TotalSeats     int
	AvailableSeats int
}

func (f *FlightSnapshot) DepartureAt() (time.Time, error) {
	return DepartureInstant(f.ScheduleDate, f.DepartureTime)
}

// DepartureInstant combines a journey date with a "HH:MM" (or "HH:MM:SS")
// time of day into a single instant in the journey date's location.
func DepartureInstant(journeyDate time.Time, departureTime string) (time.Time, error) {
	tod, err := time.Parse("15:04:05", departureTime)
	if err != nil {
		tod, err = time.Parse("15:04", departureTime)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse departure time %q: %w", departureTime, err)
		}
	}

	y, m, d := journeyDate.Date()
	return time.Date(y, m, d, tod.Hour(), tod.Minute(), tod.Second(), 0, journeyDate.Location()), nil
}
