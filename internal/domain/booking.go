package domain

import "time"

// Booking is the aggregate persisted for a confirmed ticket. It is created
// once by a successful booking, never mutated, and deleted on cancellation.
type Booking struct {
	PNR           string
	UserName      string
	UserEmail     string
	MobileNumber  string
	BookingDate   time.Time
	JourneyDate   time.Time
	FlightID      int64
	MealOpted     string
	NumberOfSeats int
	TotalCents    int64
	Passengers    []Passenger
}

// Passenger is a value record owned by its Booking; it carries no reference
// back to the booking.
type Passenger struct {
	Name       string
	Gender     string
	Age        int
	SeatNumber string
}
