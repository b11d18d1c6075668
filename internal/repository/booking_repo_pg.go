package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	Save(ctx context.Context, booking *domain.Booking) error
	GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Booking, error)
	Delete(ctx context.Context, pnr string) error
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

// Save upserts a booking together with its passengers in one transaction.
func (r *PGBookingRepository) Save(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `INSERT INTO bookings (pnr, user_name, user_email, mobile_number, booking_date, journey_date, flight_id, meal_opted, number_of_seats, total_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (pnr) DO UPDATE SET
			user_name = EXCLUDED.user_name,
			user_email = EXCLUDED.user_email,
			mobile_number = EXCLUDED.mobile_number,
			booking_date = EXCLUDED.booking_date,
			journey_date = EXCLUDED.journey_date,
			flight_id = EXCLUDED.flight_id,
			meal_opted = EXCLUDED.meal_opted,
			number_of_seats = EXCLUDED.number_of_seats,
			total_cents = EXCLUDED.total_cents`,
		booking.PNR, booking.UserName, booking.UserEmail, booking.MobileNumber, booking.BookingDate,
		booking.JourneyDate, booking.FlightID, booking.MealOpted, booking.NumberOfSeats, booking.TotalCents); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM passengers WHERE pnr=$1`, booking.PNR); err != nil {
		return err
	}
	for _, p := range booking.Passengers {
		if _, err := tx.Exec(ctx, `INSERT INTO passengers (pnr, name, gender, age, seat_number) VALUES ($1, $2, $3, $4, $5)`,
			booking.PNR, p.Name, p.Gender, p.Age, p.SeatNumber); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByPNR(ctx context.Context, pnr string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT pnr, user_name, user_email, mobile_number, booking_date, journey_date, flight_id, meal_opted, number_of_seats, total_cents FROM bookings WHERE pnr=$1`, pnr)
	var b domain.Booking
	if err := row.Scan(&b.PNR, &b.UserName, &b.UserEmail, &b.MobileNumber, &b.BookingDate, &b.JourneyDate, &b.FlightID, &b.MealOpted, &b.NumberOfSeats, &b.TotalCents); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: pnr %s", domain.ErrBookingNotFound, pnr)
		}
		return nil, err
	}

	passengers, err := r.passengersFor(ctx, b.PNR)
	if err != nil {
		return nil, err
	}
	b.Passengers = passengers
	return &b, nil
}

func (r *PGBookingRepository) ListByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT pnr, user_name, user_email, mobile_number, booking_date, journey_date, flight_id, meal_opted, number_of_seats, total_cents FROM bookings WHERE user_email=$1 ORDER BY booking_date DESC`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.PNR, &b.UserName, &b.UserEmail, &b.MobileNumber, &b.BookingDate, &b.JourneyDate, &b.FlightID, &b.MealOpted, &b.NumberOfSeats, &b.TotalCents); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return bookings, nil
	}

	pnrs := make([]string, 0, len(bookings))
	for _, b := range bookings {
		pnrs = append(pnrs, b.PNR)
	}

	passengerRows, err := r.db.Query(ctx, `SELECT pnr, name, gender, age, seat_number FROM passengers WHERE pnr = ANY($1) ORDER BY id`, pnrs)
	if err != nil {
		return nil, err
	}
	defer passengerRows.Close()

	byPNR := make(map[string][]domain.Passenger)
	for passengerRows.Next() {
		var pnr string
		var p domain.Passenger
		if err := passengerRows.Scan(&pnr, &p.Name, &p.Gender, &p.Age, &p.SeatNumber); err != nil {
			return nil, err
		}
		byPNR[pnr] = append(byPNR[pnr], p)
	}
	if err := passengerRows.Err(); err != nil {
		return nil, err
	}

	for i := range bookings {
		passengers := byPNR[bookings[i].PNR]
		if passengers == nil {
			passengers = make([]domain.Passenger, 0)
		}
		bookings[i].Passengers = passengers
	}
	return bookings, nil
}

func (r *PGBookingRepository) Delete(ctx context.Context, pnr string) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM passengers WHERE pnr=$1`, pnr); err != nil {
		return err
	}
	cmd, err := tx.Exec(ctx, `DELETE FROM bookings WHERE pnr=$1`, pnr)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: pnr %s", domain.ErrBookingNotFound, pnr)
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) passengersFor(ctx context.Context, pnr string) ([]domain.Passenger, error) {
	rows, err := r.db.Query(ctx, `SELECT name, gender, age, seat_number FROM passengers WHERE pnr=$1 ORDER BY id`, pnr)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	passengers := make([]domain.Passenger, 0)
	for rows.Next() {
		var p domain.Passenger
		if err := rows.Scan(&p.Name, &p.Gender, &p.Age, &p.SeatNumber); err != nil {
			return nil, err
		}
		passengers = append(passengers, p)
	}
	return passengers, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
