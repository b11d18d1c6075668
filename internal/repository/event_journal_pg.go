package repository

import (
	"context"

	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EventJournal records booking lifecycle events. The journal is the audit
// trail an offline inventory-reconciliation job replays; the booking core
// itself never compensates a remote seat adjustment.
type EventJournal interface {
	Record(ctx context.Context, event kafka.BookingEvent) error
}

type PGEventJournal struct {
	db *pgxpool.Pool
}

func NewEventJournal(db *pgxpool.Pool) EventJournal {
	return &PGEventJournal{db: db}
}

func (j *PGEventJournal) Record(ctx context.Context, event kafka.BookingEvent) error {
	_, err := j.db.Exec(ctx, `INSERT INTO booking_events (event_type, pnr, flight_id, seats, user_email, total_cents, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.Type, event.PNR, event.FlightID, event.Seats, event.Email, event.TotalCents, event.OccurredAt)
	return err
}

var _ EventJournal = (*PGEventJournal)(nil)
