package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/inventory"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/pnr"
	"github.com/Domenick1991/flightbooking/internal/repository"
)

type BookingUseCase interface {
	BookTicket(ctx context.Context, flightID int64, input BookTicketInput) (string, error)
	CancelTicket(ctx context.Context, pnr string) error
	GetTicketByPNR(ctx context.Context, pnr string) (*domain.Booking, error)
	GetBookingHistory(ctx context.Context, email string) ([]domain.Booking, error)
}

type Cache interface {
	GetBooking(ctx context.Context, pnr string) (*domain.Booking, error)
	SetBooking(ctx context.Context, booking *domain.Booking) error
	DeleteBooking(ctx context.Context, pnr string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	inventory          inventory.Client
	issuer             pnr.Issuer
	cache              Cache
	producer           Producer
	eventsTopic        string
	cancellationWindow time.Duration
	now                func() time.Time
}

type BookTicketInput struct {
	UserName     string
	UserEmail    string
	MobileNumber string
	MealOpted    string
	// JourneyDate is what the caller asked for; the persisted journey date
	// is taken from the flight snapshot's schedule date, which is the value
	// the cancellation deadline is computed from.
	JourneyDate time.Time
	Passengers  []PassengerInput
}

type PassengerInput struct {
	Name       string
	Gender     string
	Age        int
	SeatNumber string
}

func NewBookingService(
	bookings repository.BookingRepository,
	inventoryClient inventory.Client,
	issuer pnr.Issuer,
	cache Cache,
	producer Producer,
	eventsTopic string,
	cancellationWindow time.Duration,
) *BookingService {
	if cancellationWindow == 0 {
		cancellationWindow = 24 * time.Hour
	}
	return &BookingService{
		bookings:           bookings,
		inventory:          inventoryClient,
		issuer:             issuer,
		cache:              cache,
		producer:           producer,
		eventsTopic:        eventsTopic,
		cancellationWindow: cancellationWindow,
		now:                time.Now,
	}
}

// BookTicket reserves seats in the remote inventory and persists the booking.
// The decrement and the local save are not one transaction: a save failure
// leaves the seats taken remotely, which is why the failure is published to
// the events topic for reconciliation.
func (s *BookingService) BookTicket(ctx context.Context, flightID int64, input BookTicketInput) (string, error) {
	snapshot, err := s.inventory.GetFlightByID(ctx, flightID)
	if err != nil {
		if errors.Is(err, domain.ErrFlightNotFound) {
			return "", fmt.Errorf("%w: flight %d not found", domain.ErrFlightUnavailable, flightID)
		}
		return "", err
	}

	seatsToBook := len(input.Passengers)
	if seatsToBook <= 0 {
		return "", fmt.Errorf("%w: at least one passenger is required", domain.ErrFlightUnavailable)
	}
	if seatsToBook > snapshot.AvailableSeats {
		return "", fmt.Errorf("%w: requested %d seats, %d available", domain.ErrFlightUnavailable, seatsToBook, snapshot.AvailableSeats)
	}

	snapshot.AvailableSeats -= seatsToBook
	if _, err := s.inventory.UpdateInventory(ctx, snapshot); err != nil {
		if errors.Is(err, domain.ErrFlightNotFound) {
			return "", fmt.Errorf("%w: flight %d disappeared during reservation", domain.ErrInventoryUnavailable, flightID)
		}
		return "", err
	}

	booking := &domain.Booking{
		PNR:           s.issuer.Next(),
		UserName:      input.UserName,
		UserEmail:     input.UserEmail,
		MobileNumber:  input.MobileNumber,
		BookingDate:   s.now(),
		JourneyDate:   snapshot.ScheduleDate,
		FlightID:      flightID,
		MealOpted:     input.MealOpted,
		NumberOfSeats: seatsToBook,
		TotalCents:    int64(seatsToBook) * snapshot.PriceCents,
		Passengers:    toPassengers(input.Passengers),
	}

	if err := s.bookings.Save(ctx, booking); err != nil {
		s.publish(ctx, kafka.EventBookingFailed, booking)
		return "", err
	}

	s.publish(ctx, kafka.EventBookingCreated, booking)
	return booking.PNR, nil
}

// CancelTicket restores the booking's seats in the remote inventory and
// deletes the booking, unless the departure is less than the cancellation
// window away. Any inventory failure aborts the whole operation.
func (s *BookingService) CancelTicket(ctx context.Context, bookingPNR string) error {
	booking, err := s.bookings.GetByPNR(ctx, bookingPNR)
	if err != nil {
		return err
	}

	snapshot, err := s.inventory.GetFlightByID(ctx, booking.FlightID)
	if err != nil {
		if errors.Is(err, domain.ErrFlightNotFound) {
			return fmt.Errorf("%w: flight %d is no longer known to inventory", domain.ErrInventoryUnavailable, booking.FlightID)
		}
		return err
	}

	departure, err := domain.DepartureInstant(booking.JourneyDate, snapshot.DepartureTime)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInventoryUnavailable, err)
	}
	deadline := departure.Add(-s.cancellationWindow)
	if s.now().After(deadline) {
		return fmt.Errorf("%w: tickets must be cancelled at least %v prior to departure", domain.ErrCancellationNotPossible, s.cancellationWindow)
	}

	snapshot.AvailableSeats += booking.NumberOfSeats
	if _, err := s.inventory.UpdateInventory(ctx, snapshot); err != nil {
		if errors.Is(err, domain.ErrFlightNotFound) {
			return fmt.Errorf("%w: flight %d is no longer known to inventory", domain.ErrInventoryUnavailable, booking.FlightID)
		}
		return err
	}

	// Invalidate before the store delete: if the delete then fails, readers
	// see a cache miss and re-fetch the surviving booking. A failed
	// invalidation is only logged, so a cancelled booking can still be
	// served from redis until its TTL expires.
	if s.cache != nil {
		if err := s.cache.DeleteBooking(ctx, bookingPNR); err != nil {
			log.Printf("invalidate booking cache for %s: %v", bookingPNR, err)
		}
	}

	if err := s.bookings.Delete(ctx, bookingPNR); err != nil {
		return err
	}

	s.publish(ctx, kafka.EventBookingCancelled, booking)
	return nil
}

func (s *BookingService) GetTicketByPNR(ctx context.Context, bookingPNR string) (*domain.Booking, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetBooking(ctx, bookingPNR); err == nil && cached != nil {
			return cached, nil
		}
	}

	booking, err := s.bookings.GetByPNR(ctx, bookingPNR)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetBooking(ctx, booking); err != nil {
			log.Printf("cache booking %s: %v", booking.PNR, err)
		}
	}
	return booking, nil
}

// GetBookingHistory returns the email's bookings newest first. An empty
// history is reported as ErrBookingNotFound, not as an empty list.
func (s *BookingService) GetBookingHistory(ctx context.Context, email string) ([]domain.Booking, error) {
	history, err := s.bookings.ListByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("%w: no booking history for email %s", domain.ErrBookingNotFound, email)
	}
	return history, nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:       eventType,
		PNR:        booking.PNR,
		FlightID:   booking.FlightID,
		Seats:      booking.NumberOfSeats,
		Email:      booking.UserEmail,
		TotalCents: booking.TotalCents,
		OccurredAt: s.now(),
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, booking.PNR, event); err != nil {
		log.Printf("publish %s event for booking %s: %v", eventType, booking.PNR, err)
	}
}

func toPassengers(inputs []PassengerInput) []domain.Passenger {
	passengers := make([]domain.Passenger, 0, len(inputs))
	for _, p := range inputs {
		passengers = append(passengers, domain.Passenger{
			Name:       p.Name,
			Gender:     p.Gender,
			Age:        p.Age,
			SeatNumber: p.SeatNumber,
		})
	}
	return passengers
}

var _ BookingUseCase = (*BookingService)(nil)
