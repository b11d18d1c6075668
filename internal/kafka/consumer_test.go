package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestDeliver_DecodesBookingEvent(t *testing.T) {
	sent := BookingEvent{
		Type:       EventBookingCreated,
		PNR:        "CHUBBFLIGHTAB12CD",
		FlightID:   101,
		Seats:      2,
		Email:      "test@example.com",
		TotalCents: 10000,
		OccurredAt: time.Date(2026, time.September, 7, 9, 0, 0, 0, time.UTC),
	}
	payload, err := json.Marshal(sent)
	assert.NoError(t, err)

	var received BookingEvent
	err = deliver(context.Background(), kafka.Message{Value: payload}, func(ctx context.Context, event BookingEvent) error {
		received = event
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, sent, received)
}

func TestDeliver_SkipsMalformedPayload(t *testing.T) {
	handled := false
	err := deliver(context.Background(), kafka.Message{Value: []byte("not json")}, func(ctx context.Context, event BookingEvent) error {
		handled = true
		return nil
	})

	assert.NoError(t, err)
	assert.False(t, handled)
}

func TestDeliver_PropagatesHandlerError(t *testing.T) {
	handlerErr := errors.New("journal write failed")
	payload, _ := json.Marshal(BookingEvent{Type: EventBookingCancelled, PNR: "CHUBBFLIGHT00OLD1"})

	err := deliver(context.Background(), kafka.Message{Value: payload}, func(ctx context.Context, event BookingEvent) error {
		return handlerErr
	})

	assert.ErrorIs(t, err, handlerErr)
}
