package kafka

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Consumer delivers booking lifecycle events from the booking-events topic
// as typed BookingEvent values.
type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume reads booking events and hands them to the handler. Messages that
// do not decode as a BookingEvent are logged and skipped, not retried.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, BookingEvent) error) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		if err := deliver(ctx, msg, handler); err != nil {
			return err
		}
	}
}

func deliver(ctx context.Context, msg kafka.Message, handler func(context.Context, BookingEvent) error) error {
	var event BookingEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Printf("skip malformed booking event at offset %d: %v", msg.Offset, err)
		return nil
	}
	return handler(ctx, event)
}
