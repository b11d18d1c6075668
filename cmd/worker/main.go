package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

// The worker journals booking lifecycle events into postgres. The journal is
// what an inventory-reconciliation job replays to find seat decrements with
// no surviving booking.
func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	journal := repository.NewEventJournal(pool)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.BookingEventsTopic)
	defer consumer.Close()

	err = consumer.Consume(ctx, func(ctx context.Context, event kafka.BookingEvent) error {
		if err := journal.Record(ctx, event); err != nil {
			log.Printf("journal %s event for %s: %v", event.Type, event.PNR, err)
		}
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("consumer stopped: %v", err)
	}
}
