package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisCache keeps bookings keyed by PNR. Bookings never change after
// creation and are deleted on cancellation, so the only invalidation the
// cache needs is an explicit delete.
type RedisCache struct {
	client     *redis.Client
	bookingTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, bookingTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		bookingTTL: bookingTTL,
	}
}

func (c *RedisCache) GetBooking(ctx context.Context, pnr string) (*domain.Booking, error) {
	data, err := c.client.Get(ctx, bookingKey(pnr)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var booking domain.Booking
	if err := json.Unmarshal(data, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *RedisCache) SetBooking(ctx context.Context, booking *domain.Booking) error {
	payload, err := json.Marshal(booking)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, bookingKey(booking.PNR), payload, c.bookingTTL).Err()
}

func (c *RedisCache) DeleteBooking(ctx context.Context, pnr string) error {
	return c.client.Del(ctx, bookingKey(pnr)).Err()
}

func bookingKey(pnr string) string {
	return fmt.Sprintf("cache:booking:%s", pnr)
}
