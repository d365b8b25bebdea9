package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb            *redis.Client
	idempotencyTTL time.Duration
}

// NewClient creates a new Redis client and verifies the connection
func NewClient(addr, password string, db int, idempotencyTTL time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewFromRedis(rdb, idempotencyTTL), nil
}

// NewFromRedis wraps an existing go-redis client
func NewFromRedis(rdb *redis.Client, idempotencyTTL time.Duration) *Client {
	return &Client{
		rdb:            rdb,
		idempotencyTTL: idempotencyTTL,
	}
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks the connection
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func idempotencyKey(key string) string {
	return fmt.Sprintf("idempotency:booking:%s", key)
}

// GetBookingID returns the booking recorded for an idempotency key
func (c *Client) GetBookingID(ctx context.Context, key string) (string, bool, error) {
	bookingID, err := c.rdb.Get(ctx, idempotencyKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return bookingID, true, nil
}

// SaveBookingID records the booking for an idempotency key. An existing
// mapping is never overwritten.
func (c *Client) SaveBookingID(ctx context.Context, key, bookingID string) error {
	return c.rdb.SetNX(ctx, idempotencyKey(key), bookingID, c.idempotencyTTL).Err()
}
