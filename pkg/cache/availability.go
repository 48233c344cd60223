package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const availabilityTTL = 5 * time.Minute

// AvailabilityCache holds the seats-left snapshot per schedule in Redis.
// It is display-only: the reservation engine re-checks the database under
// the schedule lock, so a stale or missing snapshot costs nothing but a
// slightly off number on a search page.
type AvailabilityCache struct {
	client *redis.Client
	log    *zap.Logger
}

func NewAvailabilityCache(addr, password string, db int, log *zap.Logger) (*AvailabilityCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}

	return &AvailabilityCache{
		client: client,
		log:    log.With(zap.String("component", "availability_cache")),
	}, nil
}

func availabilityKey(scheduleID uuid.UUID) string {
	return "availability:" + scheduleID.String()
}

func (c *AvailabilityCache) SetAvailability(ctx context.Context, scheduleID uuid.UUID, seatsLeft int) error {
	err := c.client.Set(ctx, availabilityKey(scheduleID), seatsLeft, availabilityTTL).Err()
	if err != nil {
		return fmt.Errorf("set availability for schedule %s: %w", scheduleID.String(), err)
	}
	return nil
}

// GetAvailability returns the cached seats-left value and whether the key
// was present.
func (c *AvailabilityCache) GetAvailability(ctx context.Context, scheduleID uuid.UUID) (int, bool, error) {
	seats, err := c.client.Get(ctx, availabilityKey(scheduleID)).Int()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get availability for schedule %s: %w", scheduleID.String(), err)
	}
	return seats, true, nil
}

func (c *AvailabilityCache) Close() {
	if err := c.client.Close(); err != nil {
		c.log.Warn("Failed to close redis client", zap.Error(err))
	}
}
