package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/salonsuite/salon-scheduler/internal/domain/schedule"
)

// Availability caches computed free slots per staff/day/service. A nil
// *Availability disables caching; every method is nil-safe so callers never
// branch on it.
type Availability struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewAvailability(addr string, ttlSeconds int) *Availability {
	if addr == "" {
		return nil
	}
	return &Availability{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
		ttl: time.Duration(ttlSeconds) * time.Second,
	}
}

func slotKey(staffID uint, date string, serviceID uint) string {
	return fmt.Sprintf("avail:%d:%s:%d", staffID, date, serviceID)
}

func (c *Availability) Get(
	ctx context.Context,
	staffID uint,
	date string,
	serviceID uint,
) ([]schedule.TimeSlot, bool) {

	if c == nil {
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, slotKey(staffID, date, serviceID)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Msg("availability cache read failed")
		}
		return nil, false
	}

	var slots []schedule.TimeSlot
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil, false
	}
	return slots, true
}

func (c *Availability) Set(
	ctx context.Context,
	staffID uint,
	date string,
	serviceID uint,
	slots []schedule.TimeSlot,
) {

	if c == nil {
		return
	}

	b, err := json.Marshal(slots)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, slotKey(staffID, date, serviceID), b, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("availability cache write failed")
	}
}

// InvalidateStaffDay drops every cached service variant for one staff day.
// Called after bookings, reschedules, deletes and blockout changes.
func (c *Availability) InvalidateStaffDay(ctx context.Context, staffID uint, date string) {
	c.invalidate(ctx, fmt.Sprintf("avail:%d:%s:*", staffID, date))
}

// InvalidateStaff drops every cached day for a staff member. Used when the
// weekly template changes.
func (c *Availability) InvalidateStaff(ctx context.Context, staffID uint) {
	c.invalidate(ctx, fmt.Sprintf("avail:%d:*", staffID))
}

func (c *Availability) invalidate(ctx context.Context, pattern string) {
	if c == nil {
		return
	}

	keys, err := c.rdb.Keys(ctx, pattern).Result()
	if err != nil || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Msg("availability cache invalidation failed")
	}
}
