// Package cache keeps Redis-backed copies of hot reads.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/booking-engine/internal/calendar"
	"github.com/BruksfildServices01/booking-engine/internal/usecase/availability"
)

const (
	availabilityPrefix = "availability"
	scanBatch          = 100
)

func AvailabilityKey(businessID, serviceID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("%s:%s:%s:%s", availabilityPrefix, businessID, serviceID, calendar.FormatDate(date))
}

func availabilityPattern(businessID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("%s:%s:*:%s", availabilityPrefix, businessID, calendar.FormatDate(date))
}

// ServiceSlots caches service availability per business, service and date.
// Redis failures fall through to the wrapped finder.
type ServiceSlots struct {
	next   availability.ServiceSlotFinder
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

func NewServiceSlots(
	next availability.ServiceSlotFinder,
	client *redis.Client,
	ttl time.Duration,
	log zerolog.Logger,
) *ServiceSlots {
	return &ServiceSlots{
		next:   next,
		client: client,
		ttl:    ttl,
		log:    log.With().Str("component", "availability-cache").Logger(),
	}
}

func (c *ServiceSlots) Execute(
	ctx context.Context,
	in availability.ServiceSlotsInput,
) (*availability.ServiceAvailability, error) {

	key := AvailabilityKey(in.BusinessID, in.ServiceID, in.Date)

	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached availability.ServiceAvailability
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
		c.log.Warn().Str("key", key).Msg("corrupt cache entry")
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	out, err := c.next.Execute(ctx, in)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		if err := c.client.Set(ctx, key, b, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return out, nil
}

// Invalidate drops every cached service listing of the business on the
// dates touched by [start, end).
func (c *ServiceSlots) Invalidate(
	ctx context.Context,
	businessID uuid.UUID,
	start time.Time,
	end time.Time,
) error {

	for day := range calendar.Days(start, end) {
		if err := c.invalidateDay(ctx, businessID, day); err != nil {
			return err
		}
	}
	return nil
}

func (c *ServiceSlots) invalidateDay(ctx context.Context, businessID uuid.UUID, day time.Time) error {
	pattern := availabilityPattern(businessID, day)

	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return fmt.Errorf("cache scan %s: %w", pattern, err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("cache del %s: %w", pattern, err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

var _ availability.ServiceSlotFinder = (*ServiceSlots)(nil)
