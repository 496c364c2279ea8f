package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/booking-engine/internal/middleware"
)

const (
	idempotencyPrefix = "idempotency:"
	pendingMarker     = "pending"
)

// Idempotency stores replayable responses in Redis. A key is claimed with
// SETNX so two concurrent requests cannot both run.
type Idempotency struct {
	client *redis.Client
	ttl    time.Duration
}

func NewIdempotency(client *redis.Client, ttl time.Duration) *Idempotency {
	return &Idempotency{client: client, ttl: ttl}
}

func (s *Idempotency) Begin(ctx context.Context, key string) (*middleware.StoredResponse, bool, error) {
	k := idempotencyPrefix + key

	claimed, err := s.client.SetNX(ctx, k, pendingMarker, s.ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if claimed {
		return nil, true, nil
	}

	raw, err := s.client.Get(ctx, k).Result()
	if errors.Is(err, redis.Nil) {
		// expired between the two calls
		return s.Begin(ctx, key)
	}
	if err != nil {
		return nil, false, err
	}
	if raw == pendingMarker {
		return nil, false, nil
	}

	var stored middleware.StoredResponse
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, false, err
	}
	return &stored, false, nil
}

func (s *Idempotency) Complete(ctx context.Context, key string, resp middleware.StoredResponse) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, idempotencyPrefix+key, b, s.ttl).Err()
}

func (s *Idempotency) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, idempotencyPrefix+key).Err()
}

var _ middleware.IdempotencyStore = (*Idempotency)(nil)
