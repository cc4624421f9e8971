// Package ratelimit enforces per-actor, per-action quotas with fixed windows.
// Counters live in Redis hashes and are updated with WATCH/MULTI so concurrent
// calls from the same actor cannot both pass the last free slot.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/neighborly/neighborly-api/internal/pkg/apperr"
	"github.com/neighborly/neighborly-api/internal/pkg/logger"
	"github.com/neighborly/neighborly-api/internal/pkg/metrics"
)

const (
	keyPrefix = "rl:"
	// IndexKey is a sorted set of counter keys scored by last update (unix ms).
	IndexKey = "rl:index"

	fieldWindowStart = "window_start"
	fieldCount       = "count"
	fieldUpdatedAt   = "updated_at"

	maxRetries = 5
)

// Enforcer is what callables depend on
type Enforcer interface {
	Enforce(ctx context.Context, rule Rule, actorID uuid.UUID, newAccount bool) error
}

// Limiter performs rate limiting checks against Redis.
type Limiter struct {
	client *redis.Client
	now    func() time.Time
}

// NewLimiter creates a Limiter backed by the given Redis client.
func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{client: client, now: time.Now}
}

// CounterKey is the counter document key for an actor and action
func CounterKey(action string, actorID uuid.UUID) string {
	return keyPrefix + action + ":" + actorID.String()
}

// Counter is the stored state of one quota window
type Counter struct {
	WindowStart time.Time
	Count       int
	UpdatedAt   time.Time
}

// Enforce records one call and returns ErrRateLimited when the quota for the
// current window is already used up. A rejected call does not consume quota.
// Store failures are returned as internal errors (the limiter fails closed).
func (l *Limiter) Enforce(ctx context.Context, rule Rule, actorID uuid.UUID, newAccount bool) error {
	key := CounterKey(rule.Action, actorID)
	limit := rule.Limit(newAccount)

	var exceeded bool
	txf := func(tx *redis.Tx) error {
		exceeded = false
		now := l.now()

		counter, err := readCounter(ctx, tx, key)
		if err != nil {
			return err
		}

		switch {
		case counter == nil || now.Sub(counter.WindowStart) >= rule.Window:
			counter = &Counter{WindowStart: now, Count: 1}
		case counter.Count >= limit:
			exceeded = true
			return nil
		default:
			counter.Count++
		}
		counter.UpdatedAt = now

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key,
				fieldWindowStart, counter.WindowStart.UnixMilli(),
				fieldCount, counter.Count,
				fieldUpdatedAt, now.UnixMilli(),
			)
			pipe.ZAdd(ctx, IndexKey, redis.Z{Score: float64(now.UnixMilli()), Member: key})
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		err := l.client.Watch(ctx, txf, key)
		if err == nil {
			if exceeded {
				metrics.RateLimitRejections.WithLabelValues(rule.Action).Inc()
				logger.LogWarn(ctx, "Rate limit exceeded",
					"action", rule.Action, "actor_id", actorID.String(), "limit", limit)
				return ErrRateLimited
			}
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			metrics.RateLimitConflicts.Inc()
			continue
		}
		return apperr.Internal(fmt.Errorf("rate limit %s: %w", rule.Action, err))
	}

	return ErrContention
}

// Get returns the stored counter, or nil when none exists
func (l *Limiter) Get(ctx context.Context, action string, actorID uuid.UUID) (*Counter, error) {
	return readCounter(ctx, l.client, CounterKey(action, actorID))
}

type hashReader interface {
	HMGet(ctx context.Context, key string, fields ...string) *redis.SliceCmd
}

func readCounter(ctx context.Context, c hashReader, key string) (*Counter, error) {
	vals, err := c.HMGet(ctx, key, fieldWindowStart, fieldCount, fieldUpdatedAt).Result()
	if err != nil {
		return nil, err
	}
	if vals[0] == nil || vals[1] == nil {
		return nil, nil
	}

	windowStart, err := parseInt(vals[0])
	if err != nil {
		return nil, fmt.Errorf("counter %s window_start: %w", key, err)
	}
	count, err := parseInt(vals[1])
	if err != nil {
		return nil, fmt.Errorf("counter %s count: %w", key, err)
	}
	var updatedAt int64
	if vals[2] != nil {
		updatedAt, _ = parseInt(vals[2])
	}

	return &Counter{
		WindowStart: time.UnixMilli(windowStart),
		Count:       int(count),
		UpdatedAt:   time.UnixMilli(updatedAt),
	}, nil
}

func parseInt(v interface{}) (int64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, fmt.Errorf("unexpected type %T", v)
	}
	return strconv.ParseInt(s, 10, 64)
}
