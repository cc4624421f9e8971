package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deletes counters from the index whose updated_at is still at or before the
// cutoff. A counter touched since it was selected is left alone; its index
// score already moved forward.
var cleanupScript = redis.NewScript(`
local removed = 0
for _, key in ipairs(KEYS) do
  local updated = tonumber(redis.call('HGET', key, 'updated_at') or '0')
  if updated <= tonumber(ARGV[1]) then
    redis.call('DEL', key)
    redis.call('ZREM', ARGV[2], key)
    removed = removed + 1
  end
end
return removed
`)

// Janitor garbage-collects stale rate-limit counters
type Janitor struct {
	client *redis.Client
	now    func() time.Time
}

// NewJanitor creates a janitor for the counters written by Limiter
func NewJanitor(client *redis.Client) *Janitor {
	return &Janitor{client: client, now: time.Now}
}

// Cleanup deletes up to batch counters not updated within olderThan and returns
// how many were removed. One batch per call; leftovers wait for the next run.
func (j *Janitor) Cleanup(ctx context.Context, olderThan time.Duration, batch int) (int, error) {
	cutoff := j.now().Add(-olderThan).UnixMilli()

	keys, err := j.client.ZRangeByScore(ctx, IndexKey, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(cutoff, 10),
		Count: int64(batch),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("list stale counters: %w", err)
	}
	if len(keys) == 0 {
		return 0, nil
	}

	removed, err := cleanupScript.Run(ctx, j.client, keys, cutoff, IndexKey).Int()
	if err != nil {
		return 0, fmt.Errorf("delete stale counters: %w", err)
	}
	return removed, nil
}
