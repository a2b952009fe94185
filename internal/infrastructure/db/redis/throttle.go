package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Throttle is a fixed-window request counter backed by Redis.
// Key format: throttle:<key>:<window_start_unix>
type Throttle struct {
	client *redis.Client
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewThrottle allows limit requests per key within each window.
func NewThrottle(client *redis.Client, limit int, window time.Duration) *Throttle {
	return &Throttle{client: client, limit: int64(limit), window: window, now: time.Now}
}

// Allow counts one request for key and reports whether it is within the limit.
func (t *Throttle) Allow(ctx context.Context, key string) (bool, error) {
	k := t.key(key)

	n, err := t.client.Incr(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("throttle incr: %w", err)
	}
	if n == 1 {
		if err := t.client.Expire(ctx, k, t.window).Err(); err != nil {
			return false, fmt.Errorf("throttle expire: %w", err)
		}
	}
	return n <= t.limit, nil
}

func (t *Throttle) key(key string) string {
	start := t.now().Truncate(t.window).Unix()
	return fmt.Sprintf("throttle:%s:%d", key, start)
}
