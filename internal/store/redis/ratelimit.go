package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultRateLimitPrefix = "renewals:ratelimit:"

// FixedWindowLimiter counts requests per client in fixed windows shared by every
// API replica. Counters expire with their window.
type FixedWindowLimiter struct {
	rdb    redis.Cmdable
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

func NewFixedWindowLimiter(rdb redis.Cmdable, prefix string, limit int, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{rdb: rdb, prefix: prefix, limit: limit, window: window, now: time.Now}
}

func (l *FixedWindowLimiter) key(client string) string {
	slot := l.now().UnixNano() / int64(l.window)
	return l.prefix + client + ":" + strconv.FormatInt(slot, 10)
}

func (l *FixedWindowLimiter) Allow(ctx context.Context, client string) (bool, error) {
	key := l.key(client)

	var incr *redis.IntCmd
	_, err := l.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, key)
		p.Expire(ctx, key, l.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("ratelimit.incr: %w", err)
	}
	return incr.Val() <= int64(l.limit), nil
}
