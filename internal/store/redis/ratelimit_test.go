package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedWindowLimiter_KeyBucketsByWindow(t *testing.T) {
	l := NewFixedWindowLimiter(nil, "rl:", 10, time.Minute)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	l.now = func() time.Time { return base }
	first := l.key("10.0.0.1")
	l.now = func() time.Time { return base.Add(59 * time.Second) }
	assert.Equal(t, first, l.key("10.0.0.1"))
	l.now = func() time.Time { return base.Add(61 * time.Second) }
	assert.NotEqual(t, first, l.key("10.0.0.1"))
	assert.Contains(t, first, "rl:10.0.0.1:")
}

// Runs against a live server when REDIS_TEST_ADDR is set.
func TestFixedWindowLimiter_Live(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	ctx := context.Background()
	c, err := NewClient(ctx, Config{Addr: addr})
	require.NoError(t, err)
	defer c.Close()

	l := NewFixedWindowLimiter(c.RDB, "renewals:test:"+t.Name()+":", 2, time.Minute)
	defer c.RDB.Del(ctx, l.key("client"))

	for i, want := range []bool{true, true, false} {
		ok, err := l.Allow(ctx, "client")
		require.NoError(t, err)
		assert.Equal(t, want, ok, "request %d", i+1)
	}
}
