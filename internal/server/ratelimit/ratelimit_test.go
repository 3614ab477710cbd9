package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is advanced by hand so refills are deterministic
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(t *testing.T, cfg Config) (*Limiter, *fakeClock) {
	t.Helper()
	cfg.CleanupInterval = 0
	l := NewLimiter(cfg)
	t.Cleanup(l.Stop)
	clock := &fakeClock{t: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)}
	l.now = clock.now
	return l, clock
}

func TestLimiter_BurstThenRefill(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Optimize = Rule{Limit: 10, Window: time.Hour, Burst: 2}
	l, clock := newTestLimiter(t, cfg)

	for i := 0; i < 2; i++ {
		allowed, info := l.Allow("192.0.2.1", "POST", "/optimize")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
	}

	allowed, info := l.Allow("192.0.2.1", "POST", "/optimize")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Equal(t, 6*time.Minute, info.RetryAfter.Round(time.Second))

	clock.advance(7 * time.Minute)
	allowed, _ = l.Allow("192.0.2.1", "POST", "/optimize")
	assert.True(t, allowed, "one token refilled")
	allowed, _ = l.Allow("192.0.2.1", "POST", "/optimize")
	assert.False(t, allowed)
}

func TestLimiter_OptimizeEndpointsShareBucket(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Optimize = Rule{Limit: 1, Window: time.Hour}
	l, _ := newTestLimiter(t, cfg)

	allowed, _ := l.Allow("192.0.2.1", "POST", "/optimize")
	require.True(t, allowed)
	allowed, _ = l.Allow("192.0.2.1", "POST", "/optimize/stream")
	assert.False(t, allowed)

	allowed, _ = l.Allow("192.0.2.1", "POST", "/score")
	assert.True(t, allowed, "score has its own bucket")
	allowed, _ = l.Allow("198.51.100.7", "POST", "/optimize")
	assert.True(t, allowed, "other clients are unaffected")
}

func TestLimiter_Unlimited(t *testing.T) {
	tests := []struct {
		name   string
		cfg    func(*Config)
		client string
		method string
		path   string
	}{
		{"disabled", func(c *Config) { c.Enabled = false }, "192.0.2.1", "POST", "/optimize"},
		{"health check", func(c *Config) { c.Default = Rule{Limit: 1, Window: time.Hour} }, "192.0.2.1", "GET", "/health"},
		{"allowlisted client", func(c *Config) { c.Allowlist = []string{"10.0.0.1"} }, "10.0.0.1", "POST", "/optimize"},
		{"zero limit", func(c *Config) { c.Optimize = Rule{} }, "192.0.2.1", "POST", "/optimize"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Optimize = Rule{Limit: 1, Window: time.Hour}
			tt.cfg(&cfg)
			l, _ := newTestLimiter(t, cfg)

			for i := 0; i < 5; i++ {
				allowed, info := l.Allow(tt.client, tt.method, tt.path)
				require.True(t, allowed)
				assert.Zero(t, info.Limit)
			}
		})
	}
}

func TestLimiter_DefaultRuleForOtherRoutes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Default = Rule{Limit: 1, Window: time.Minute}
	l, _ := newTestLimiter(t, cfg)

	allowed, _ := l.Allow("192.0.2.1", "GET", "/profiles/data-engineer")
	require.True(t, allowed)
	allowed, _ = l.Allow("192.0.2.1", "GET", "/runs/abc")
	assert.False(t, allowed, "other routes share the default bucket")
}

func TestLimiter_CleanupDropsIdleBuckets(t *testing.T) {
	l, clock := newTestLimiter(t, DefaultConfig())
	l.Allow("192.0.2.1", "POST", "/optimize")
	l.Allow("198.51.100.7", "POST", "/score")
	require.Len(t, l.buckets, 2)

	clock.advance(30 * time.Minute)
	l.Allow("198.51.100.7", "POST", "/score")
	clock.advance(45 * time.Minute)
	l.cleanup()

	assert.Len(t, l.buckets, 1)
	assert.Contains(t, l.buckets, "198.51.100.7|score")
}

func TestLimiter_StopTwice(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CleanupInterval = time.Millisecond
	l := NewLimiter(cfg)
	assert.NotPanics(t, func() {
		l.Stop()
		l.Stop()
	})
}
