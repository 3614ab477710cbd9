// Package ratelimit limits API requests per client with token buckets.
package ratelimit

import (
	"sync"
	"time"
)

// staleAfter is how long an idle bucket is kept before cleanup drops it
const staleAfter = time.Hour

// bucket refills at Limit/Window tokens per second up to its capacity
type bucket struct {
	capacity   float64
	refillRate float64
	tokens     float64
	lastRefill time.Time
}

func newBucket(rule Rule, now time.Time) *bucket {
	capacity := float64(rule.capacity())
	return &bucket{
		capacity:   capacity,
		refillRate: float64(rule.Limit) / rule.Window.Seconds(),
		tokens:     capacity,
		lastRefill: now,
	}
}

// take refills the bucket, then consumes a token when one is available
func (b *bucket) take(now time.Time) bool {
	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens = min(b.capacity, b.tokens+elapsed*b.refillRate)
	b.lastRefill = now
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// untilToken is the wait before the next token is available
func (b *bucket) untilToken() time.Duration {
	if b.tokens >= 1 {
		return 0
	}
	return time.Duration((1 - b.tokens) / b.refillRate * float64(time.Second))
}

// Info describes the limit applied to one request
type Info struct {
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter tracks one bucket per client and endpoint group
type Limiter struct {
	cfg       Config
	allowlist map[string]bool
	now       func() time.Time

	mu       sync.Mutex
	buckets  map[string]*bucket
	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a limiter. When enabled with a cleanup interval it runs a
// goroutine that drops idle buckets until Stop is called.
func NewLimiter(cfg Config) *Limiter {
	l := &Limiter{
		cfg:       cfg,
		allowlist: make(map[string]bool, len(cfg.Allowlist)),
		now:       time.Now,
		buckets:   make(map[string]*bucket),
		stop:      make(chan struct{}),
	}
	for _, ip := range cfg.Allowlist {
		l.allowlist[ip] = true
	}
	if cfg.Enabled && cfg.CleanupInterval > 0 {
		go l.cleanupLoop(cfg.CleanupInterval)
	}
	return l
}

// Allow reports whether clientID may make a method request to path
func (l *Limiter) Allow(clientID, method, path string) (bool, Info) {
	if !l.cfg.Enabled || l.allowlist[clientID] {
		return true, Info{}
	}
	group, rule := l.cfg.ruleFor(method, path)
	if rule.Limit <= 0 || rule.Window <= 0 {
		return true, Info{}
	}

	now := l.now()
	key := clientID + "|" + group

	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[key]
	if !ok {
		b = newBucket(rule, now)
		l.buckets[key] = b
	}
	allowed := b.take(now)

	info := Info{Limit: rule.Limit, Remaining: int(b.tokens)}
	if !allowed {
		info.RetryAfter = b.untilToken()
	}
	return allowed, info
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *Limiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stop:
			return
		}
	}
}

// cleanup drops buckets idle for longer than staleAfter
func (l *Limiter) cleanup() {
	cutoff := l.now().Add(-staleAfter)
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if b.lastRefill.Before(cutoff) {
			delete(l.buckets, key)
		}
	}
}
