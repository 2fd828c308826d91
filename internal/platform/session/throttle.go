package session

import (
	"sync"
	"time"
)

// LoginThrottle rate-limits login attempts per client IP with a token
// bucket. A zero rate disables throttling, which reproduces the original
// system's unlimited-retry behavior when parity is wanted.
type LoginThrottle struct {
	ratePerSec float64
	burst      int

	mu      sync.Mutex
	buckets map[string]*loginBucket
}

type loginBucket struct {
	tokens     float64
	lastRefill time.Time
}

// NewLoginThrottle builds a throttle allowing ratePerMin attempts per minute
// with the given burst. Returns nil when ratePerMin <= 0 (disabled); a nil
// throttle allows everything.
func NewLoginThrottle(ratePerMin float64, burst int) *LoginThrottle {
	if ratePerMin <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &LoginThrottle{
		ratePerSec: ratePerMin / 60,
		burst:      burst,
		buckets:    make(map[string]*loginBucket),
	}
}

// Allow reports whether another login attempt from the given key (client IP)
// may proceed.
func (t *LoginThrottle) Allow(key string) bool {
	if t == nil {
		return true
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	b, ok := t.buckets[key]
	if !ok {
		b = &loginBucket{tokens: float64(t.burst), lastRefill: now}
		t.buckets[key] = b
	}

	b.tokens += now.Sub(b.lastRefill).Seconds() * t.ratePerSec
	if b.tokens > float64(t.burst) {
		b.tokens = float64(t.burst)
	}
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}
