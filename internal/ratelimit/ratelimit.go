// Package ratelimit enforces per-key request quotas with token buckets.
// Counting is process local: instances of the API do not share quota state.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/Hopeland-Systems-Capstone/Hopeland-Systems-API/internal/domain"
)

// DefaultWindow is the quota window for rate-limited keys.
const DefaultWindow = 10 * time.Second

// Registry keeps one token bucket per API key. Buckets are created lazily
// and never pruned; the population is bounded by the number of issued keys.
type Registry struct {
	mu      sync.Mutex
	window  time.Duration
	buckets map[string]*rate.Limiter
}

func NewRegistry() *Registry {
	return NewRegistryWithWindow(DefaultWindow)
}

func NewRegistryWithWindow(window time.Duration) *Registry {
	return &Registry{
		window:  window,
		buckets: make(map[string]*rate.Limiter),
	}
}

// Allow reports whether the key may make a request at its access level.
// Level 0 always passes, unknown levels never do, and level 1 gets its
// quota of requests per window.
func (r *Registry) Allow(key string, level int) bool {
	max, limited := domain.Quota(level)
	if !limited {
		return true
	}
	if max == 0 {
		return false
	}

	r.mu.Lock()
	bucket, ok := r.buckets[key]
	if !ok {
		bucket = rate.NewLimiter(rate.Every(r.window/time.Duration(max)), max)
		r.buckets[key] = bucket
	}
	r.mu.Unlock()

	return bucket.Allow()
}
