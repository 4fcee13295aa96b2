// utils/ratelimit.go
package utils

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimitScope is a fixed-window budget: at most Max requests per Window
// for a given identifier.
type RateLimitScope struct {
	Max    int
	Window time.Duration
}

// Scopes are keyed by the name handed to Check / RateLimitMiddleware.
// Unknown scopes fall back to "general".
var Scopes = map[string]RateLimitScope{
	"booking":      {Max: 10, Window: time.Minute},
	"email":        {Max: 3, Window: time.Minute},
	"login":        {Max: 5, Window: 5 * time.Minute},
	"testimonials": {Max: 5, Window: time.Minute},
	"general":      {Max: 60, Window: time.Minute},
}

type RateLimitResult struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

type rateLimitEntry struct {
	count   int
	resetAt time.Time
}

// RateLimitStore holds per-(scope, identifier) counters. Single-process and
// best-effort only: nothing is persisted and nothing is coordinated across
// instances. Expired entries are reset lazily on access and removed by the
// periodic Sweep.
type RateLimitStore struct {
	mu      sync.Mutex
	entries map[string]*rateLimitEntry
	now     func() time.Time
}

func NewRateLimitStore() *RateLimitStore {
	return &RateLimitStore{
		entries: map[string]*rateLimitEntry{},
		now:     time.Now,
	}
}

// Check counts one request for identifier under scope and reports whether
// it fits the window budget. When rejected, RetryAfter is the time left
// until the window resets.
func (s *RateLimitStore) Check(scope, identifier string) RateLimitResult {
	cfg, ok := Scopes[scope]
	if !ok {
		cfg = Scopes["general"]
	}
	key := scope + ":" + identifier

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e := s.entries[key]
	if e == nil || !now.Before(e.resetAt) {
		s.entries[key] = &rateLimitEntry{count: 1, resetAt: now.Add(cfg.Window)}
		return RateLimitResult{Allowed: true, Remaining: cfg.Max - 1}
	}

	if e.count >= cfg.Max {
		return RateLimitResult{Allowed: false, RetryAfter: e.resetAt.Sub(now)}
	}
	e.count++
	return RateLimitResult{Allowed: true, Remaining: cfg.Max - e.count}
}

// Sweep drops expired entries so the map stays bounded. Run it from the
// background scheduler.
func (s *RateLimitStore) Sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, e := range s.entries {
		if !now.Before(e.resetAt) {
			delete(s.entries, key)
		}
	}
}

// RateLimitMiddleware rejects over-budget requests with 429 and a
// Retry-After header. The identifier is the client IP.
func RateLimitMiddleware(store *RateLimitStore, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := store.Check(scope, c.ClientIP())
		if !res.Allowed {
			seconds := int(res.RetryAfter / time.Second)
			if res.RetryAfter%time.Second != 0 {
				seconds++
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":        "too many requests",
				"retryAfterMs": res.RetryAfter.Milliseconds(),
			})
			return
		}
		c.Next()
	}
}
