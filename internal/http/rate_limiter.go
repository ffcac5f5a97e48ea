package http

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "github.com/allisson/formseal/internal/errors"
	"github.com/allisson/formseal/internal/httputil"
)

// RateLimiterStore keeps one token bucket per client key. Buckets idle for longer than the
// configured TTL are dropped by Evict, which Run calls periodically.
type RateLimiterStore struct {
	mu      sync.Mutex
	entries map[string]*rateLimiterEntry
	limit   rate.Limit
	burst   int
	ttl     time.Duration
}

type rateLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiterStore creates a store allowing rps sustained requests per key with the given burst.
func NewRateLimiterStore(rps float64, burst int, ttl time.Duration) *RateLimiterStore {
	return &RateLimiterStore{
		entries: make(map[string]*rateLimiterEntry),
		limit:   rate.Limit(rps),
		burst:   burst,
		ttl:     ttl,
	}
}

// Allow consumes one token for key at now. When the bucket is empty it returns false and the
// delay until a token becomes available.
func (s *RateLimiterStore) Allow(key string, now time.Time) (bool, time.Duration) {
	s.mu.Lock()
	entry, ok := s.entries[key]
	if !ok {
		entry = &rateLimiterEntry{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.entries[key] = entry
	}
	entry.lastSeen = now
	s.mu.Unlock()

	if entry.limiter.AllowN(now, 1) {
		return true, 0
	}

	reservation := entry.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, 0
	}
	delay := reservation.DelayFrom(now)
	reservation.CancelAt(now)
	return false, delay
}

// Evict removes entries not seen within the TTL and returns how many were removed.
func (s *RateLimiterStore) Evict(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.entries {
		if now.Sub(entry.lastSeen) > s.ttl {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (s *RateLimiterStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Run evicts stale entries every interval until ctx is done.
func (s *RateLimiterStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Evict(now)
		}
	}
}

// RateLimitMiddleware limits requests per client IP using store. Rejected requests get a 429
// with a Retry-After header in whole seconds.
func RateLimitMiddleware(store *RateLimiterStore, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		allowed, delay := store.Allow(clientIP, time.Now())
		if allowed {
			c.Next()
			return
		}

		retryAfter := int(math.Ceil(delay.Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}

		logger.DebugContext(c.Request.Context(), "rate limit exceeded",
			slog.String("client_ip", clientIP),
			slog.Int("retry_after", retryAfter))

		c.Header("Retry-After", strconv.Itoa(retryAfter))
		httputil.HandleErrorGin(c, apperrors.ErrTooManyRequests, nil)
		c.Abort()
	}
}
