package v1

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// clientLimiter keeps one token bucket per client key. Buckets idle for longer
// than ttl are evicted by a sweep that runs at most once per ttl.
type clientLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
	buckets   map[string]*clientBucket
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiter(limit rate.Limit, burst int, ttl time.Duration) *clientLimiter {
	return &clientLimiter{
		limit:   limit,
		burst:   burst,
		ttl:     ttl,
		now:     time.Now,
		buckets: make(map[string]*clientBucket),
	}
}

func (l *clientLimiter) allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.ttl {
		l.sweep(now)
	}

	b := l.buckets[key]
	if b == nil {
		b = &clientBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

func (l *clientLimiter) sweep(now time.Time) {
	for k, b := range l.buckets {
		if now.Sub(b.lastSeen) > l.ttl {
			delete(l.buckets, k)
		}
	}
	l.lastSweep = now
}

// RateLimit returns a middleware allowing requestsPerMinute requests per client IP
// with bursts of up to burst requests. Throttled requests get 429.
func RateLimit(requestsPerMinute, burst int) gin.HandlerFunc {
	limiter := newClientLimiter(rate.Limit(float64(requestsPerMinute)/time.Minute.Seconds()), burst, 10*time.Minute)
	return rateLimit(limiter)
}

func rateLimit(limiter *clientLimiter) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !limiter.allow(ctx.ClientIP()) {
			abortWithMessage(ctx, http.StatusTooManyRequests, "rate limit exceeded, retry later")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
