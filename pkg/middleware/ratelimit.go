package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Suhaibinator/LRouter/pkg/common"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Unique identifier for this rate limit bucket.
	// Routers sharing the same BucketName share the same rate limit.
	BucketName string

	// Maximum number of requests allowed in the time window
	Limit int

	// Time window for the rate limit (e.g., 1 minute, 1 hour)
	Window time.Duration

	// KeyExtractor identifies the client being limited. If nil, the client
	// IP recorded by ClientIPMiddleware is used, falling back to a single
	// shared key when no IP is available.
	KeyExtractor func(req *common.Request) string

	// Handler invoked when the rate limit is exceeded.
	// If nil, a default 429 Too Many Requests JSON response is sent.
	ExceededHandler common.HandlerFunc
}

// RateLimiter defines the interface for rate limiting algorithms
type RateLimiter interface {
	// Allow checks if a request identified by key is allowed under the
	// given limit and window. It returns whether the request may proceed
	// and the time until the window resets.
	Allow(key string, limit int, window time.Duration) (bool, time.Duration)
}

// UberRateLimiter implements RateLimiter using Uber's ratelimit library for
// pacing, with a per-window counter on top so exceeded requests are rejected
// rather than queued.
type UberRateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rateBucket
}

type rateBucket struct {
	limiter     ratelimit.Limiter
	windowStart time.Time
	count       int
}

// NewUberRateLimiter creates a new rate limiter using Uber's ratelimit library
func NewUberRateLimiter() *UberRateLimiter {
	return &UberRateLimiter{buckets: make(map[string]*rateBucket)}
}

// Allow checks if a request is allowed based on the key and rate limit config
func (u *UberRateLimiter) Allow(key string, limit int, window time.Duration) (bool, time.Duration) {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Second
	}

	u.mu.Lock()
	bucket, ok := u.buckets[key]
	now := time.Now()
	if !ok {
		rps := int(float64(limit) / window.Seconds())
		if rps < 1 {
			rps = 1
		}
		// Default slack lets an initial burst through without pacing
		// delay; the window counter is what enforces the hard limit.
		bucket = &rateBucket{
			limiter:     ratelimit.New(rps),
			windowStart: now,
		}
		u.buckets[key] = bucket
	}

	// Reset the counter when the window has rolled over.
	if now.Sub(bucket.windowStart) > window {
		bucket.windowStart = now
		bucket.count = 0
	}

	bucket.count++
	count := bucket.count
	reset := window - now.Sub(bucket.windowStart)
	limiter := bucket.limiter
	u.mu.Unlock()

	if count > limit {
		return false, reset
	}

	// Pace allowed requests through the leaky bucket.
	limiter.Take()
	return true, reset
}

// RateLimit creates a middleware that enforces rate limits. Requests over
// the limit are finished with a 429 JSON response, or handed to the
// configured ExceededHandler.
func RateLimit(config *RateLimitConfig, limiter RateLimiter, logger *zap.Logger) common.Middleware {
	return func(ctx context.Context, req *common.Request, res *common.Response, next common.Next) {
		// Skip rate limiting if config is nil
		if config == nil {
			next(nil)
			return
		}

		var key string
		if config.KeyExtractor != nil {
			key = config.KeyExtractor(req)
		} else {
			key = ClientIP(req)
		}
		if key == "" {
			key = "global"
		}

		// Combine bucket name and key to create a unique identifier
		bucketKey := config.BucketName + ":" + key

		allowed, reset := limiter.Allow(bucketKey, config.Limit, config.Window)
		if !allowed {
			logger.Warn("Rate limit exceeded",
				zap.String("method", req.Method),
				zap.String("path", req.Path),
				zap.String("key", key),
				zap.Int("limit", config.Limit),
				zap.Duration("reset", reset),
			)

			if config.ExceededHandler != nil {
				config.ExceededHandler(ctx, req, res)
				return
			}
			res.Status(http.StatusTooManyRequests).JSON(map[string]string{"message": "too many requests"})
			return
		}

		next(nil)
	}
}
