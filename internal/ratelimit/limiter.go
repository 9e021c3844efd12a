// Package ratelimit implements Twitter API rate limiting based on the
// x-rate-limit-* response headers.
package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Twitter rate limit header names.
const (
	headerLimit     = "X-Rate-Limit-Limit"
	headerRemaining = "X-Rate-Limit-Remaining"
	headerReset     = "X-Rate-Limit-Reset"
	headerRetry     = "Retry-After"
)

// Bucket represents a rate limit window for a specific API endpoint
type Bucket struct {
	Remaining int           // Requests remaining in current window
	Limit     int           // Total requests allowed per window
	ResetAt   time.Time     // When the window resets (Unix epoch in headers)
	limiter   *rate.Limiter // Token bucket pacing requests inside the window
	mu        sync.Mutex
}

// RateLimiter manages rate limit buckets per API endpoint
type RateLimiter struct {
	buckets map[string]*Bucket
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(logger *zap.Logger) *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*Bucket),
		logger:  logger,
	}
}

// getBucket retrieves or creates a bucket for an endpoint
func (rl *RateLimiter) getBucket(endpoint string) *Bucket {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if bucket, exists := rl.buckets[endpoint]; exists {
		return bucket
	}

	// Conservative default until the first response tells us the real
	// window: one request per second, small burst.
	bucket := &Bucket{
		Remaining: 5,
		Limit:     5,
		ResetAt:   time.Now().Add(1 * time.Second),
		limiter:   rate.NewLimiter(rate.Every(time.Second), 5),
	}

	rl.buckets[endpoint] = bucket
	return bucket
}

// Wait blocks until a request to the endpoint is allowed to proceed
func (rl *RateLimiter) Wait(ctx context.Context, endpoint string) error {
	bucket := rl.getBucket(endpoint)

	bucket.mu.Lock()
	if bucket.Remaining <= 0 && time.Now().Before(bucket.ResetAt) {
		waitDuration := time.Until(bucket.ResetAt)
		bucket.mu.Unlock()
		rl.logger.Warn("rate limit window exhausted, waiting",
			zap.String("endpoint", endpoint),
			zap.Duration("wait_duration", waitDuration),
		)
		select {
		case <-time.After(waitDuration):
		case <-ctx.Done():
			return ctx.Err()
		}
	} else {
		bucket.mu.Unlock()
	}

	if err := bucket.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait failed: %w", err)
	}

	return nil
}

// UpdateFromHeaders updates a bucket from the endpoint's response headers
func (rl *RateLimiter) UpdateFromHeaders(endpoint string, headers http.Header) {
	bucket := rl.getBucket(endpoint)

	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	if remaining := headers.Get(headerRemaining); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			bucket.Remaining = val
		}
	}

	if limit := headers.Get(headerLimit); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil {
			bucket.Limit = val
		}
	}

	// x-rate-limit-reset is a Unix epoch second
	if reset := headers.Get(headerReset); reset != "" {
		if val, err := strconv.ParseInt(reset, 10, 64); err == nil {
			bucket.ResetAt = time.Unix(val, 0)
		}
	}

	// Re-pace the token bucket across the remaining window
	if bucket.Limit > 0 {
		resetDuration := time.Until(bucket.ResetAt)
		if resetDuration > 0 {
			tokensPerSecond := float64(bucket.Limit) / resetDuration.Seconds()
			bucket.limiter = rate.NewLimiter(rate.Limit(tokensPerSecond), bucket.Limit)
		}
	}

	rl.logger.Debug("updated rate limit from headers",
		zap.String("endpoint", endpoint),
		zap.Int("remaining", bucket.Remaining),
		zap.Int("limit", bucket.Limit),
		zap.Time("reset_at", bucket.ResetAt),
	)
}

// HandleRateLimitResponse handles a 429 (rate limited) response
func (rl *RateLimiter) HandleRateLimitResponse(endpoint string, headers http.Header) error {
	bucket := rl.getBucket(endpoint)

	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	var retryAfter time.Duration
	if retry := headers.Get(headerRetry); retry != "" {
		if seconds, err := strconv.Atoi(retry); err == nil {
			retryAfter = time.Duration(seconds) * time.Second
		}
	}

	if retryAfter == 0 {
		if reset := headers.Get(headerReset); reset != "" {
			if val, err := strconv.ParseInt(reset, 10, 64); err == nil {
				retryAfter = time.Until(time.Unix(val, 0))
			}
		}
	}

	if retryAfter <= 0 {
		retryAfter = 1 * time.Second
	}

	bucket.Remaining = 0
	bucket.ResetAt = time.Now().Add(retryAfter)

	rl.logger.Warn("rate limited by Twitter API",
		zap.String("endpoint", endpoint),
		zap.Duration("retry_after", retryAfter),
	)

	return fmt.Errorf("rate limited, retry after %v", retryAfter)
}

// GetStatus returns the current rate limit status for an endpoint
func (rl *RateLimiter) GetStatus(endpoint string) (remaining int, limit int, resetAt time.Time) {
	bucket := rl.getBucket(endpoint)

	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	return bucket.Remaining, bucket.Limit, bucket.ResetAt
}

// Reset clears all rate limit buckets (useful for testing)
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.buckets = make(map[string]*Bucket)
}
