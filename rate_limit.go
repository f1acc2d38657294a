package senfi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitInfo holds the X-RateLimit-* headers of the last response that
// carried them. The Senfi API itself does not send these headers; they appear
// only when a gateway in front of it does, and are otherwise never set.
type RateLimitInfo struct {
	Limit     int       // Maximum requests allowed in the window
	Remaining int       // Requests remaining in current window
	Reset     time.Time // When the rate limit window resets
}

// RateLimitCallback is called when rate limit headers are received.
type RateLimitCallback func(RateLimitInfo)

// WithRateLimitCallback sets a callback that is invoked when rate limit
// headers are received.
func WithRateLimitCallback(callback RateLimitCallback) Option {
	return func(c *Client) {
		c.rateLimitCallback = callback
	}
}

// WithRateLimit throttles outgoing API calls on the client side to limit
// requests per second with the given burst. Token exchanges are not
// throttled.
//
// Example:
//
//	client := senfi.New(senfi.WithRateLimit(10, 5))
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) {
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(limit, burst)
	}
}

// waitRateLimit blocks until the limiter admits one call.
func (c *Client) waitRateLimit(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return newError(KindSDKException, "rate limit wait aborted: "+err.Error(), err)
	}
	return nil
}

// parseRateLimitHeaders extracts rate limit information from response headers.
func (c *Client) parseRateLimitHeaders(header http.Header) {
	limit := header.Get("X-RateLimit-Limit")
	remaining := header.Get("X-RateLimit-Remaining")
	reset := header.Get("X-RateLimit-Reset")

	if limit == "" && remaining == "" && reset == "" {
		return
	}

	info := RateLimitInfo{}
	if v, err := strconv.Atoi(limit); err == nil {
		info.Limit = v
	}
	if v, err := strconv.Atoi(remaining); err == nil {
		info.Remaining = v
	}
	if v, err := strconv.ParseInt(reset, 10, 64); err == nil {
		info.Reset = time.Unix(v, 0)
	}

	c.rateLimitMu.Lock()
	c.lastRateLimit = &info
	c.rateLimitMu.Unlock()

	if c.rateLimitCallback != nil {
		c.rateLimitCallback(info)
	}
}

// RateLimitInfo returns the most recent rate limit information from API responses.
// Returns nil if no rate limit headers have been received yet.
func (c *Client) RateLimitInfo() *RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	if c.lastRateLimit == nil {
		return nil
	}
	info := *c.lastRateLimit
	return &info
}

// ShouldThrottle returns true if the remaining server-side quota is below threshold.
func (c *Client) ShouldThrottle(threshold int) bool {
	info := c.RateLimitInfo()
	if info == nil {
		return false
	}
	return info.Remaining < threshold && info.Remaining >= 0
}
