package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter enforces per-client sliding-window limits. Clients are keyed by
// IP; the windows are in-memory, which is enough for a single-node deployment.
type RateLimiter struct {
	requestsPerMinute int
	requestsPerHour   int
	enabled           bool

	clients map[string]*clientWindows
	mu      sync.Mutex
}

type clientWindows struct {
	minuteWindow []time.Time
	hourWindow   []time.Time
}

// NewRateLimiter creates a new rate limiter with the given limits
func NewRateLimiter(requestsPerMinute, requestsPerHour int, enabled bool) *RateLimiter {
	return &RateLimiter{
		requestsPerMinute: requestsPerMinute,
		requestsPerHour:   requestsPerHour,
		enabled:           enabled,
		clients:           make(map[string]*clientWindows),
	}
}

// AllowRequest checks if a request from the given client is allowed.
// Returns true if allowed, false if rate limit exceeded
func (rl *RateLimiter) AllowRequest(clientKey string) bool {
	if !rl.enabled {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	client, ok := rl.clients[clientKey]
	if !ok {
		client = &clientWindows{}
		rl.clients[clientKey] = client
	}

	// Clean up old entries
	client.minuteWindow = filterTimes(client.minuteWindow, now.Add(-1*time.Minute))
	client.hourWindow = filterTimes(client.hourWindow, now.Add(-1*time.Hour))

	// Check limits
	if rl.requestsPerMinute > 0 && len(client.minuteWindow) >= rl.requestsPerMinute {
		return false
	}
	if rl.requestsPerHour > 0 && len(client.hourWindow) >= rl.requestsPerHour {
		return false
	}

	// Record the request
	client.minuteWindow = append(client.minuteWindow, now)
	client.hourWindow = append(client.hourWindow, now)

	return true
}

// filterTimes keeps only times after the cutoff
func filterTimes(times []time.Time, cutoff time.Time) []time.Time {
	result := make([]time.Time, 0, len(times))
	for _, t := range times {
		if t.After(cutoff) {
			result = append(result, t)
		}
	}
	return result
}

// Middleware rejects requests over the limit with 429. Used on the public
// tracking endpoint where anonymous spam would skew the counters.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.AllowRequest(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests",
			})
			return
		}
		c.Next()
	}
}

// Stats contains rate limiter statistics
type Stats struct {
	Enabled        bool `json:"enabled"`
	TrackedClients int  `json:"tracked_clients"`
	LimitPerMinute int  `json:"limit_per_minute"`
	LimitPerHour   int  `json:"limit_per_hour"`
}

// GetStats returns current rate limiter statistics
func (rl *RateLimiter) GetStats() Stats {
	if !rl.enabled {
		return Stats{Enabled: false}
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	return Stats{
		Enabled:        true,
		TrackedClients: len(rl.clients),
		LimitPerMinute: rl.requestsPerMinute,
		LimitPerHour:   rl.requestsPerHour,
	}
}

// Reset clears all tracked clients (useful for testing)
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.clients = make(map[string]*clientWindows)
}
