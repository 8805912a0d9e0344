package ratelimit

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// UserIDLocalsKey is where the auth middleware stores the authenticated
// user id for rate limiting.
const UserIDLocalsKey = "user_id"

// MiddlewareConfig configures the per-user and per-IP limiters.
type MiddlewareConfig struct {
	UserConfig Config
	IPConfig   Config
	KeyPrefix  string
}

// DefaultMiddlewareConfig returns the default limiter configuration.
// The IP limit is deliberately higher than the user limit: many users can
// share one IP, while a single user id is always one caller.
func DefaultMiddlewareConfig() MiddlewareConfig {
	return MiddlewareConfig{
		UserConfig: Config{
			RequestsPerWindow: 120,
			WindowSize:        time.Minute,
		},
		IPConfig: Config{
			RequestsPerWindow: 300,
			WindowSize:        time.Minute,
		},
		KeyPrefix: "ratelimit:",
	}
}

// Middleware provides rate limiting middleware for Fiber.
type Middleware struct {
	userLimiter *SlidingWindowLimiter
	ipLimiter   *SlidingWindowLimiter
	config      MiddlewareConfig
}

// NewMiddleware creates a new rate limiting middleware.
func NewMiddleware(client *redis.Client, config MiddlewareConfig) *Middleware {
	return &Middleware{
		userLimiter: NewSlidingWindowLimiter(client, config.UserConfig, config.KeyPrefix+"user:"),
		ipLimiter:   NewSlidingWindowLimiter(client, config.IPConfig, config.KeyPrefix+"ip:"),
		config:      config,
	}
}

// IPRateLimit returns middleware that limits requests by client IP. It runs
// ahead of authentication, so unauthenticated traffic (including token
// guessing) is throttled before any token is verified.
// Limiter failures fail open: a broken Redis must not take the API down.
func (m *Middleware) IPRateLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.IP()
		if ip == "" {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":   "forbidden",
				"message": "Unable to determine client IP address",
			})
		}

		result, err := m.ipLimiter.Allow(c.Context(), ip)
		if err != nil {
			c.Set("X-RateLimit-Error", err.Error())
			return c.Next()
		}

		setRateLimitHeaders(c, result, m.config.IPConfig.RequestsPerWindow)

		if !result.Allowed {
			return sendRateLimitExceeded(c, result)
		}

		return c.Next()
	}
}

// UserRateLimit returns middleware that limits requests by authenticated
// user id. It must run after the auth middleware; when no user id was
// stored the request passes through, since a missing id means the chain is
// misconfigured and the limiter must not deny service on its own.
func (m *Middleware) UserRateLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals(UserIDLocalsKey).(string)
		if !ok || userID == "" {
			return c.Next()
		}

		result, err := m.userLimiter.Allow(c.Context(), userID)
		if err != nil {
			c.Set("X-RateLimit-Error", err.Error())
			return c.Next()
		}

		setRateLimitHeaders(c, result, m.config.UserConfig.RequestsPerWindow)

		if !result.Allowed {
			return sendRateLimitExceeded(c, result)
		}

		return c.Next()
	}
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(c *fiber.Ctx, result *Result, limit int) {
	c.Set("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

// sendRateLimitExceeded sends a 429 response with a Retry-After header.
func sendRateLimitExceeded(c *fiber.Ctx, result *Result) error {
	if result.RetryAfter > 0 {
		c.Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())+1))
	}
	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error":   "too_many_requests",
		"message": "Rate limit exceeded, slow down",
	})
}
