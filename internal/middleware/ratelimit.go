// Package middleware provides logging, metrics and rate limiting middleware
// for the HTTP layer.
package middleware

import (
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"quill/internal/models"
	"quill/internal/security"
)

// RateLimit returns a Fiber middleware enforcing `limit` requests per `window`
// against the given in-process limiter. It keys by authenticated userID (if
// set in c.Locals("userID")) otherwise by remote IP.
// Rate limiting is disabled when APP_ENV is "test" or "development" so dev
// workflows are not throttled.
func RateLimit(limiter *security.RateLimiter, limit int, window time.Duration, name ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch os.Getenv("APP_ENV") {
		case "", "test", "development":
			return c.Next()
		}

		var id string
		if uid := c.Locals("userID"); uid != nil {
			id = fmt.Sprintf("user:%v", uid)
		} else {
			id = "ip:" + c.IP()
		}

		// Use the provided name or the request path as the resource identifier
		resource := c.Path()
		if len(name) > 0 {
			resource = name[0]
		}

		if limiter.Check(resource+":"+id, limit, window) {
			return models.RespondError(c, models.NewRateLimitedError("Too many requests. Please try again later."))
		}
		return c.Next()
	}
}
