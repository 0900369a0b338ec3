package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/taravadumane/portal-backend/internal/models"
	"github.com/taravadumane/portal-backend/internal/service"
	"github.com/taravadumane/portal-backend/pkg/apperror"
)

// clientIP resolves the caller's address behind the reverse proxy. An
// unresolvable address still gets limited, under a shared bucket.
func clientIP(c *fiber.Ctx) string {
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	if realIP := strings.TrimSpace(c.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	if ip := c.IP(); ip != "" {
		return ip
	}
	return "unknown"
}

// IPRateLimit enforces a fixed-window per-IP limit for one route.
func IPRateLimit(limiter *service.RateLimitService, routeKey string, maxRequests int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := limiter.Enforce(routeKey, clientIP(c), maxRequests, window)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("Something went wrong"))
		}
		if !result.Allowed {
			limitErr := apperror.RateLimited("Too many requests. Please try again later.", result.RetryAfterSeconds)
			c.Set("Retry-After", strconv.Itoa(limitErr.RetryAfterSeconds))
			return c.Status(apperror.StatusCode(limitErr)).JSON(models.ErrorResponse(limitErr.Message))
		}
		return c.Next()
	}
}
