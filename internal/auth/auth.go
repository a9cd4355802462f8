// Package auth implements the gate in front of the protected endpoints:
// API-key validation first, then per-client rate limiting. A request
// rejected for a missing or invalid key never consumes a rate-limit slot,
// so key guessing cannot starve a legitimate client's budget.
package auth

import (
	"log/slog"
	"net/http"
	"strconv"

	"texthub/internal/keystore"
	"texthub/internal/metrics"
	"texthub/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// APIKeyHeader carries the key on protected routes.
const APIKeyHeader = "X-API-Key"

// KeyKindContextKey is where the middleware stores the validated key's kind.
const KeyKindContextKey = "api_key_kind"

// Machine-distinguishable error kinds returned in rejection bodies.
const (
	ErrKindMissingKey  = "missing_api_key"
	ErrKindInvalidKey  = "invalid_api_key"
	ErrKindRateLimited = "rate_limit_exceeded"
)

// KeyValidator classifies a presented API key.
type KeyValidator interface {
	Validate(presented string) keystore.Kind
}

// Limiter decides whether a client may make another request right now.
type Limiter interface {
	Allow(key string) ratelimit.Result
}

// Middleware returns the auth gate for protected routes.
func Middleware(validator KeyValidator, limiter Limiter, m *metrics.Metrics, log *slog.Logger) gin.HandlerFunc {
	log = log.With("component", "auth")

	return func(c *gin.Context) {
		key := c.GetHeader(APIKeyHeader)
		if key == "" {
			m.AuthRejectionsTotal.WithLabelValues(ErrKindMissingKey).Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   ErrKindMissingKey,
				"detail":  "API key is required. Include an 'X-API-Key' header in your request.",
				"help":    "Get a demo API key from POST /api/generate-key",
			})
			return
		}

		kind := validator.Validate(key)
		if kind == keystore.KindInvalid {
			m.AuthRejectionsTotal.WithLabelValues(ErrKindInvalidKey).Inc()
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   ErrKindInvalidKey,
				"detail":  "The provided API key is not valid or has expired.",
				"help":    "Generate a new API key from POST /api/generate-key",
			})
			return
		}

		clientIP := c.ClientIP()
		result := limiter.Allow(clientIP)
		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		if !result.Allowed {
			m.RateLimitedTotal.Inc()
			log.Debug("Rate limit exceeded", "client_ip", clientIP, "key_kind", kind.String())
			retryAfter := int(result.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   ErrKindRateLimited,
				"detail":  "You have exceeded the rate limit. Please wait and try again.",
				"help":    "Retry after the number of seconds in the Retry-After header.",
			})
			return
		}

		c.Set(KeyKindContextKey, kind)
		c.Next()
	}
}
