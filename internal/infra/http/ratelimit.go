package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"ompserver/internal/domain"
)

// enforceRateLimit applies a fixed per-client-IP window. Limiter failures
// fail open: a broken redis should not take the API down with it.
func (s *Server) enforceRateLimit(c *gin.Context) {
	if s.rateLimiter == nil || s.rateLimitPerMin <= 0 {
		c.Next()
		return
	}
	key := "ip:" + c.ClientIP()
	decision, err := s.rateLimiter.Allow(c.Request.Context(), key, s.rateLimitPerMin, s.rateLimitWindow())
	if err != nil {
		c.Next()
		return
	}
	writeRateLimitHeaders(c, decision)
	if !decision.Allowed {
		writeError(c, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}
	c.Next()
}

func writeRateLimitHeaders(c *gin.Context, decision domain.RateLimitDecision) {
	if decision.Limit > 0 {
		c.Header("RateLimit-Limit", strconv.Itoa(decision.Limit))
	}
	if decision.Remaining >= 0 {
		c.Header("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	}
	if !decision.ResetAt.IsZero() {
		c.Header("RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))
		if !decision.Allowed {
			retryAfter := int64(time.Until(decision.ResetAt).Seconds())
			if retryAfter < 0 {
				retryAfter = 0
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
		}
	}
}

// limitPayload caps request bodies at the configured size.
func (s *Server) limitPayload(c *gin.Context) {
	if s.maxPayloadBytes > 0 && c.Request.Body != nil {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxPayloadBytes)
	}
	c.Next()
}
