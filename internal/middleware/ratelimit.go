package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// RateKeyFunc picks the bucket a request is counted against.
type RateKeyFunc func(c *gin.Context) string

// ClientIPKey buckets requests by client address.
func ClientIPKey(c *gin.Context) string {
	return c.ClientIP()
}

// RateLimit counts each request against the bucket chosen by key and answers
// 429 with a Retry-After hint once the bucket is empty.
func RateLimit(l *limiter.Limiter, key RateKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())
		bucket := key(c)

		state, err := l.Get(c.Request.Context(), bucket)
		if err != nil {
			logger.Error("Rate limit store unavailable", slog.String("bucket", bucket), slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "rate limit check failed"})
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(state.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(state.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(state.Reset, 10))

		if state.Reached {
			wait := time.Until(time.Unix(state.Reset, 0))
			if wait < time.Second {
				wait = time.Second
			}
			c.Header("Retry-After", strconv.Itoa(int(wait.Round(time.Second).Seconds())))
			logger.Warn("Rate limit exceeded", slog.String("bucket", bucket), slog.Int64("limit", state.Limit))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}
