package api

import (
	"net/http"
	"sync"
	"time"

	"cosmossdk.io/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/paw-chain/router/app/telemetry"
)

// RateLimitMiddleware applies a token bucket per client IP.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	limiters := &sync.Map{}

	return func(c *gin.Context) {
		ip := c.ClientIP()

		limiterInterface, _ := limiters.LoadOrStore(ip, rate.NewLimiter(rate.Limit(rps), burst))
		limiter := limiterInterface.(*rate.Limiter)

		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error: "Rate limit exceeded",
				Code:  "RATE_LIMIT",
			})
			return
		}

		c.Next()
	}
}

// LoggerMiddleware logs each request at debug, and server errors at error.
func LoggerMiddleware(logger log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		kv := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
			"request_id", c.GetString("request_id"),
		}
		if status >= http.StatusInternalServerError {
			logger.Error("request failed", kv...)
			return
		}
		logger.Debug("request served", kv...)
	}
}

// RequestIDMiddleware adds a unique request ID to each request
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

// TracingMiddleware wraps each request in a server span.
func TracingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		ctx, span := telemetry.StartRequestSpan(c.Request.Context(), route)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if len(c.Errors) > 0 {
			telemetry.RecordError(span, c.Errors.Last())
		}
	}
}

// SecurityHeadersMiddleware adds security headers
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}
