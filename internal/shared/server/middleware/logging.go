package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"growth-intel/internal/shared/telemetry"
)

// companyIDKey is set by handlers that operate on a single target company.
const companyIDKey = "companyId"

// Logging emits one structured line per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000.0,
			"user_id":     UserIDFromContext(c),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if isGuest, ok := c.Get(isGuestKey); ok {
			fields["is_guest"] = isGuest
		}
		if companyID := c.GetString(companyIDKey); companyID != "" {
			fields["company_id"] = companyID
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		level := telemetry.Info
		if c.Writer.Status() >= http.StatusInternalServerError {
			level = telemetry.Warn
		}
		level("request.complete", fields)
	}
}

// SetCompanyID tags the request log line with the target company.
func SetCompanyID(c *gin.Context, companyID string) {
	if companyID != "" {
		c.Set(companyIDKey, companyID)
	}
}
