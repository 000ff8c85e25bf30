package api

import (
	"time"

	"fjacquet/finance-peres/internal/logging"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const loggerKey = "logger"

// RequestLogger injects a request-scoped logger carrying a fresh request id
// and logs the outcome of every request.
func RequestLogger(base logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()

		requestLogger := base.WithFields(
			logging.F(logging.FieldRequestID, requestID),
			logging.F("method", c.Request.Method),
			logging.F("path", c.Request.URL.Path),
		)

		c.Header("X-Request-ID", requestID)
		c.Set(loggerKey, requestLogger)

		c.Next()

		requestLogger.Info("Request completed",
			logging.F(logging.FieldStatus, c.Writer.Status()),
			logging.F(logging.FieldDuration, time.Since(start).Milliseconds()),
		)
	}
}

// loggerFrom returns the request-scoped logger, or fallback when the
// middleware did not run.
func loggerFrom(c *gin.Context, fallback logging.Logger) logging.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(logging.Logger); ok {
			return l
		}
	}
	return fallback
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type")
	corsConfig.AddExposeHeaders("Content-Length", "X-Request-ID", "Content-Disposition")
	return cors.New(corsConfig)
}
