package middleware

import (
	"net/http"
	"time"

	"socialpulse/internal"
	"socialpulse/internal/dataset"

	"github.com/gin-gonic/gin"
)

// StatusReporter exposes the dataset load state
type StatusReporter interface {
	Status() dataset.Status
}

// RequireReady answers 503 with the load state until the dataset is ready.
// A failed load stays unavailable and reports the failure message.
func RequireReady(store StatusReporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := store.Status()
		if status.State == dataset.StateReady {
			c.Next()
			return
		}

		message := "Dataset is still loading"
		if status.State == dataset.StateFailed {
			message = "Dataset failed to load: " + status.Error
		}
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"error":  message,
			"code":   "NOT_READY",
			"status": status,
		})
	}
}

// RequestLogger logs one line per request at info level, or warn for 5xx responses
func RequestLogger(logger *internal.Logger) gin.HandlerFunc {
	logger = logger.WithComponent("Server")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		line := logger.WithField("status", status).WithField("latency", time.Since(start).String())
		if status >= http.StatusInternalServerError {
			line.Warn("%s %s", c.Request.Method, c.Request.URL.Path)
			return
		}
		line.Info("%s %s", c.Request.Method, c.Request.URL.Path)
	}
}
