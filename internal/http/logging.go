package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLoggingMiddleware logs every request twice: a RECV line when the
// request arrives and a RESP (or ERSP for failures) line when the response
// has been written. Failure severity comes from the X-Error-Log-Level header
// set by response.Fail; the diagnostic headers stay on the response.
func RequestLoggingMiddleware(logger *slog.Logger, stats *Stats) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		logger.Debug("RECV",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"client_ip", c.ClientIP(),
		)

		c.Next()

		stats.countResponse()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		header := c.Writer.Header()

		if errLevel := header.Get("X-Error-Log-Level"); errLevel != "" {
			attrs := []any{
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"status", status,
				"error_code", header.Get("X-Error-Code"),
				"error_message", header.Get("X-Error-Message"),
				"elapsed", elapsed.String(),
			}
			if detail := header.Get("X-Error-Detail"); detail != "" {
				attrs = append(attrs, "detail", detail)
			}
			logger.Log(c.Request.Context(), parseLevel(errLevel), "ERSP", attrs...)
			return
		}

		logger.Info("RESP",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"elapsed", elapsed.String(),
		)
	}
}

// parseLevel maps a slog level name back to the level. Unknown names log as
// errors so a bad header never hides a failure.
func parseLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelError
	}
	return level
}
