// Package response renders the API envelope. Successful responses carry the
// payload under data with processing metadata; failures carry a stable error
// code and message, with diagnostic headers for the logging middleware.
package response

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cyhdev/forums/internal/codeerr"
)

// Meta describes how a successful request was processed.
type Meta struct {
	TimeToProcess string    `json:"time_to_process"`
	Timestamp     time.Time `json:"timestamp"`
}

// Envelope is the wire format shared by all endpoints.
type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Meta      *Meta  `json:"meta,omitempty"`
	ErrorCode *uint8 `json:"error_code,omitempty"`
	Message   string `json:"message,omitempty"`
}

// startKey stores the request start time in the gin context.
const startKey = "response_start_time"

// TrackStart records the request start for time_to_process. Installed as the
// first middleware.
func TrackStart() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(startKey, time.Now())
		c.Next()
	}
}

// OK writes a successful envelope with the given payload and HTTP status.
func OK(c *gin.Context, status int, data any) {
	meta := &Meta{
		TimeToProcess: elapsed(c).String(),
		Timestamp:     time.Now().UTC(),
	}
	c.JSON(status, Envelope{Success: true, Data: data, Meta: meta})
}

// Fail writes an error envelope for e and sets the X-Error-* diagnostic
// headers read by the logging middleware. The wrapped detail goes into the
// headers only, never the body.
func Fail(c *gin.Context, e *codeerr.Error) {
	c.Header("X-Error-Code", fmt.Sprintf("%d", e.Code))
	c.Header("X-Error-Status-Code", fmt.Sprintf("%d", e.Status))
	c.Header("X-Error-Log-Level", e.Level.String())
	c.Header("X-Error-Message", e.Message)
	if detail := e.Detail(); detail != nil {
		c.Header("X-Error-Detail", detail.Error())
	}

	code := e.Code
	c.AbortWithStatusJSON(e.Status, Envelope{
		Success:   false,
		ErrorCode: &code,
		Message:   e.Message,
	})
}

func elapsed(c *gin.Context) time.Duration {
	if v, ok := c.Get(startKey); ok {
		if start, ok := v.(time.Time); ok {
			return time.Since(start)
		}
	}
	return 0
}
