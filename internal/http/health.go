package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cyhdev/forums/internal/auth"
	"github.com/cyhdev/forums/internal/database"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	db       *database.Database
	sessions *auth.SessionStore
	version  string
}

func NewHealthController(db *database.Database, sessions *auth.SessionStore, version string) *HealthController {
	return &HealthController{
		db:       db,
		sessions: sessions,
		version:  version,
	}
}

// Status handles GET /health. Unhealthy checks flip the HTTP status to 503
// so load balancers can act on it without parsing the body.
func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if h.db != nil {
		sqlDB, err := h.db.DB.DB()
		if err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else if err := sqlDB.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			status = "unhealthy"
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	if h.sessions != nil {
		checks["sessions"] = strconv.Itoa(h.sessions.Len()) + " live"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}
