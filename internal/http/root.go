package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cyhdev/forums/internal/codeerr"
	"github.com/cyhdev/forums/internal/database"
	"github.com/cyhdev/forums/internal/response"
)

// RootController reports server status from the index route.
type RootController struct {
	db    *database.Database
	stats *Stats
}

func NewRootController(db *database.Database, stats *Stats) *RootController {
	return &RootController{db: db, stats: stats}
}

// Status handles GET /. Reports uptime, throughput and database health so a
// single request answers "is it up and how is it doing".
func (r *RootController) Status(c *gin.Context) {
	sqlDB, err := r.db.DB.DB()
	if err != nil {
		response.Fail(c, codeerr.Pool.WithDetail(err))
		return
	}

	probeStart := time.Now()
	pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		response.Fail(c, codeerr.Pool.WithDetail(err))
		return
	}

	var dbVersion string
	err = r.db.DB.Raw("SELECT sqlite_version()").Scan(&dbVersion).Error
	dbLatency := time.Since(probeStart)
	if err != nil {
		response.Fail(c, codeerr.DBQuery.WithDetail(err))
		return
	}

	response.OK(c, http.StatusOK, gin.H{
		"timestamp":         time.Now().UTC(),
		"server_uptime":     r.stats.Uptime().String(),
		"responses_handled": r.stats.ResponsesHandled(),
		"db_version":        dbVersion,
		"db_latency":        dbLatency.String(),
	})
}

// Fallback answers every unmatched route. Deliberately a success envelope so
// path scanners learn nothing from the status code.
func Fallback(c *gin.Context) {
	response.OK(c, http.StatusOK, gin.H{
		"message": "Invalid path! Probes, go away.",
	})
}
