package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cyhdev/forums/internal/audit"
	"github.com/cyhdev/forums/internal/auth"
	"github.com/cyhdev/forums/internal/codeerr"
	"github.com/cyhdev/forums/internal/response"
)

// AuditController lets a logged-in user review their own auth event history.
type AuditController struct {
	service *audit.Service
}

func NewAuditController(service *audit.Service) *AuditController {
	return &AuditController{service: service}
}

// ListEvents handles GET /api/audit/events, newest first, scoped to the
// authenticated user.
func (a *AuditController) ListEvents(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		response.Fail(c, codeerr.NotLoggedIn)
		return
	}

	limit, offset := parsePagination(c)

	events, total, err := a.service.GetEvents(&userID, limit, offset)
	if err != nil {
		response.Fail(c, codeerr.DBQuery.WithDetail(err))
		return
	}

	response.OK(c, http.StatusOK, gin.H{
		"events": events,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}
