package auth

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cyhdev/forums/internal/codeerr"
	"github.com/cyhdev/forums/internal/response"
)

// UserIDContextKey is the gin context key holding the authenticated user id.
const UserIDContextKey = "auth_user_id"

// SessionMiddleware rejects requests without a live session and stores the
// owning user id in the context for handlers behind it.
func SessionMiddleware(sessions *SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(SessionCookieName)
		if err != nil {
			response.Fail(c, codeerr.NotLoggedIn)
			return
		}

		sessionID, err := uuid.Parse(raw)
		if err != nil {
			response.Fail(c, codeerr.NotLoggedIn.WithDetail(err))
			return
		}

		session, ok := sessions.Get(sessionID, time.Now().UTC())
		if !ok {
			response.Fail(c, codeerr.NotLoggedIn)
			return
		}

		c.Set(UserIDContextKey, session.UserID)
		c.Next()
	}
}

// GetUserID returns the authenticated user id set by SessionMiddleware.
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(UserIDContextKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
