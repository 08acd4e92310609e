package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyhdev/forums/internal/response"
)

func protectedRouter(sessions *SessionStore) *gin.Engine {
	router := gin.New()
	router.GET("/protected", SessionMiddleware(sessions), func(c *gin.Context) {
		userID, _ := GetUserID(c)
		response.OK(c, http.StatusOK, gin.H{"user_id": userID})
	})
	return router
}

func getWithCookie(router *gin.Engine, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSessionMiddlewareAllowsLiveSession(t *testing.T) {
	sessions := NewSessionStore()
	router := protectedRouter(sessions)

	userID := uuid.New()
	sessionID, err := sessions.Create(userID, time.Hour)
	require.NoError(t, err)

	w := getWithCookie(router, &http.Cookie{Name: SessionCookieName, Value: sessionID.String()})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestSessionMiddlewareRejects(t *testing.T) {
	sessions := NewSessionStore()
	router := protectedRouter(sessions)

	expiredID, err := sessions.Create(uuid.New(), -time.Minute)
	require.NoError(t, err)

	cases := []struct {
		name   string
		cookie *http.Cookie
	}{
		{"no cookie", nil},
		{"not a uuid", &http.Cookie{Name: SessionCookieName, Value: "garbage"}},
		{"unknown session", &http.Cookie{Name: SessionCookieName, Value: uuid.NewString()}},
		{"expired session", &http.Cookie{Name: SessionCookieName, Value: expiredID.String()}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := getWithCookie(router, tc.cookie)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "23", w.Header().Get("X-Error-Code"))
		})
	}
}
