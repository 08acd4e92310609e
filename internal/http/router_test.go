package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditsvc "github.com/cyhdev/forums/internal/audit"
	"github.com/cyhdev/forums/internal/auth"
	"github.com/cyhdev/forums/internal/database"
	auditrepo "github.com/cyhdev/forums/internal/database/audit"
	"github.com/cyhdev/forums/internal/database/posts"
	"github.com/cyhdev/forums/internal/database/tokens"
	"github.com/cyhdev/forums/internal/database/users"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(t *testing.T) (*gin.Engine, func()) {
	dbPath := "./test_router_" + t.Name() + ".db"

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	sessions := auth.NewSessionStore()
	auditor := auditsvc.NewService(auditrepo.NewRepository(db.DB))
	service := auth.NewService(
		users.NewRepository(db.DB),
		tokens.NewRepository(db.DB),
		sessions,
		nil,
		auditor,
		auth.DefaultSessionTTL,
	)

	router := NewRouter(RouterConfig{
		Database:    db,
		AuthHandler: auth.NewHandler(service, false),
		Sessions:    sessions,
		PostsRepo:   posts.NewRepository(db.DB),
		Audit:       auditor,
		Version:     "test",
	})

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}

	return router, cleanup
}

type envelope struct {
	Success   bool           `json:"success"`
	Data      map[string]any `json:"data"`
	Meta      map[string]any `json:"meta"`
	ErrorCode *uint8         `json:"error_code"`
	Message   string         `json:"message"`
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, cookies ...*http.Cookie) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestFallbackRoute(t *testing.T) {
	router, cleanup := setupRouter(t)
	defer cleanup()

	w, env := doJSON(t, router, http.MethodGet, "/definitely/not/a/route", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Invalid path! Probes, go away.", env.Data["message"])
}

func TestRootStatus(t *testing.T) {
	router, cleanup := setupRouter(t)
	defer cleanup()

	w, env := doJSON(t, router, http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.Data["timestamp"])
	assert.NotEmpty(t, env.Data["server_uptime"])
	assert.NotEmpty(t, env.Data["db_version"])
	assert.NotEmpty(t, env.Data["db_latency"])
	assert.Contains(t, env.Data, "responses_handled")

	assert.NotEmpty(t, env.Meta["time_to_process"])
	assert.NotEmpty(t, env.Meta["timestamp"])
}

func TestHealthEndpoint(t *testing.T) {
	router, cleanup := setupRouter(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "ok", health.Checks["database"])
	assert.Equal(t, "test", health.Version)
}

func TestSecurityHeaders(t *testing.T) {
	router, cleanup := setupRouter(t)
	defer cleanup()

	w, _ := doJSON(t, router, http.MethodGet, "/", nil)

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'none'")
}

func TestErrorEnvelopeAndHeaders(t *testing.T) {
	router, cleanup := setupRouter(t)
	defer cleanup()

	w, env := doJSON(t, router, http.MethodPost, "/auth/login", map[string]string{
		"user_email":    "nobody@example.com",
		"user_password": "Sup3rSecret",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	require.NotNil(t, env.ErrorCode)
	assert.Equal(t, uint8(14), *env.ErrorCode)
	assert.Equal(t, "User not found!", env.Message)

	assert.Equal(t, "14", w.Header().Get("X-Error-Code"))
	assert.Equal(t, "404", w.Header().Get("X-Error-Status-Code"))
	assert.Equal(t, "INFO", w.Header().Get("X-Error-Log-Level"))
}

func TestSignupLoginLogoutOverHTTP(t *testing.T) {
	router, cleanup := setupRouter(t)
	defer cleanup()

	w, env := doJSON(t, router, http.MethodPost, "/auth/signup", map[string]string{
		"user_name":     "alice",
		"user_email":    "alice@example.com",
		"user_password": "Sup3rSecret",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice@example.com", env.Data["user_email"])
	assert.NotEmpty(t, env.Data["verify_by"])

	w, env = doJSON(t, router, http.MethodPost, "/auth/login", map[string]string{
		"user_email":    "alice@example.com",
		"user_password": "Sup3rSecret",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Login successful", env.Data["message"])

	cookie := sessionCookie(t, w)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)

	w, env = doJSON(t, router, http.MethodPost, "/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logout successful", env.Data["message"])

	removal := sessionCookie(t, w)
	assert.Equal(t, -1, removal.MaxAge)
	assert.Empty(t, removal.Value)
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	res := w.Result()
	defer res.Body.Close()
	for _, cookie := range res.Cookies() {
		if cookie.Name == auth.SessionCookieName {
			return cookie
		}
	}
	t.Fatal("session cookie not set")
	return nil
}
