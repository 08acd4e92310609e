package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cyhdev/forums/internal/entities"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupHandler(t *testing.T) (*gin.Engine, *Service, *gorm.DB, func()) {
	service, db, _, cleanup := setupService(t)

	router := gin.New()
	NewHandler(service, false).RegisterRoutes(router)

	return router, service, db, cleanup
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHandlerSignup(t *testing.T) {
	router, _, _, cleanup := setupHandler(t)
	defer cleanup()

	w := postJSON(t, router, "/auth/signup", map[string]string{
		"user_name":     "alice",
		"user_email":    "alice@example.com",
		"user_password": "Sup3rSecret",
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])

	data := body["data"].(map[string]any)
	assert.Equal(t, "alice", data["user_name"])
	assert.Equal(t, "alice@example.com", data["user_email"])
	assert.NotEmpty(t, data["verify_by"])
}

func TestHandlerSignupMalformedBody(t *testing.T) {
	router, _, _, cleanup := setupHandler(t)
	defer cleanup()

	// A body that does not parse leaves every field empty, and an empty
	// username never validates.
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "3", w.Header().Get("X-Error-Code"))

	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, float64(3), body["error_code"])
}

func TestHandlerCheckIfUserExists(t *testing.T) {
	router, service, _, cleanup := setupHandler(t)
	defer cleanup()

	w := postJSON(t, router, "/auth/check-if-user-exists", map[string]string{
		"user_email": "alice@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, false, data["email_exists"])

	signup(t, service)

	w = postJSON(t, router, "/auth/check-if-user-exists", map[string]string{
		"user_email": "alice@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, true, data["email_exists"])
}

func TestHandlerLoginSetsSessionCookie(t *testing.T) {
	router, service, _, cleanup := setupHandler(t)
	defer cleanup()

	signup(t, service)

	w := postJSON(t, router, "/auth/login", map[string]string{
		"user_email":    "alice@example.com",
		"user_password": "Sup3rSecret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	res := w.Result()
	defer res.Body.Close()
	cookies := res.Cookies()
	require.Len(t, cookies, 1)

	cookie := cookies[0]
	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, 0, cookie.MaxAge)

	sessionID, err := uuid.Parse(cookie.Value)
	require.NoError(t, err)
	_, ok := service.Sessions().Get(sessionID, time.Now().UTC())
	assert.True(t, ok)
}

func TestHandlerLoginWrongPassword(t *testing.T) {
	router, service, _, cleanup := setupHandler(t)
	defer cleanup()

	signup(t, service)

	w := postJSON(t, router, "/auth/login", map[string]string{
		"user_email":    "alice@example.com",
		"user_password": "Wr0ngPassword",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "15", w.Header().Get("X-Error-Code"))

	res := w.Result()
	defer res.Body.Close()
	assert.Empty(t, res.Cookies())
}

func TestHandlerLogout(t *testing.T) {
	router, service, _, cleanup := setupHandler(t)
	defer cleanup()

	user := signup(t, service)
	sessionID, err := service.Sessions().Create(user.ID, time.Hour)
	require.NoError(t, err)

	w := postJSON(t, router, "/auth/logout", nil, &http.Cookie{
		Name:  SessionCookieName,
		Value: sessionID.String(),
	})
	require.Equal(t, http.StatusOK, w.Code)

	res := w.Result()
	defer res.Body.Close()
	cookies := res.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.Empty(t, cookies[0].Value)

	// Server-side removal happens in the background.
	assert.Eventually(t, func() bool {
		_, ok := service.Sessions().Get(sessionID, time.Now().UTC())
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHandlerLogoutWithoutCookie(t *testing.T) {
	router, _, _, cleanup := setupHandler(t)
	defer cleanup()

	// Logout is idempotent from the client's point of view.
	w := postJSON(t, router, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, "Logout successful", data["message"])
}

func TestHandlerVerifyUserEmail(t *testing.T) {
	router, service, db, cleanup := setupHandler(t)
	defer cleanup()

	user := signup(t, service)

	var token entities.EmailVerificationToken
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&token).Error)

	w := postJSON(t, router, "/auth/verify-user-email", map[string]string{
		"email_verification_token": token.Token.String(),
	})
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, "alice@example.com", data["user_email"])
	assert.NotEmpty(t, data["verified_at"])
}

func TestHandlerResetPasswordRoundTrip(t *testing.T) {
	router, service, db, cleanup := setupHandler(t)
	defer cleanup()

	signup(t, service)

	w := postJSON(t, router, "/auth/reset-password-request", map[string]string{
		"user_email": "alice@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, "alice@example.com", data["user_email"])
	assert.NotEmpty(t, data["verify_by"])

	var token entities.PasswordResetToken
	require.NoError(t, db.First(&token).Error)

	w = postJSON(t, router, "/auth/reset-password", map[string]string{
		"password_reset_token": token.Token.String(),
		"new_password":         "N3wPassword",
	})
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeBody(t, w)["data"].(map[string]any)
	assert.Equal(t, "Password reset successful", data["message"])

	w = postJSON(t, router, "/auth/login", map[string]string{
		"user_email":    "alice@example.com",
		"user_password": "N3wPassword",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}
