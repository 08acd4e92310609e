package auth

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cyhdev/forums/internal/response"
)

// SessionCookieName is the cookie carrying the session id.
const SessionCookieName = "session_id"

// Handler exposes the auth flows over HTTP.
type Handler struct {
	service       *Service
	secureCookies bool
}

// NewHandler creates the auth HTTP handler. secureCookies should be false
// only for plain-HTTP local development.
func NewHandler(service *Service, secureCookies bool) *Handler {
	return &Handler{service: service, secureCookies: secureCookies}
}

// RegisterRoutes mounts the auth endpoints under /auth.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	group := r.Group("/auth")
	group.POST("/signup", h.Signup)
	group.POST("/check-if-user-exists", h.CheckIfUserExists)
	group.POST("/login", h.Login)
	group.POST("/logout", h.Logout)
	group.POST("/verify-user-email", h.VerifyUserEmail)
	group.POST("/reset-password-request", h.ResetPasswordRequest)
	group.POST("/reset-password", h.ResetPassword)
}

// Signup handles POST /auth/signup.
//
// Malformed bodies fall through to field validation: a request that did not
// parse carries empty fields, and empty fields never validate.
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	_ = c.ShouldBindJSON(&req)

	result, cerr := h.service.Signup(c.Request.Context(), req, c.ClientIP())
	if cerr != nil {
		response.Fail(c, cerr)
		return
	}

	response.OK(c, http.StatusOK, gin.H{
		"user_name":  result.User.Name,
		"user_email": result.User.Email,
		"verify_by":  result.VerifyBy,
	})
}

type checkIfUserExistsRequest struct {
	Email string `json:"user_email"`
}

// CheckIfUserExists handles POST /auth/check-if-user-exists.
func (h *Handler) CheckIfUserExists(c *gin.Context) {
	var req checkIfUserExistsRequest
	_ = c.ShouldBindJSON(&req)

	exists, cerr := h.service.CheckEmailExists(c.Request.Context(), req.Email)
	if cerr != nil {
		response.Fail(c, cerr)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"email_exists": exists})
}

type loginRequest struct {
	Email    string `json:"user_email"`
	Password string `json:"user_password"`
}

// Login handles POST /auth/login. A stale session cookie from a previous
// login is removed before the new session is created; a cookie that does not
// parse as a uuid is ignored rather than trusted.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	_ = c.ShouldBindJSON(&req)

	var oldSessionID *uuid.UUID
	if raw, err := c.Cookie(SessionCookieName); err == nil {
		if id, err := uuid.Parse(raw); err == nil {
			oldSessionID = &id
		} else {
			log.Printf("Invalid session_id in submitted cookies: %v", err)
		}
	}

	result, cerr := h.service.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP(), oldSessionID)
	if cerr != nil {
		response.Fail(c, cerr)
		return
	}

	h.setSessionCookie(c, result.SessionID.String(), 0)

	response.OK(c, http.StatusOK, gin.H{
		"message": "Login successful",
		"user_id": result.User.ID,
	})
}

// Logout handles POST /auth/logout. Always succeeds: the cookie is expired
// on the client and the server-side removal runs in the background.
func (h *Handler) Logout(c *gin.Context) {
	if raw, err := c.Cookie(SessionCookieName); err == nil {
		if sessionID, err := uuid.Parse(raw); err == nil {
			userID := uuid.Nil
			if session, ok := h.service.Sessions().Get(sessionID, time.Now().UTC()); ok {
				userID = session.UserID
			}
			h.service.Logout(sessionID, userID, c.ClientIP())
		} else {
			log.Printf("Invalid session_id in submitted cookies: %v", err)
		}
	}

	h.setSessionCookie(c, "", -1)

	response.OK(c, http.StatusOK, gin.H{"message": "Logout successful"})
}

type verifyUserEmailRequest struct {
	Token uuid.UUID `json:"email_verification_token"`
}

// VerifyUserEmail handles POST /auth/verify-user-email.
func (h *Handler) VerifyUserEmail(c *gin.Context) {
	var req verifyUserEmailRequest
	_ = c.ShouldBindJSON(&req)

	result, cerr := h.service.VerifyEmail(c.Request.Context(), req.Token, c.ClientIP())
	if cerr != nil {
		response.Fail(c, cerr)
		return
	}

	response.OK(c, http.StatusOK, gin.H{
		"user_email":  result.Email,
		"verified_at": result.VerifiedAt,
	})
}

type resetPasswordRequestRequest struct {
	Email string `json:"user_email"`
}

// ResetPasswordRequest handles POST /auth/reset-password-request.
func (h *Handler) ResetPasswordRequest(c *gin.Context) {
	var req resetPasswordRequestRequest
	_ = c.ShouldBindJSON(&req)

	result, cerr := h.service.RequestPasswordReset(c.Request.Context(), req.Email, c.ClientIP())
	if cerr != nil {
		response.Fail(c, cerr)
		return
	}

	response.OK(c, http.StatusOK, gin.H{
		"user_email": result.Email,
		"verify_by":  result.VerifyBy,
	})
}

type resetPasswordRequest struct {
	Token       uuid.UUID `json:"password_reset_token"`
	NewPassword string    `json:"new_password"`
}

// ResetPassword handles POST /auth/reset-password.
func (h *Handler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	_ = c.ShouldBindJSON(&req)

	if cerr := h.service.ResetPassword(c.Request.Context(), req.Token, req.NewPassword, c.ClientIP()); cerr != nil {
		response.Fail(c, cerr)
		return
	}

	response.OK(c, http.StatusOK, gin.H{"message": "Password reset successful"})
}

// setSessionCookie writes the session cookie with the attributes every auth
// flow agrees on. maxAge 0 issues a browser-session cookie, -1 a removal.
func (h *Handler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}
