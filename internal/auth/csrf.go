package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

// CSRFTokenHeader carries the CSRF token. Responses to safe methods expose
// the current token here; mutating requests must echo it back.
const CSRFTokenHeader = "X-CSRF-Token"

// CSRFMiddleware wraps gorilla/csrf for gin. Safe methods (GET, HEAD,
// OPTIONS, TRACE) pass through and receive a token; mutating requests
// without a matching token are rejected before reaching any handler.
func CSRFMiddleware(secret []byte, secure bool) gin.HandlerFunc {
	csrfProtect := csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteStrictMode),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(csrfErrorHandler)),
	)

	return func(c *gin.Context) {
		passed := false
		handler := csrfProtect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			passed = true
			c.Header(CSRFTokenHeader, csrf.Token(r))
			c.Request = r
			c.Next()
		}))

		handler.ServeHTTP(c.Writer, c.Request)

		// The wrapped handler never ran, so the request was rejected and the
		// error handler already wrote the response.
		if !passed {
			c.Abort()
		}
	}
}

// csrfErrorHandler rejects requests failing CSRF validation. The body keeps
// the envelope shape even though the request never reached a handler.
func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte(`{"success":false,"message":"CSRF token invalid or missing"}`))
}
