package api

import (
	"alcyxob/fitness-community/internal/domain"
	"alcyxob/fitness-community/internal/service"
	"alcyxob/fitness-community/internal/session"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// SessionMiddleware resolves the session cookie, if any, and stores the
// session in the request context. Invalid or revoked cookies are cleared and
// the request continues anonymously.
func SessionMiddleware(authService service.AuthService, cookies CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookies.Name)
		if err != nil || token == "" {
			c.Next()
			return
		}

		sess, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			clearSessionCookie(c, cookies)
			c.Next()
			return
		}

		c.Request = c.Request.WithContext(session.NewContext(c.Request.Context(), sess))
		c.Next()
	}
}

// RequireSessionJSON rejects anonymous callers with a 401 JSON body.
func RequireSessionJSON(message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := session.FromContext(c.Request.Context()); !ok {
			abortWithError(c, http.StatusUnauthorized, message)
			return
		}
		c.Next()
	}
}

// RequireSessionRedirect sends anonymous callers to the login page with a flash message.
func RequireSessionRedirect(category, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := session.FromContext(c.Request.Context()); !ok {
			addFlash(c, category, message)
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// IntParam rejects requests whose path parameter is not a positive integer
// with a 404, and stores the parsed value under the parameter's name.
func IntParam(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param(name), 10, 64)
		if err != nil || id <= 0 {
			abortWithError(c, http.StatusNotFound, "Not found")
			return
		}
		c.Set(name, id)
		c.Next()
	}
}

// currentSession returns the caller's session. Only call it behind a Require* middleware.
func currentSession(c *gin.Context) *domain.Session {
	sess, _ := session.FromContext(c.Request.Context())
	return sess
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"status": "error", "message": message})
}

func setSessionCookie(c *gin.Context, cookies CookieConfig, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cookies.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cookies.MaxAge.Seconds()),
		Secure:   cookies.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(c *gin.Context, cookies CookieConfig) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cookies.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   cookies.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
