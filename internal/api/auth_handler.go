package api

import (
	"alcyxob/fitness-community/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
	cookies     CookieConfig
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

func (h *AuthHandler) RegisterForm(c *gin.Context) {
	renderPage(c, http.StatusOK, "register.html", gin.H{"Title": "Register"})
}

// Register creates an account from the registration form and redirects to
// the login page, or back to the form with the reason it was rejected.
func (h *AuthHandler) Register(c *gin.Context) {
	_, err := h.authService.Register(c.Request.Context(),
		c.PostForm("username"),
		c.PostForm("password"),
		c.PostForm("confirm_password"),
	)
	if err != nil {
		var message string
		switch {
		case errors.Is(err, service.ErrMissingFields):
			message = "Fill in all fields!"
		case errors.Is(err, service.ErrPasswordMismatch):
			message = "Passwords do not match!"
		case errors.Is(err, service.ErrUsernameTaken):
			message = "This username is already taken!"
		case errors.Is(err, service.ErrPasswordTooLong):
			message = "Password is too long!"
		default:
			logUnexpected(c, err)
			message = "Registration failed, please try again later."
		}
		addFlash(c, "error", message)
		c.Redirect(http.StatusFound, "/register")
		return
	}

	addFlash(c, "success", "Registration successful! You can now log in.")
	c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) LoginForm(c *gin.Context) {
	renderPage(c, http.StatusOK, "login.html", gin.H{"Title": "Login", "Username": ""})
}

// Login starts a session on success. On failure the form is shown again.
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	token, _, err := h.authService.Login(c.Request.Context(), username, c.PostForm("password"))
	if err != nil {
		message := "Invalid username or password."
		if !errors.Is(err, service.ErrAuthentication) {
			logUnexpected(c, err)
			message = "Login failed, please try again later."
		}
		renderPage(c, http.StatusOK, "login.html",
			gin.H{"Title": "Login", "Username": username},
			Flash{Category: "error", Message: message},
		)
		return
	}

	setSessionCookie(c, h.cookies, token)
	addFlash(c, "success", "Logged in succesfuly!")
	c.Redirect(http.StatusFound, "/")
}

// Logout always ends the session on the client, even if revoking it server side fails.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.cookies.Name); err == nil && token != "" {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			logrus.WithError(err).Warn("Failed to revoke session")
		}
	}
	clearSessionCookie(c, h.cookies)
	addFlash(c, "info", "Logged out")
	c.Redirect(http.StatusFound, "/")
}
