package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	flashCookieName = "flash"
	pendingFlashKey = "pendingFlashes"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string `json:"category"` // success, error or info
	Message  string `json:"message"`
}

// addFlash queues a message for the next page the client renders,
// normally the target of a redirect.
func addFlash(c *gin.Context, category, message string) {
	var pending []Flash
	if v, ok := c.Get(pendingFlashKey); ok {
		pending, _ = v.([]Flash)
	}
	pending = append(pending, Flash{Category: category, Message: message})
	c.Set(pendingFlashKey, pending)

	data, err := json.Marshal(pending)
	if err != nil {
		return
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeFlashes returns the queued messages and clears them.
func takeFlashes(c *gin.Context) []Flash {
	raw, err := c.Cookie(flashCookieName)
	if err != nil || raw == "" {
		return nil
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(data, &flashes); err != nil {
		return nil
	}
	return flashes
}
