package api

import (
	"alcyxob/fitness-community/internal/domain"
	"alcyxob/fitness-community/internal/session"
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"time"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"reactionTypes": func() []domain.ReactionType { return domain.ReactionTypes },
	"isActive": func(current *domain.ReactionType, t domain.ReactionType) bool {
		return current != nil && *current == t
	},
	"prettyJSON": func(raw json.RawMessage) string {
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return string(raw)
		}
		return buf.String()
	},
	"formatTime": func(t time.Time) string {
		return t.Local().Format("2006-01-02 15:04")
	},
}

func loadTemplates() *template.Template {
	return template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html"))
}

// renderPage renders a full page with the caller's session and any pending
// flash messages. extra flashes are shown without a round trip.
func renderPage(c *gin.Context, status int, name string, data gin.H, extra ...Flash) {
	if data == nil {
		data = gin.H{}
	}
	sess, _ := session.FromContext(c.Request.Context())
	data["Session"] = sess
	data["Flashes"] = append(takeFlashes(c), extra...)
	c.HTML(status, name, data)
}
