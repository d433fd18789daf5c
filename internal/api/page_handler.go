package api

import (
	"alcyxob/fitness-community/internal/domain"
	"alcyxob/fitness-community/internal/service"
	"alcyxob/fitness-community/internal/session"
	"net/http"

	"github.com/gin-gonic/gin"
)

// PageHandler renders the HTML pages.
type PageHandler struct {
	planService  service.PlanService
	forumService service.ForumService
}

func NewPageHandler(planService service.PlanService, forumService service.ForumService) *PageHandler {
	return &PageHandler{planService: planService, forumService: forumService}
}

func (h *PageHandler) Home(c *gin.Context) {
	renderPage(c, http.StatusOK, "main.html", nil)
}

func (h *PageHandler) Survey(c *gin.Context) {
	renderPage(c, http.StatusOK, "survey.html", gin.H{"Title": "Survey"})
}

// Plans lists the caller's saved plans, newest first.
func (h *PageHandler) Plans(c *gin.Context) {
	plans, err := h.planService.ListPlans(c.Request.Context(), currentSession(c).UserID)
	if err != nil {
		logUnexpected(c, err)
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}
	renderPage(c, http.StatusOK, "results.html", gin.H{"Title": "Your plans", "Plans": plans})
}

func (h *PageHandler) Forum(c *gin.Context) {
	viewer, _ := sessionFrom(c)
	posts, err := h.forumService.ForumView(c.Request.Context(), viewer)
	if err != nil {
		logUnexpected(c, err)
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}
	renderPage(c, http.StatusOK, "forum.html", gin.H{"Title": "Forum", "Posts": posts})
}

// sessionFrom returns the optional session of the caller.
func sessionFrom(c *gin.Context) (*domain.Session, bool) {
	return session.FromContext(c.Request.Context())
}
