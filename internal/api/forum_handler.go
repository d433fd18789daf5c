package api

import (
	"alcyxob/fitness-community/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ForumHandler struct {
	forumService service.ForumService
}

func NewForumHandler(forumService service.ForumService) *ForumHandler {
	return &ForumHandler{forumService: forumService}
}

// AddPost publishes the form content and returns to the forum.
func (h *ForumHandler) AddPost(c *gin.Context) {
	_, err := h.forumService.AddPost(c.Request.Context(), currentSession(c).UserID, c.PostForm("content"))
	if err != nil {
		h.flashError(c, err, "Post cannot be empty.")
	}
	c.Redirect(http.StatusFound, "/forum")
}

func (h *ForumHandler) AddComment(c *gin.Context) {
	_, err := h.forumService.AddComment(c.Request.Context(), currentSession(c).UserID, c.GetInt64("post_id"), c.PostForm("content"))
	if err != nil {
		h.flashError(c, err, "Comment cannot be empty.")
	}
	c.Redirect(http.StatusFound, "/forum")
}

// React toggles a reaction and answers with the post's new reaction totals.
func (h *ForumHandler) React(c *gin.Context) {
	summary, err := h.forumService.ApplyReaction(c.Request.Context(),
		currentSession(c).UserID,
		c.GetInt64("post_id"),
		c.Param("reaction_type"),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":         "success",
		"counts":         summary.Counts,
		"current_active": summary.CurrentActive,
		"post_id":        summary.PostID,
	})
}

func (h *ForumHandler) DeletePost(c *gin.Context) {
	err := h.forumService.DeletePost(c.Request.Context(), currentSession(c).UserID, c.GetInt64("post_id"))
	switch {
	case err == nil:
		addFlash(c, "success", "Post deleted successfully.")
	case errors.Is(err, service.ErrPermission):
		addFlash(c, "error", "You cannot delete this post.")
	default:
		logUnexpected(c, err)
		addFlash(c, "error", "Something went wrong, please try again.")
	}
	c.Redirect(http.StatusFound, "/forum")
}

func (h *ForumHandler) DeleteComment(c *gin.Context) {
	err := h.forumService.DeleteComment(c.Request.Context(), currentSession(c).UserID, c.GetInt64("comment_id"))
	switch {
	case err == nil:
		addFlash(c, "success", "Comment deleted.")
	case errors.Is(err, service.ErrPermission):
		addFlash(c, "error", "You cannot delete this comment.")
	default:
		logUnexpected(c, err)
		addFlash(c, "error", "Something went wrong, please try again.")
	}
	c.Redirect(http.StatusFound, "/forum")
}

// ForumJSON serves the same data as the forum page.
func (h *ForumHandler) ForumJSON(c *gin.Context) {
	viewer, _ := sessionFrom(c)
	posts, err := h.forumService.ForumView(c.Request.Context(), viewer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "posts": posts})
}

func (h *ForumHandler) flashError(c *gin.Context, err error, emptyMessage string) {
	switch {
	case errors.Is(err, service.ErrEmptyContent):
		addFlash(c, "error", emptyMessage)
	case errors.Is(err, service.ErrPostNotFound):
		addFlash(c, "error", "Post not found.")
	default:
		logUnexpected(c, err)
		addFlash(c, "error", "Something went wrong, please try again.")
	}
}
