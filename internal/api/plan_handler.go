package api

import (
	"alcyxob/fitness-community/internal/service"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	planService service.PlanService
}

func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// SavePlanRequest is the body the survey page posts. Age is whatever the page
// produced: a number, a numeric string or null.
type SavePlanRequest struct {
	Name  string          `json:"name"`
	Age   json.RawMessage `json:"age"`
	Level string          `json:"level"`
	Plan  json.RawMessage `json:"plan"`
}

// parseAge accepts JSON numbers and numeric strings. Anything else is no age.
func parseAge(raw json.RawMessage) *int {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var number float64
	if err := json.Unmarshal(raw, &number); err != nil {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil
		}
		if number, err = strconv.ParseFloat(strings.TrimSpace(text), 64); err != nil {
			return nil
		}
	}
	if math.IsNaN(number) || math.IsInf(number, 0) || number < 0 || number > math.MaxInt32 {
		return nil
	}
	age := int(number)
	return &age
}

func (h *PlanHandler) SavePlan(c *gin.Context) {
	var req SavePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	plan, err := h.planService.SavePlan(c.Request.Context(), currentSession(c).UserID, service.PlanInput{
		Name:  req.Name,
		Age:   parseAge(req.Age),
		Level: req.Level,
		Plan:  req.Plan,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Plan saved successfully!", "id": plan.ID})
}

func (h *PlanHandler) ListPlans(c *gin.Context) {
	plans, err := h.planService.ListPlans(c.Request.Context(), currentSession(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "plans": plans})
}

// DeletePlan reports success whether or not a plan owned by the caller existed.
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	if err := h.planService.DeletePlan(c.Request.Context(), currentSession(c).UserID, c.GetInt64("plan_id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (h *PlanHandler) ExportPlan(c *gin.Context) {
	url, err := h.planService.ExportPlan(c.Request.Context(), currentSession(c).UserID, c.GetInt64("plan_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "url": url})
}
