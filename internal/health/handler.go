package health

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/BasharSaadi/fitness-club-project/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// LogMetric godoc
// @Summary      Record a health metric
// @Description  Inserts the measurement and updates matching active goals in the same transaction.
// @Tags         health
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      LogMetricRequest  true  "Measurements"
// @Success      201      {object}  Metric
// @Failure      400      {object}  api.ErrorResponse
// @Router       /health-metrics [post]
func (h *Handler) LogMetric(c *gin.Context) {
	memberID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req LogMetricRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, updates, err := h.service.LogMetric(c.Request.Context(), memberID, req)
	if err != nil {
		if errors.Is(err, ErrNoMeasurements) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record metric"})
		return
	}

	completed := 0
	for _, u := range updates {
		if u.Completed {
			completed++
		}
	}
	c.JSON(http.StatusCreated, gin.H{
		"metric":          m,
		"goals_updated":   len(updates),
		"goals_completed": completed,
	})
}

// ListMetrics godoc
// @Summary      List own metrics, newest first
// @Tags         health
// @Security     BearerAuth
// @Produce      json
// @Param        limit  query    int  false  "Max entries (default 50)"
// @Success      200    {array}  Metric
// @Router       /health-metrics [get]
func (h *Handler) ListMetrics(c *gin.Context) {
	memberID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	out, err := h.service.ListMetrics(c.Request.Context(), memberID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, out)
}

// CreateGoal godoc
// @Summary      Create a fitness goal
// @Tags         health
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateGoalRequest  true  "Goal data"
// @Success      201      {object}  Goal
// @Failure      400      {object}  api.ErrorResponse
// @Router       /goals [post]
func (h *Handler) CreateGoal(c *gin.Context) {
	memberID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, err := h.service.CreateGoal(c.Request.Context(), memberID, req)
	if err != nil {
		if errors.Is(err, ErrInvalidDate) || errors.Is(err, ErrPastDeadline) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create goal"})
		return
	}

	c.JSON(http.StatusCreated, g)
}

// UpdateGoal godoc
// @Summary      Update a goal
// @Tags         health
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        goalID   path      int                true  "Goal ID"
// @Param        request  body      UpdateGoalRequest  true  "Fields to change"
// @Success      200      {object}  Goal
// @Failure      400      {object}  api.ErrorResponse
// @Failure      403      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /goals/{goalID} [patch]
func (h *Handler) UpdateGoal(c *gin.Context) {
	memberID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	goalID, err := strconv.Atoi(c.Param("goalID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid goal ID"})
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, err := h.service.UpdateGoal(c.Request.Context(), memberID, goalID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrGoalNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		case errors.Is(err, ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, ErrInvalidDate), errors.Is(err, ErrPastDeadline):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update goal"})
		}
		return
	}

	c.JSON(http.StatusOK, g)
}

// ListGoals godoc
// @Summary      List own goals
// @Tags         health
// @Security     BearerAuth
// @Produce      json
// @Param        status  query    string  false  "Filter by status"
// @Success      200     {array}  Goal
// @Router       /goals [get]
func (h *Handler) ListGoals(c *gin.Context) {
	memberID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	goals, err := h.service.ListGoals(c.Request.Context(), memberID, c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, goals)
}

// GetDashboard godoc
// @Summary      Member progress dashboard
// @Tags         health
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  Dashboard
// @Router       /dashboard [get]
func (h *Handler) GetDashboard(c *gin.Context) {
	memberID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	d, err := h.service.GetDashboard(c.Request.Context(), memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, d)
}
