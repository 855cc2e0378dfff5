package trainer

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/BasharSaadi/fitness-club-project/internal/api"
	"github.com/BasharSaadi/fitness-club-project/internal/auth"
	"github.com/BasharSaadi/fitness-club-project/internal/db"
	"github.com/BasharSaadi/fitness-club-project/internal/schedule"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// AddAvailability godoc
// @Summary      Add a weekly availability slot
// @Tags         trainer
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      AddAvailabilityRequest  true  "Slot data"
// @Success      201      {object}  Availability
// @Failure      400      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ConflictResponse
// @Router       /trainer/availability [post]
func (h *Handler) AddAvailability(c *gin.Context) {
	trainerID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req AddAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slot, err := h.service.AddAvailability(c.Request.Context(), trainerID, req)
	if err != nil {
		var conflict *schedule.ConflictError
		switch {
		case errors.As(err, &conflict):
			c.JSON(http.StatusConflict, api.ConflictResponse{
				Error:           conflict.Error(),
				ConflictingID:   conflict.Conflict.EntryID,
				ConflictingKind: string(conflict.Conflict.Kind),
			})
		case errors.Is(err, db.ErrConcurrentConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "Slot conflicted with a concurrent request, please retry"})
		case errors.Is(err, schedule.ErrInvalidDay), errors.Is(err, schedule.ErrInvalidClock),
			errors.Is(err, schedule.ErrInvalidInterval):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add availability"})
		}
		return
	}

	c.JSON(http.StatusCreated, slot)
}

// ListAvailability godoc
// @Summary      List own availability slots
// @Tags         trainer
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  Availability
// @Router       /trainer/availability [get]
func (h *Handler) ListAvailability(c *gin.Context) {
	trainerID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	slots, err := h.service.ListAvailability(c.Request.Context(), trainerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, slots)
}

// DeleteAvailability godoc
// @Summary      Delete an availability slot
// @Tags         trainer
// @Security     BearerAuth
// @Produce      json
// @Param        availabilityID  path      int  true  "Availability ID"
// @Success      200             {object}  api.MessageResponse
// @Failure      404             {object}  api.ErrorResponse
// @Router       /trainer/availability/{availabilityID} [delete]
func (h *Handler) DeleteAvailability(c *gin.Context) {
	trainerID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	availabilityID, err := strconv.Atoi(c.Param("availabilityID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid availability ID"})
		return
	}

	if err := h.service.DeleteAvailability(c.Request.Context(), trainerID, availabilityID); err != nil {
		if errors.Is(err, ErrAvailabilityNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Availability slot not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete availability"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Availability slot deleted"})
}

// GetSchedule godoc
// @Summary      Own schedule: availability plus upcoming classes and sessions
// @Tags         trainer
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  Schedule
// @Router       /trainer/schedule [get]
func (h *Handler) GetSchedule(c *gin.Context) {
	trainerID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	sched, err := h.service.GetSchedule(c.Request.Context(), trainerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, sched)
}
