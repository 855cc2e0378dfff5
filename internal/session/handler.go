package session

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

func writeBookingError(c *gin.Context, err error) {
	var conflict *schedule.ConflictError
	switch {
	case errors.Is(err, ErrOutsideAvailability):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, api.ConflictResponse{
			Error:           conflict.Error(),
			ConflictingID:   conflict.Conflict.EntryID,
			ConflictingKind: string(conflict.Conflict.Kind),
		})
	case errors.Is(err, db.ErrConcurrentConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Booking conflicted with a concurrent request, please retry"})
	case errors.Is(err, ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
	case errors.Is(err, ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInvalidTime), errors.Is(err, ErrPastTime),
		errors.Is(err, ErrSessionNotLive),
		errors.Is(err, schedule.ErrInvalidInterval), errors.Is(err, schedule.ErrCrossesMidnight):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to book session"})
	}
}

// Book godoc
// @Summary      Book a personal training session
// @Tags         sessions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      BookSessionRequest  true  "Session data"
// @Success      201      {object}  Session
// @Failure      400      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ConflictResponse
// @Router       /sessions [post]
func (h *Handler) Book(c *gin.Context) {
	memberID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req BookSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.service.Book(c.Request.Context(), memberID, req)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sess)
}

// Cancel godoc
// @Summary      Cancel a personal training session
// @Tags         sessions
// @Security     BearerAuth
// @Produce      json
// @Param        sessionID  path      int  true  "Session ID"
// @Success      200        {object}  api.MessageResponse
// @Failure      403        {object}  api.ErrorResponse
// @Failure      404        {object}  api.ErrorResponse
// @Failure      409        {object}  api.ErrorResponse
// @Router       /sessions/{sessionID}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	memberID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	sessionID, err := strconv.Atoi(c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	if err := h.service.Cancel(c.Request.Context(), memberID, sessionID); err != nil {
		switch {
		case errors.Is(err, ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		case errors.Is(err, ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, ErrPastSession), errors.Is(err, ErrNotCancellable):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel session"})
		}
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Session cancelled"})
}

// Reschedule godoc
// @Summary      Move a session to a new time
// @Tags         sessions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        sessionID  path      int                true  "Session ID"
// @Param        request    body      RescheduleRequest  true  "New time"
// @Success      201        {object}  Session
// @Failure      400        {object}  api.ErrorResponse
// @Failure      409        {object}  api.ConflictResponse
// @Router       /sessions/{sessionID}/reschedule [post]
func (h *Handler) Reschedule(c *gin.Context) {
	memberID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	sessionID, err := strconv.Atoi(c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session ID"})
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := h.service.Reschedule(c.Request.Context(), memberID, sessionID, req)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sess)
}

// List godoc
// @Summary      List own sessions
// @Tags         sessions
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  Session
// @Router       /sessions [get]
func (h *Handler) List(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var (
		sessions []Session
		err      error
	)
	if role, _ := auth.GetUserRole(c); role == auth.RoleTrainer {
		sessions, err = h.service.ListForTrainer(c.Request.Context(), userID)
	} else {
		sessions, err = h.service.ListForMember(c.Request.Context(), userID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, sessions)
}
