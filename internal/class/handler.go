package class

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/BasharSaadi/fitness-club-project/internal/api"
	"github.com/BasharSaadi/fitness-club-project/internal/auth"
	"github.com/BasharSaadi/fitness-club-project/internal/db"
	"github.com/BasharSaadi/fitness-club-project/internal/room"
	"github.com/BasharSaadi/fitness-club-project/internal/schedule"
	"github.com/BasharSaadi/fitness-club-project/internal/user"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Create godoc
// @Summary      Create a fitness class
// @Description  Capacity is frozen from the room and the room is booked for the class interval.
// @Tags         classes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateClassRequest  true  "Class data"
// @Success      201      {object}  Class
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ConflictResponse
// @Router       /admin/classes [post]
func (h *Handler) Create(c *gin.Context) {
	adminID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cls, err := h.service.Create(c.Request.Context(), adminID, req)
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
			c.JSON(http.StatusConflict, gin.H{"error": "Class conflicted with a concurrent booking, please retry"})
		case errors.Is(err, room.ErrRoomNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		case errors.Is(err, user.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Trainer not found"})
		case errors.Is(err, ErrNotATrainer), errors.Is(err, ErrInvalidTime), errors.Is(err, ErrPastTime),
			errors.Is(err, schedule.ErrInvalidInterval), errors.Is(err, schedule.ErrCrossesMidnight):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create class"})
		}
		return
	}

	c.JSON(http.StatusCreated, cls)
}

// CancelClass godoc
// @Summary      Cancel a class
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Param        classID  path      int  true  "Class ID"
// @Success      200      {object}  api.MessageResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /admin/classes/{classID}/cancel [post]
func (h *Handler) CancelClass(c *gin.Context) {
	classID, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid class ID"})
		return
	}

	if err := h.service.CancelClass(c.Request.Context(), classID); err != nil {
		switch {
		case errors.Is(err, ErrClassNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
		case errors.Is(err, ErrClassNotCancellable):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel class"})
		}
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Class cancelled"})
}

// List godoc
// @Summary      List upcoming classes with live registration counts
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  ClassInfo
// @Router       /classes [get]
func (h *Handler) List(c *gin.Context) {
	classes, err := h.service.ListUpcoming(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, classes)
}

// Register godoc
// @Summary      Register for a class
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Param        classID  path      int  true  "Class ID"
// @Success      201      {object}  Registration
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /classes/{classID}/register [post]
func (h *Handler) Register(c *gin.Context) {
	memberID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	classID, err := strconv.Atoi(c.Param("classID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid class ID"})
		return
	}

	reg, err := h.service.Register(c.Request.Context(), memberID, classID)
	if err != nil {
		switch {
		case errors.Is(err, ErrClassNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
		case errors.Is(err, ErrClassNotOpen), errors.Is(err, ErrAlreadyRegistered), errors.Is(err, ErrClassFull):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, db.ErrConcurrentConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "Registration conflicted with a concurrent request, please retry"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register"})
		}
		return
	}

	c.JSON(http.StatusCreated, reg)
}

// CancelRegistration godoc
// @Summary      Cancel a class registration
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Param        registrationID  path      int  true  "Registration ID"
// @Success      200             {object}  api.MessageResponse
// @Failure      403             {object}  api.ErrorResponse
// @Failure      404             {object}  api.ErrorResponse
// @Failure      409             {object}  api.ErrorResponse
// @Router       /registrations/{registrationID}/cancel [post]
func (h *Handler) CancelRegistration(c *gin.Context) {
	memberID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	registrationID, err := strconv.Atoi(c.Param("registrationID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration ID"})
		return
	}

	if err := h.service.CancelRegistration(c.Request.Context(), memberID, registrationID); err != nil {
		switch {
		case errors.Is(err, ErrRegistrationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Registration not found"})
		case errors.Is(err, ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, ErrRegistrationNotLive), errors.Is(err, ErrClassStarted):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel registration"})
		}
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Registration cancelled"})
}

// MarkAttendance godoc
// @Summary      Mark a registration attended or no-show
// @Tags         classes
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        registrationID  path      int                true  "Registration ID"
// @Param        request         body      AttendanceRequest  true  "Attendance status"
// @Success      200             {object}  api.MessageResponse
// @Failure      403             {object}  api.ErrorResponse
// @Failure      404             {object}  api.ErrorResponse
// @Router       /trainer/registrations/{registrationID}/attendance [post]
func (h *Handler) MarkAttendance(c *gin.Context) {
	trainerID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	registrationID, err := strconv.Atoi(c.Param("registrationID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration ID"})
		return
	}

	var req AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.MarkAttendance(c.Request.Context(), trainerID, registrationID, req.Status); err != nil {
		switch {
		case errors.Is(err, ErrRegistrationNotFound), errors.Is(err, ErrClassNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, ErrNotClassTrainer):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, ErrRegistrationNotLive):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark attendance"})
		}
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Attendance recorded"})
}

// ListRegistrations godoc
// @Summary      List own class registrations
// @Tags         classes
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  RegistrationInfo
// @Router       /registrations [get]
func (h *Handler) ListRegistrations(c *gin.Context) {
	memberID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	regs, err := h.service.ListRegistrations(c.Request.Context(), memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, regs)
}
