package room

import (
	"errors"
	"net/http"
	"strconv"
	"time"

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

// CreateRoom godoc
// @Summary      Create room
// @Tags         rooms
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateRoomRequest  true  "Room data"
// @Success      201      {object}  Room
// @Failure      400      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /admin/rooms [post]
func (h *Handler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rm, err := h.service.CreateRoom(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrRoomNameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Room name already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create room"})
		return
	}

	c.JSON(http.StatusCreated, rm)
}

// ListRooms godoc
// @Summary      List rooms
// @Tags         rooms
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  Room
// @Router       /rooms [get]
func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.service.ListRooms(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, rooms)
}

// BookRoom godoc
// @Summary      Book a room for an interval
// @Tags         rooms
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        roomID   path      int              true  "Room ID"
// @Param        request  body      BookRoomRequest  true  "Booking data"
// @Success      201      {object}  Booking
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ConflictResponse
// @Router       /admin/rooms/{roomID}/bookings [post]
func (h *Handler) BookRoom(c *gin.Context) {
	roomID, err := strconv.Atoi(c.Param("roomID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	var req BookRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := auth.GetUserID(c)

	booking, err := h.service.BookRoom(c.Request.Context(), roomID, userID, req)
	if err != nil {
		var conflict *schedule.ConflictError
		switch {
		case errors.As(err, &conflict):
			c.JSON(http.StatusConflict, api.ConflictResponse{
				Error:           conflict.Error(),
				ConflictingID:   conflict.Conflict.EntryID,
				ConflictingKind: string(conflict.Conflict.Kind),
			})
		case errors.Is(err, ErrRoomNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		case errors.Is(err, db.ErrConcurrentConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "Booking conflicted with a concurrent request, please retry"})
		case errors.Is(err, ErrInvalidDate), errors.Is(err, ErrPastDate),
			errors.Is(err, schedule.ErrInvalidInterval), errors.Is(err, schedule.ErrInvalidClock):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to book room"})
		}
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// CancelBooking godoc
// @Summary      Cancel a room booking
// @Tags         rooms
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  api.MessageResponse
// @Failure      404        {object}  api.ErrorResponse
// @Router       /admin/bookings/{bookingID}/cancel [post]
func (h *Handler) CancelBooking(c *gin.Context) {
	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	if err := h.service.CancelBooking(c.Request.Context(), bookingID); err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel booking"})
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Booking cancelled"})
}

// ListBookings godoc
// @Summary      List bookings for a room
// @Tags         rooms
// @Security     BearerAuth
// @Produce      json
// @Param        roomID  path      int     true   "Room ID"
// @Param        from    query     string  false  "Earliest date (YYYY-MM-DD), defaults to today"
// @Success      200     {array}   Booking
// @Failure      404     {object}  api.ErrorResponse
// @Router       /admin/rooms/{roomID}/bookings [get]
func (h *Handler) ListBookings(c *gin.Context) {
	roomID, err := strconv.Atoi(c.Param("roomID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid room ID"})
		return
	}

	from := time.Now()
	if raw := c.Query("from"); raw != "" {
		from, err = time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": ErrInvalidDate.Error()})
			return
		}
	}

	bookings, err := h.service.ListBookings(c.Request.Context(), roomID, from)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}
