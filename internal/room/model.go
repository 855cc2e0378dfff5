package room

import "time"

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

type Room struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Capacity  int       `db:"capacity" json:"capacity"`
	RoomType  string    `db:"room_type" json:"room_type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Booking is one entry on a room's daily ledger. Start and end are TIME
// columns and travel as clock strings.
type Booking struct {
	ID          int       `db:"id" json:"id"`
	RoomID      int       `db:"room_id" json:"room_id"`
	BookingDate time.Time `db:"booking_date" json:"booking_date"`
	StartTime   string    `db:"start_time" json:"start_time"`
	EndTime     string    `db:"end_time" json:"end_time"`
	Purpose     *string   `db:"purpose" json:"purpose,omitempty"`
	BookedBy    *int      `db:"booked_by" json:"booked_by,omitempty"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type CreateRoomRequest struct {
	Name     string `json:"name" binding:"required"`
	Capacity int    `json:"capacity" binding:"required,min=1"`
	RoomType string `json:"room_type" binding:"required,oneof=studio gym_floor pool spin yoga multi_purpose"`
}

type BookRoomRequest struct {
	Date      string  `json:"date" binding:"required"`
	StartTime string  `json:"start_time" binding:"required,clock"`
	EndTime   string  `json:"end_time" binding:"required,clock"`
	Purpose   *string `json:"purpose"`
}
