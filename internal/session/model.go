package session

import "time"

const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

type Session struct {
	ID              int       `db:"id" json:"id"`
	MemberID        int       `db:"member_id" json:"member_id"`
	TrainerID       int       `db:"trainer_id" json:"trainer_id"`
	RoomID          *int      `db:"room_id" json:"room_id,omitempty"`
	ScheduledTime   time.Time `db:"scheduled_time" json:"scheduled_time"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Notes           *string   `db:"notes" json:"notes,omitempty"`
	Status          string    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

type BookSessionRequest struct {
	TrainerID       int     `json:"trainer_id" binding:"required"`
	RoomID          *int    `json:"room_id"`
	ScheduledTime   string  `json:"scheduled_time" binding:"required"`
	DurationMinutes int     `json:"duration_minutes" binding:"required,min=15,max=240"`
	Notes           *string `json:"notes"`
}

type RescheduleRequest struct {
	ScheduledTime   string `json:"scheduled_time" binding:"required"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=15,max=240"`
}
