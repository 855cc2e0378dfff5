package class

import "time"

const (
	StatusScheduled  = "scheduled"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

const (
	RegistrationRegistered = "registered"
	RegistrationAttended   = "attended"
	RegistrationCancelled  = "cancelled"
	RegistrationNoShow     = "no_show"
)

type Class struct {
	ID              int       `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Description     *string   `db:"description" json:"description,omitempty"`
	TrainerID       int       `db:"trainer_id" json:"trainer_id"`
	RoomID          int       `db:"room_id" json:"room_id"`
	ScheduledTime   time.Time `db:"scheduled_time" json:"scheduled_time"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Capacity        int       `db:"capacity" json:"capacity"`
	Status          string    `db:"status" json:"status"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

// ClassInfo is a class plus its live registration count, for listings.
type ClassInfo struct {
	Class
	RegisteredCount int `db:"registered_count" json:"registered_count"`
}

type Registration struct {
	ID           int       `db:"id" json:"id"`
	MemberID     int       `db:"member_id" json:"member_id"`
	ClassID      int       `db:"class_id" json:"class_id"`
	Status       string    `db:"status" json:"status"`
	RegisteredAt time.Time `db:"registered_at" json:"registered_at"`
}

// RegistrationInfo is a registration joined with its class, for member
// listings.
type RegistrationInfo struct {
	Registration
	ClassName     string    `db:"class_name" json:"class_name"`
	ScheduledTime time.Time `db:"scheduled_time" json:"scheduled_time"`
}

type CreateClassRequest struct {
	Name            string  `json:"name" binding:"required"`
	Description     *string `json:"description"`
	TrainerID       int     `json:"trainer_id" binding:"required"`
	RoomID          int     `json:"room_id" binding:"required"`
	ScheduledTime   string  `json:"scheduled_time" binding:"required"`
	DurationMinutes int     `json:"duration_minutes" binding:"required,min=15,max=240"`
}

type AttendanceRequest struct {
	Status string `json:"status" binding:"required,oneof=attended no_show"`
}
