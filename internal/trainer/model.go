package trainer

import "time"

// Availability is a recurring weekly working window for a trainer,
// keyed by day-of-week rather than a concrete date.
type Availability struct {
	ID        int    `db:"id" json:"id"`
	TrainerID int    `db:"trainer_id" json:"trainer_id"`
	DayOfWeek string `db:"day_of_week" json:"day_of_week"`
	StartTime string `db:"start_time" json:"start_time"`
	EndTime   string `db:"end_time" json:"end_time"`
}

// ScheduleItem is one upcoming commitment on a trainer's calendar,
// drawn from classes and personal training sessions.
type ScheduleItem struct {
	Kind            string    `db:"kind" json:"kind"`
	ID              int       `db:"id" json:"id"`
	Title           string    `db:"title" json:"title"`
	ScheduledTime   time.Time `db:"scheduled_time" json:"scheduled_time"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Status          string    `db:"status" json:"status"`
}

type Schedule struct {
	Availability []Availability `json:"availability"`
	Upcoming     []ScheduleItem `json:"upcoming"`
}

type AddAvailabilityRequest struct {
	DayOfWeek string `json:"day_of_week" binding:"required"`
	StartTime string `json:"start_time" binding:"required,clock"`
	EndTime   string `json:"end_time" binding:"required,clock"`
}
