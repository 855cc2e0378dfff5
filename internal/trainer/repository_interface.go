package trainer

import (
	"context"
	"time"

	"github.com/BasharSaadi/fitness-club-project/internal/schedule"
)

type AddParams struct {
	TrainerID int
	DayOfWeek string
	Interval  schedule.Interval
}

type Repository interface {
	// Add serializes on the (trainer, day-of-week) scope, hands the
	// trainer's existing slots for that day to decide, and inserts only
	// when decide returns nil.
	Add(ctx context.Context, p AddParams, decide func(ledger []Availability) error) (*Availability, error)
	ListForTrainer(ctx context.Context, trainerID int) ([]Availability, error)
	ListForDay(ctx context.Context, trainerID int, dayOfWeek string) ([]Availability, error)
	Delete(ctx context.Context, trainerID, availabilityID int) error
	UpcomingCommitments(ctx context.Context, trainerID int, from time.Time) ([]ScheduleItem, error)
}
