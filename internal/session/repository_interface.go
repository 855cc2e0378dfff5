package session

import (
	"context"
	"time"

	"github.com/BasharSaadi/fitness-club-project/internal/schedule"
)

type BookParams struct {
	MemberID        int
	TrainerID       int
	RoomID          *int
	ScheduledTime   time.Time
	DurationMinutes int
	Notes           *string
}

// Ledgers holds every committed interval the booking decision has to be
// checked against, read under the trainer (and room) day locks.
type Ledgers struct {
	Availability []schedule.Entry
	Trainer      []schedule.Entry
	Room         []schedule.Entry
	Member       []schedule.Entry
}

type Repository interface {
	// Book serializes on the trainer's (and, when a room is requested,
	// the room's) day scope, loads the ledgers, and inserts only when
	// decide returns nil.
	Book(ctx context.Context, p BookParams, decide func(l Ledgers) error) (*Session, error)

	// Reschedule cancels the session and books its replacement in one
	// transaction, so the old interval never blocks the new one.
	Reschedule(ctx context.Context, sessionID int, p BookParams, decide func(l Ledgers) error) (*Session, error)

	GetByID(ctx context.Context, sessionID int) (*Session, error)
	Cancel(ctx context.Context, sessionID int) error
	ListForMember(ctx context.Context, memberID int) ([]Session, error)
	ListForTrainer(ctx context.Context, trainerID int, from time.Time) ([]Session, error)
}
