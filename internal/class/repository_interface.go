package class

import (
	"context"
	"time"

	"github.com/BasharSaadi/fitness-club-project/internal/schedule"
)

type CreateParams struct {
	Name            string
	Description     *string
	TrainerID       int
	RoomID          int
	ScheduledTime   time.Time
	DurationMinutes int
	Capacity        int
	CreatedBy       int
}

// Ledgers holds the trainer's and the room's committed intervals for
// the class's day, read under both day locks.
type Ledgers struct {
	Trainer []schedule.Entry
	Room    []schedule.Entry
}

// RegistrationState is everything the registration decision needs,
// read under the class's day lock.
type RegistrationState struct {
	Class     *Class
	LiveCount int
	Existing  *Registration
}

type Repository interface {
	// Create inserts the class and its room booking in one transaction,
	// after decide accepts the ledgers.
	Create(ctx context.Context, p CreateParams, decide func(l Ledgers) error) (*Class, error)
	GetByID(ctx context.Context, classID int) (*Class, error)
	ListUpcoming(ctx context.Context) ([]ClassInfo, error)

	// CancelClass cancels the class and releases its room booking.
	CancelClass(ctx context.Context, classID int) error

	// Register serializes per class, hands the current state to decide,
	// and inserts only when decide returns nil.
	Register(ctx context.Context, memberID, classID int, decide func(st RegistrationState) error) (*Registration, error)
	GetRegistrationByID(ctx context.Context, registrationID int) (*Registration, error)
	CancelRegistration(ctx context.Context, registrationID int) error
	SetAttendance(ctx context.Context, registrationID int, status string) error
	ListRegistrationsForMember(ctx context.Context, memberID int) ([]RegistrationInfo, error)
}
