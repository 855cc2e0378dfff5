package class

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BasharSaadi/fitness-club-project/internal/auth"
	"github.com/BasharSaadi/fitness-club-project/internal/logger"
	"github.com/BasharSaadi/fitness-club-project/internal/metrics"
	"github.com/BasharSaadi/fitness-club-project/internal/room"
	"github.com/BasharSaadi/fitness-club-project/internal/schedule"
	"github.com/BasharSaadi/fitness-club-project/internal/user"
)

var (
	ErrInvalidTime       = errors.New("invalid time, expected RFC3339")
	ErrPastTime          = errors.New("class time must be in the future")
	ErrNotATrainer       = errors.New("assigned user is not a trainer")
	ErrClassNotOpen      = errors.New("class is not open for registration")
	ErrAlreadyRegistered = errors.New("member already registered for this class")
	ErrClassFull         = errors.New("class is full")
	ErrNotOwner          = errors.New("registration belongs to another member")
	ErrNotClassTrainer   = errors.New("class belongs to another trainer")
	ErrClassStarted      = errors.New("class has already started")
)

// RoomSource resolves rooms so class capacity can be frozen at creation.
// room.Repository satisfies it.
type RoomSource interface {
	GetRoomByID(ctx context.Context, roomID int) (*room.Room, error)
}

type Directory interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
}

type Notifier interface {
	SendBookingConfirmation(ctx context.Context, email, name, bookingType, details string, when time.Time) error
	SendCancellation(ctx context.Context, email, name, bookingType, details string) error
}

type Service interface {
	Create(ctx context.Context, createdBy int, req CreateClassRequest) (*Class, error)
	CancelClass(ctx context.Context, classID int) error
	ListUpcoming(ctx context.Context) ([]ClassInfo, error)
	Register(ctx context.Context, memberID, classID int) (*Registration, error)
	CancelRegistration(ctx context.Context, memberID, registrationID int) error
	MarkAttendance(ctx context.Context, trainerID, registrationID int, status string) error
	ListRegistrations(ctx context.Context, memberID int) ([]RegistrationInfo, error)
}

type service struct {
	repo  Repository
	rooms RoomSource
	users Directory
	mail  Notifier
}

func NewService(repo Repository, rooms RoomSource, users Directory, mail Notifier) Service {
	return &service{repo: repo, rooms: rooms, users: users, mail: mail}
}

func (s *service) Create(ctx context.Context, createdBy int, req CreateClassRequest) (*Class, error) {
	when, err := time.Parse(time.RFC3339, req.ScheduledTime)
	if err != nil {
		return nil, ErrInvalidTime
	}
	// The ledger day and interval live on the UTC timeline, whatever
	// offset the client sent.
	when = when.UTC()
	if when.Before(time.Now()) {
		return nil, ErrPastTime
	}

	iv, err := schedule.NewIntervalFromSpan(when, req.DurationMinutes)
	if err != nil {
		return nil, err
	}

	trainer, err := s.users.FindByID(ctx, req.TrainerID)
	if err != nil {
		return nil, err
	}
	if trainer.Role != auth.RoleTrainer {
		return nil, ErrNotATrainer
	}

	// Capacity is copied from the room here and never re-read, so later
	// room resizes do not change an existing class.
	rm, err := s.rooms.GetRoomByID(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, CreateParams{
		Name:            req.Name,
		Description:     req.Description,
		TrainerID:       req.TrainerID,
		RoomID:          req.RoomID,
		ScheduledTime:   when,
		DurationMinutes: req.DurationMinutes,
		Capacity:        rm.Capacity,
		CreatedBy:       createdBy,
	}, func(l Ledgers) error {
		if c := schedule.CheckConflicts(iv, l.Trainer); len(c) > 0 {
			return &schedule.ConflictError{Resource: "trainer", Conflict: c[0]}
		}
		if c := schedule.CheckConflicts(iv, l.Room); len(c) > 0 {
			return &schedule.ConflictError{Resource: "room", Conflict: c[0]}
		}
		return nil
	})
	if err != nil {
		var conflict *schedule.ConflictError
		if errors.As(err, &conflict) {
			metrics.RecordBookingDecision("class", "resource_conflict")
		}
		return nil, err
	}

	metrics.RecordBookingDecision("class", "accepted")
	logger.Info("class created",
		"class_id", created.ID, "trainer_id", created.TrainerID,
		"room_id", created.RoomID, "capacity", created.Capacity)
	return created, nil
}

func (s *service) CancelClass(ctx context.Context, classID int) error {
	if err := s.repo.CancelClass(ctx, classID); err != nil {
		return err
	}
	metrics.RecordBookingCancellation("class")
	return nil
}

func (s *service) ListUpcoming(ctx context.Context) ([]ClassInfo, error) {
	return s.repo.ListUpcoming(ctx)
}

func (s *service) Register(ctx context.Context, memberID, classID int) (*Registration, error) {
	var cls *Class
	reg, err := s.repo.Register(ctx, memberID, classID, func(st RegistrationState) error {
		cls = st.Class
		if st.Class.Status != StatusScheduled || st.Class.ScheduledTime.Before(time.Now()) {
			return ErrClassNotOpen
		}
		if st.Existing != nil {
			return ErrAlreadyRegistered
		}
		if st.LiveCount >= st.Class.Capacity {
			return ErrClassFull
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrClassNotOpen):
			metrics.RecordClassRegistration("class_not_open")
		case errors.Is(err, ErrAlreadyRegistered):
			metrics.RecordClassRegistration("already_registered")
		case errors.Is(err, ErrClassFull):
			metrics.RecordClassRegistration("class_full")
		}
		return nil, err
	}

	metrics.RecordClassRegistration("accepted")
	logger.Info("class registration accepted",
		"member_id", memberID, "class_id", classID)
	if s.mail != nil && s.users != nil && cls != nil {
		if u, err := s.users.FindByID(ctx, memberID); err == nil {
			if err := s.mail.SendBookingConfirmation(ctx, u.Email, u.FirstName, "Class", classDetails(cls), cls.ScheduledTime); err != nil {
				logger.Warnf("Failed to queue confirmation email: %v", err)
			}
		}
	}
	return reg, nil
}

func (s *service) CancelRegistration(ctx context.Context, memberID, registrationID int) error {
	reg, err := s.repo.GetRegistrationByID(ctx, registrationID)
	if err != nil {
		return err
	}
	if reg.MemberID != memberID {
		return ErrNotOwner
	}
	if reg.Status == RegistrationCancelled {
		return nil
	}
	if reg.Status != RegistrationRegistered {
		return ErrRegistrationNotLive
	}

	cls, err := s.repo.GetByID(ctx, reg.ClassID)
	if err != nil {
		return err
	}
	if cls.ScheduledTime.Before(time.Now()) {
		return ErrClassStarted
	}

	if err := s.repo.CancelRegistration(ctx, registrationID); err != nil {
		return err
	}

	metrics.RecordBookingCancellation("class_registration")
	if s.mail != nil && s.users != nil {
		if u, err := s.users.FindByID(ctx, memberID); err == nil {
			if err := s.mail.SendCancellation(ctx, u.Email, u.FirstName, "Class", cls.Name); err != nil {
				logger.Warnf("Failed to queue cancellation email: %v", err)
			}
		}
	}
	return nil
}

func (s *service) MarkAttendance(ctx context.Context, trainerID, registrationID int, status string) error {
	reg, err := s.repo.GetRegistrationByID(ctx, registrationID)
	if err != nil {
		return err
	}

	cls, err := s.repo.GetByID(ctx, reg.ClassID)
	if err != nil {
		return err
	}
	if cls.TrainerID != trainerID {
		return ErrNotClassTrainer
	}

	return s.repo.SetAttendance(ctx, registrationID, status)
}

func (s *service) ListRegistrations(ctx context.Context, memberID int) ([]RegistrationInfo, error) {
	return s.repo.ListRegistrationsForMember(ctx, memberID)
}

// details line for listings and mails.
func classDetails(cls *Class) string {
	return fmt.Sprintf("%s (%d min)", cls.Name, cls.DurationMinutes)
}
