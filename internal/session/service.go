package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BasharSaadi/fitness-club-project/internal/logger"
	"github.com/BasharSaadi/fitness-club-project/internal/metrics"
	"github.com/BasharSaadi/fitness-club-project/internal/schedule"
	"github.com/BasharSaadi/fitness-club-project/internal/user"
)

var (
	ErrInvalidTime         = errors.New("invalid time, expected RFC3339")
	ErrPastTime            = errors.New("session time must be in the future")
	ErrOutsideAvailability = errors.New("requested time is outside the trainer's availability")
	ErrNotOwner            = errors.New("session belongs to another member")
	ErrPastSession         = errors.New("session is in the past")
	ErrNotCancellable      = errors.New("session is already completed")
)

// Directory resolves user records for notification emails.
// user.Repository satisfies it.
type Directory interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
}

type Notifier interface {
	SendBookingConfirmation(ctx context.Context, email, name, bookingType, details string, when time.Time) error
	SendCancellation(ctx context.Context, email, name, bookingType, details string) error
}

type Service interface {
	Book(ctx context.Context, memberID int, req BookSessionRequest) (*Session, error)
	Cancel(ctx context.Context, memberID, sessionID int) error
	Reschedule(ctx context.Context, memberID, sessionID int, req RescheduleRequest) (*Session, error)
	ListForMember(ctx context.Context, memberID int) ([]Session, error)
	ListForTrainer(ctx context.Context, trainerID int) ([]Session, error)
}

type service struct {
	repo  Repository
	users Directory
	mail  Notifier
}

func NewService(repo Repository, users Directory, mail Notifier) Service {
	return &service{repo: repo, users: users, mail: mail}
}

func (s *service) Book(ctx context.Context, memberID int, req BookSessionRequest) (*Session, error) {
	when, err := time.Parse(time.RFC3339, req.ScheduledTime)
	if err != nil {
		return nil, ErrInvalidTime
	}
	// The ledger day, weekday and interval all live on the UTC timeline,
	// whatever offset the client sent.
	when = when.UTC()
	if when.Before(time.Now()) {
		return nil, ErrPastTime
	}

	iv, err := schedule.NewIntervalFromSpan(when, req.DurationMinutes)
	if err != nil {
		return nil, err
	}

	booked, err := s.repo.Book(ctx, BookParams{
		MemberID:        memberID,
		TrainerID:       req.TrainerID,
		RoomID:          req.RoomID,
		ScheduledTime:   when,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
	}, decideFor(iv))
	if err != nil {
		recordRejection(err)
		return nil, err
	}

	metrics.RecordBookingDecision("pt_session", "accepted")
	logger.Info("pt session booked",
		"member_id", memberID, "trainer_id", req.TrainerID, "time", when)
	s.confirm(ctx, booked)
	return booked, nil
}

func (s *service) Cancel(ctx context.Context, memberID, sessionID int) error {
	sess, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if sess.MemberID != memberID {
		return ErrNotOwner
	}
	if sess.Status == StatusCancelled {
		return nil
	}
	if sess.Status != StatusScheduled {
		return ErrNotCancellable
	}
	if sess.ScheduledTime.Before(time.Now()) {
		return ErrPastSession
	}

	if err := s.repo.Cancel(ctx, sessionID); err != nil {
		return err
	}

	metrics.RecordBookingCancellation("pt_session")
	if s.mail != nil && s.users != nil {
		if u, err := s.users.FindByID(ctx, sess.MemberID); err == nil {
			details := fmt.Sprintf("Session on %s", sess.ScheduledTime.Format("Jan 2, 2006 at 3:04 PM"))
			if err := s.mail.SendCancellation(ctx, u.Email, u.FirstName, "Personal Training", details); err != nil {
				logger.Warnf("Failed to queue cancellation email: %v", err)
			}
		}
	}
	return nil
}

func (s *service) Reschedule(ctx context.Context, memberID, sessionID int, req RescheduleRequest) (*Session, error) {
	sess, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.MemberID != memberID {
		return nil, ErrNotOwner
	}
	if sess.Status != StatusScheduled {
		return nil, ErrSessionNotLive
	}

	when, err := time.Parse(time.RFC3339, req.ScheduledTime)
	if err != nil {
		return nil, ErrInvalidTime
	}
	when = when.UTC()
	if when.Before(time.Now()) {
		return nil, ErrPastTime
	}

	iv, err := schedule.NewIntervalFromSpan(when, req.DurationMinutes)
	if err != nil {
		return nil, err
	}

	booked, err := s.repo.Reschedule(ctx, sessionID, BookParams{
		MemberID:        sess.MemberID,
		TrainerID:       sess.TrainerID,
		RoomID:          sess.RoomID,
		ScheduledTime:   when,
		DurationMinutes: req.DurationMinutes,
		Notes:           sess.Notes,
	}, decideFor(iv))
	if err != nil {
		recordRejection(err)
		return nil, err
	}

	metrics.RecordBookingDecision("pt_session", "accepted")
	logger.Info("pt session rescheduled",
		"session_id", sessionID, "new_session_id", booked.ID, "time", when)
	s.confirm(ctx, booked)
	return booked, nil
}

func (s *service) ListForMember(ctx context.Context, memberID int) ([]Session, error) {
	return s.repo.ListForMember(ctx, memberID)
}

func (s *service) ListForTrainer(ctx context.Context, trainerID int) ([]Session, error) {
	return s.repo.ListForTrainer(ctx, trainerID, time.Now())
}

// decideFor builds the two-phase booking decision: the interval must
// sit inside one availability slot, then clear the trainer's, the
// room's, and the member's own ledgers.
func decideFor(iv schedule.Interval) func(l Ledgers) error {
	return func(l Ledgers) error {
		if _, ok := schedule.FindContaining(iv, l.Availability); !ok {
			return ErrOutsideAvailability
		}
		if c := schedule.CheckConflicts(iv, l.Trainer); len(c) > 0 {
			return &schedule.ConflictError{Resource: "trainer", Conflict: c[0]}
		}
		if c := schedule.CheckConflicts(iv, l.Room); len(c) > 0 {
			return &schedule.ConflictError{Resource: "room", Conflict: c[0]}
		}
		if c := schedule.CheckConflicts(iv, l.Member); len(c) > 0 {
			return &schedule.ConflictError{Resource: "member", Conflict: c[0]}
		}
		return nil
	}
}

func recordRejection(err error) {
	var conflict *schedule.ConflictError
	switch {
	case errors.Is(err, ErrOutsideAvailability):
		metrics.RecordBookingDecision("pt_session", "outside_availability")
	case errors.As(err, &conflict):
		metrics.RecordBookingDecision("pt_session", "resource_conflict")
	}
}

func (s *service) confirm(ctx context.Context, sess *Session) {
	if s.mail == nil || s.users == nil {
		return
	}
	u, err := s.users.FindByID(ctx, sess.MemberID)
	if err != nil {
		return
	}
	details := fmt.Sprintf("%d minute session", sess.DurationMinutes)
	if err := s.mail.SendBookingConfirmation(ctx, u.Email, u.FirstName, "Personal Training", details, sess.ScheduledTime); err != nil {
		logger.Warnf("Failed to queue confirmation email: %v", err)
	}
}
