package trainer

import (
	"context"
	"errors"
	"time"

	"github.com/BasharSaadi/fitness-club-project/internal/logger"
	"github.com/BasharSaadi/fitness-club-project/internal/metrics"
	"github.com/BasharSaadi/fitness-club-project/internal/schedule"
)

type Service interface {
	AddAvailability(ctx context.Context, trainerID int, req AddAvailabilityRequest) (*Availability, error)
	ListAvailability(ctx context.Context, trainerID int) ([]Availability, error)
	DeleteAvailability(ctx context.Context, trainerID, availabilityID int) error
	GetSchedule(ctx context.Context, trainerID int) (*Schedule, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) AddAvailability(ctx context.Context, trainerID int, req AddAvailabilityRequest) (*Availability, error) {
	day, err := schedule.NormalizeDay(req.DayOfWeek)
	if err != nil {
		return nil, err
	}

	iv, err := schedule.NewIntervalFromClock(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	slot, err := s.repo.Add(ctx, AddParams{
		TrainerID: trainerID,
		DayOfWeek: day,
		Interval:  iv,
	}, func(ledger []Availability) error {
		entries, err := LedgerEntries(ledger)
		if err != nil {
			return err
		}
		if conflicts := schedule.CheckConflicts(iv, entries); len(conflicts) > 0 {
			return &schedule.ConflictError{Resource: "availability", Conflict: conflicts[0]}
		}
		return nil
	})
	if err != nil {
		var conflict *schedule.ConflictError
		if errors.As(err, &conflict) {
			metrics.RecordBookingDecision("availability", "overlapping_availability")
		}
		return nil, err
	}

	metrics.RecordBookingDecision("availability", "accepted")
	logger.Info("availability slot added",
		"trainer_id", trainerID, "day", day, "interval", iv.String())
	return slot, nil
}

func (s *service) ListAvailability(ctx context.Context, trainerID int) ([]Availability, error) {
	return s.repo.ListForTrainer(ctx, trainerID)
}

func (s *service) DeleteAvailability(ctx context.Context, trainerID, availabilityID int) error {
	return s.repo.Delete(ctx, trainerID, availabilityID)
}

func (s *service) GetSchedule(ctx context.Context, trainerID int) (*Schedule, error) {
	slots, err := s.repo.ListForTrainer(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	upcoming, err := s.repo.UpcomingCommitments(ctx, trainerID, time.Now())
	if err != nil {
		return nil, err
	}

	return &Schedule{Availability: slots, Upcoming: upcoming}, nil
}

// LedgerEntries converts availability slots into conflict-check entries.
func LedgerEntries(ledger []Availability) ([]schedule.Entry, error) {
	entries := make([]schedule.Entry, 0, len(ledger))
	for _, a := range ledger {
		iv, err := schedule.NewIntervalFromClock(a.StartTime, a.EndTime)
		if err != nil {
			return nil, err
		}
		entries = append(entries, schedule.Entry{
			ID:       a.ID,
			Kind:     schedule.KindAvailability,
			Interval: iv,
		})
	}
	return entries, nil
}
