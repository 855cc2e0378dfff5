package room

import (
	"context"
	"errors"
	"time"

	"github.com/BasharSaadi/fitness-club-project/internal/logger"
	"github.com/BasharSaadi/fitness-club-project/internal/metrics"
	"github.com/BasharSaadi/fitness-club-project/internal/schedule"
)

var (
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")
	ErrPastDate    = errors.New("booking date is in the past")
)

type Service interface {
	CreateRoom(ctx context.Context, req CreateRoomRequest) (*Room, error)
	GetRoom(ctx context.Context, roomID int) (*Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	BookRoom(ctx context.Context, roomID int, bookedBy int, req BookRoomRequest) (*Booking, error)
	CancelBooking(ctx context.Context, bookingID int) error
	ListBookings(ctx context.Context, roomID int, from time.Time) ([]Booking, error)
	IsAvailable(ctx context.Context, roomID int, date time.Time, iv schedule.Interval) (bool, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateRoom(ctx context.Context, req CreateRoomRequest) (*Room, error) {
	return s.repo.CreateRoom(ctx, req.Name, req.Capacity, req.RoomType)
}

func (s *service) GetRoom(ctx context.Context, roomID int) (*Room, error) {
	return s.repo.GetRoomByID(ctx, roomID)
}

func (s *service) ListRooms(ctx context.Context) ([]Room, error) {
	return s.repo.GetAllRooms(ctx)
}

func (s *service) BookRoom(ctx context.Context, roomID int, bookedBy int, req BookRoomRequest) (*Booking, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if req.Date < time.Now().Format("2006-01-02") {
		return nil, ErrPastDate
	}

	iv, err := schedule.NewIntervalFromClock(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetRoomByID(ctx, roomID); err != nil {
		return nil, err
	}

	booking, err := s.repo.Book(ctx, BookParams{
		RoomID:   roomID,
		Date:     date,
		Interval: iv,
		Purpose:  req.Purpose,
		BookedBy: &bookedBy,
	}, func(ledger []Booking) error {
		entries, err := LedgerEntries(ledger)
		if err != nil {
			return err
		}
		if conflicts := schedule.CheckConflicts(iv, entries); len(conflicts) > 0 {
			return &schedule.ConflictError{Resource: "room", Conflict: conflicts[0]}
		}
		return nil
	})
	if err != nil {
		var conflict *schedule.ConflictError
		if errors.As(err, &conflict) {
			metrics.RecordBookingDecision("room_booking", "double_booking")
		}
		return nil, err
	}

	metrics.RecordBookingDecision("room_booking", "accepted")
	logger.Info("room booking accepted",
		"room_id", roomID, "date", req.Date, "interval", iv.String())
	return booking, nil
}

func (s *service) CancelBooking(ctx context.Context, bookingID int) error {
	if err := s.repo.CancelBooking(ctx, bookingID); err != nil {
		return err
	}
	metrics.RecordBookingCancellation("room_booking")
	return nil
}

func (s *service) ListBookings(ctx context.Context, roomID int, from time.Time) ([]Booking, error) {
	if _, err := s.repo.GetRoomByID(ctx, roomID); err != nil {
		return nil, err
	}
	return s.repo.ListBookings(ctx, roomID, from)
}

// IsAvailable reports whether the interval is free on the room's
// confirmed ledger. Advisory only: the authoritative check runs again
// under the ledger lock at commit time.
func (s *service) IsAvailable(ctx context.Context, roomID int, date time.Time, iv schedule.Interval) (bool, error) {
	ledger, err := s.repo.DayLedger(ctx, roomID, date)
	if err != nil {
		return false, err
	}
	entries, err := LedgerEntries(ledger)
	if err != nil {
		return false, err
	}
	return len(schedule.CheckConflicts(iv, entries)) == 0, nil
}

// LedgerEntries converts persisted bookings into conflict-check entries.
func LedgerEntries(ledger []Booking) ([]schedule.Entry, error) {
	entries := make([]schedule.Entry, 0, len(ledger))
	for _, b := range ledger {
		iv, err := schedule.NewIntervalFromClock(b.StartTime, b.EndTime)
		if err != nil {
			return nil, err
		}
		entries = append(entries, schedule.Entry{
			ID:       b.ID,
			Kind:     schedule.KindRoomBooking,
			Interval: iv,
		})
	}
	return entries, nil
}
