package room

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BasharSaadi/fitness-club-project/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRoomRepo struct {
	mock.Mock

	// ledger is handed to the decide callback, mirroring the real
	// repository's locked day read.
	ledger []Booking
}

func (m *MockRoomRepo) CreateRoom(ctx context.Context, name string, capacity int, roomType string) (*Room, error) {
	args := m.Called(ctx, name, capacity, roomType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Room), args.Error(1)
}

func (m *MockRoomRepo) GetRoomByID(ctx context.Context, roomID int) (*Room, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Room), args.Error(1)
}

func (m *MockRoomRepo) GetAllRooms(ctx context.Context) ([]Room, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Room), args.Error(1)
}

func (m *MockRoomRepo) Book(ctx context.Context, p BookParams, decide func(ledger []Booking) error) (*Booking, error) {
	if err := decide(m.ledger); err != nil {
		return nil, err
	}
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRoomRepo) CancelBooking(ctx context.Context, bookingID int) error {
	args := m.Called(ctx, bookingID)
	return args.Error(0)
}

func (m *MockRoomRepo) GetBookingByID(ctx context.Context, bookingID int) (*Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRoomRepo) ListBookings(ctx context.Context, roomID int, from time.Time) ([]Booking, error) {
	args := m.Called(ctx, roomID, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func (m *MockRoomRepo) DayLedger(ctx context.Context, roomID int, date time.Time) ([]Booking, error) {
	args := m.Called(ctx, roomID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Booking), args.Error(1)
}

func futureDate(t *testing.T) string {
	t.Helper()
	return time.Now().AddDate(0, 0, 7).Format("2006-01-02")
}

func TestServiceBookRoomAccepted(t *testing.T) {
	repo := new(MockRoomRepo)
	svc := NewService(repo)

	repo.On("GetRoomByID", mock.Anything, 1).Return(&Room{ID: 1, Name: "Studio A"}, nil)
	repo.On("Book", mock.Anything, mock.MatchedBy(func(p BookParams) bool {
		return p.RoomID == 1 && p.Interval.StartClock() == "09:00" && p.Interval.EndClock() == "10:00"
	})).Return(&Booking{ID: 7, RoomID: 1, StartTime: "09:00:00", EndTime: "10:00:00", Status: StatusConfirmed}, nil)

	b, err := svc.BookRoom(context.Background(), 1, 3, BookRoomRequest{
		Date:      futureDate(t),
		StartTime: "09:00",
		EndTime:   "10:00",
	})

	require.NoError(t, err)
	assert.Equal(t, 7, b.ID)
	repo.AssertExpectations(t)
}

func TestServiceBookRoomDoubleBooking(t *testing.T) {
	repo := new(MockRoomRepo)
	repo.ledger = []Booking{
		{ID: 11, RoomID: 1, StartTime: "09:00:00", EndTime: "10:00:00", Status: StatusConfirmed},
	}
	svc := NewService(repo)

	repo.On("GetRoomByID", mock.Anything, 1).Return(&Room{ID: 1}, nil)

	_, err := svc.BookRoom(context.Background(), 1, 3, BookRoomRequest{
		Date:      futureDate(t),
		StartTime: "09:30",
		EndTime:   "10:30",
	})

	var conflict *schedule.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, 11, conflict.Conflict.EntryID)
	assert.Equal(t, schedule.KindRoomBooking, conflict.Conflict.Kind)
	repo.AssertNotCalled(t, "Book")
}

func TestServiceBookRoomBackToBack(t *testing.T) {
	repo := new(MockRoomRepo)
	repo.ledger = []Booking{
		{ID: 11, RoomID: 1, StartTime: "09:00:00", EndTime: "10:00:00", Status: StatusConfirmed},
	}
	svc := NewService(repo)

	repo.On("GetRoomByID", mock.Anything, 1).Return(&Room{ID: 1}, nil)
	repo.On("Book", mock.Anything, mock.Anything).
		Return(&Booking{ID: 12, RoomID: 1, StartTime: "10:00:00", EndTime: "11:00:00"}, nil)

	b, err := svc.BookRoom(context.Background(), 1, 3, BookRoomRequest{
		Date:      futureDate(t),
		StartTime: "10:00",
		EndTime:   "11:00",
	})

	require.NoError(t, err)
	assert.Equal(t, 12, b.ID)
}

func TestServiceBookRoomPastDate(t *testing.T) {
	repo := new(MockRoomRepo)
	svc := NewService(repo)

	_, err := svc.BookRoom(context.Background(), 1, 3, BookRoomRequest{
		Date:      "2020-01-01",
		StartTime: "09:00",
		EndTime:   "10:00",
	})

	assert.ErrorIs(t, err, ErrPastDate)
	repo.AssertNotCalled(t, "Book")
}

func TestServiceBookRoomInvalidInterval(t *testing.T) {
	repo := new(MockRoomRepo)
	svc := NewService(repo)

	_, err := svc.BookRoom(context.Background(), 1, 3, BookRoomRequest{
		Date:      futureDate(t),
		StartTime: "10:00",
		EndTime:   "10:00",
	})

	assert.ErrorIs(t, err, schedule.ErrInvalidInterval)
}

func TestServiceIsAvailable(t *testing.T) {
	repo := new(MockRoomRepo)
	svc := NewService(repo)

	date := time.Now().AddDate(0, 0, 1)
	repo.On("DayLedger", mock.Anything, 1, date).Return([]Booking{
		{ID: 1, StartTime: "08:00:00", EndTime: "09:00:00"},
	}, nil)

	iv, err := schedule.NewIntervalFromClock("08:30", "09:30")
	require.NoError(t, err)

	free, err := svc.IsAvailable(context.Background(), 1, date, iv)
	require.NoError(t, err)
	assert.False(t, free)

	iv2, err := schedule.NewIntervalFromClock("09:00", "10:00")
	require.NoError(t, err)

	free, err = svc.IsAvailable(context.Background(), 1, date, iv2)
	require.NoError(t, err)
	assert.True(t, free)
}
