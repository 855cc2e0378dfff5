package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BasharSaadi/fitness-club-project/internal/schedule"
	"github.com/BasharSaadi/fitness-club-project/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSessionRepo struct {
	mock.Mock

	ledgers Ledgers
}

func (m *MockSessionRepo) Book(ctx context.Context, p BookParams, decide func(l Ledgers) error) (*Session, error) {
	if err := decide(m.ledgers); err != nil {
		return nil, err
	}
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockSessionRepo) Reschedule(ctx context.Context, sessionID int, p BookParams, decide func(l Ledgers) error) (*Session, error) {
	if err := decide(m.ledgers); err != nil {
		return nil, err
	}
	args := m.Called(ctx, sessionID, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockSessionRepo) GetByID(ctx context.Context, sessionID int) (*Session, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Session), args.Error(1)
}

func (m *MockSessionRepo) Cancel(ctx context.Context, sessionID int) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockSessionRepo) ListForMember(ctx context.Context, memberID int) ([]Session, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Session), args.Error(1)
}

func (m *MockSessionRepo) ListForTrainer(ctx context.Context, trainerID int, from time.Time) ([]Session, error) {
	args := m.Called(ctx, trainerID, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Session), args.Error(1)
}

type MockDirectory struct{ mock.Mock }

func (m *MockDirectory) FindByID(ctx context.Context, id int) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) SendBookingConfirmation(ctx context.Context, email, name, bookingType, details string, when time.Time) error {
	args := m.Called(ctx, email, name, bookingType, details, when)
	return args.Error(0)
}

func (m *MockNotifier) SendCancellation(ctx context.Context, email, name, bookingType, details string) error {
	args := m.Called(ctx, email, name, bookingType, details)
	return args.Error(0)
}

func entry(id int, kind schedule.Kind, start, end string) schedule.Entry {
	iv, err := schedule.NewIntervalFromClock(start, end)
	if err != nil {
		panic(err)
	}
	return schedule.Entry{ID: id, Kind: kind, Interval: iv}
}

// nextWeekAt returns a time seven days out at the given clock hour, so
// booking validation always sees a future timestamp.
func nextWeekAt(hour int) time.Time {
	base := time.Now().AddDate(0, 0, 7)
	return time.Date(base.Year(), base.Month(), base.Day(), hour, 0, 0, 0, time.UTC)
}

func newTestService(repo *MockSessionRepo) (Service, *MockDirectory, *MockNotifier) {
	users := new(MockDirectory)
	mail := new(MockNotifier)
	return NewService(repo, users, mail), users, mail
}

func TestServiceBookAccepted(t *testing.T) {
	repo := new(MockSessionRepo)
	repo.ledgers.Availability = []schedule.Entry{
		entry(1, schedule.KindAvailability, "09:00", "17:00"),
	}
	svc, users, mail := newTestService(repo)

	when := nextWeekAt(10)
	repo.On("Book", mock.Anything, mock.MatchedBy(func(p BookParams) bool {
		return p.MemberID == 5 && p.TrainerID == 2 && p.DurationMinutes == 60
	})).Return(&Session{ID: 7, MemberID: 5, TrainerID: 2, ScheduledTime: when, DurationMinutes: 60, Status: StatusScheduled}, nil)
	users.On("FindByID", mock.Anything, 5).Return(&user.User{ID: 5, Email: "m@club.test", FirstName: "Lena"}, nil)
	mail.On("SendBookingConfirmation", mock.Anything, "m@club.test", "Lena",
		"Personal Training", mock.Anything, when).Return(nil)

	sess, err := svc.Book(context.Background(), 5, BookSessionRequest{
		TrainerID:       2,
		ScheduledTime:   when.Format(time.RFC3339),
		DurationMinutes: 60,
	})

	require.NoError(t, err)
	assert.Equal(t, 7, sess.ID)
	repo.AssertExpectations(t)
	mail.AssertExpectations(t)
}

func TestServiceBookOutsideAvailability(t *testing.T) {
	repo := new(MockSessionRepo)
	repo.ledgers.Availability = []schedule.Entry{
		entry(1, schedule.KindAvailability, "09:00", "12:00"),
	}
	svc, _, _ := newTestService(repo)

	// 11:30-12:30 sticks out past the end of the slot.
	when := nextWeekAt(11).Add(30 * time.Minute)
	_, err := svc.Book(context.Background(), 5, BookSessionRequest{
		TrainerID:       2,
		ScheduledTime:   when.Format(time.RFC3339),
		DurationMinutes: 60,
	})

	assert.ErrorIs(t, err, ErrOutsideAvailability)
	repo.AssertNotCalled(t, "Book")
}

func TestServiceBookNoAvailabilityAtAll(t *testing.T) {
	repo := new(MockSessionRepo)
	svc, _, _ := newTestService(repo)

	_, err := svc.Book(context.Background(), 5, BookSessionRequest{
		TrainerID:       2,
		ScheduledTime:   nextWeekAt(10).Format(time.RFC3339),
		DurationMinutes: 60,
	})

	assert.ErrorIs(t, err, ErrOutsideAvailability)
}

func TestServiceBookTrainerBusyWithClass(t *testing.T) {
	repo := new(MockSessionRepo)
	repo.ledgers.Availability = []schedule.Entry{
		entry(1, schedule.KindAvailability, "09:00", "17:00"),
	}
	repo.ledgers.Trainer = []schedule.Entry{
		entry(30, schedule.KindClass, "10:00", "11:00"),
	}
	svc, _, _ := newTestService(repo)

	when := nextWeekAt(10).Add(30 * time.Minute)
	_, err := svc.Book(context.Background(), 5, BookSessionRequest{
		TrainerID:       2,
		ScheduledTime:   when.Format(time.RFC3339),
		DurationMinutes: 60,
	})

	var conflict *schedule.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "trainer", conflict.Resource)
	assert.Equal(t, 30, conflict.Conflict.EntryID)
	assert.Equal(t, schedule.KindClass, conflict.Conflict.Kind)
}

func TestServiceBookOffsetRenderingStillConflicts(t *testing.T) {
	repo := new(MockSessionRepo)
	repo.ledgers.Availability = []schedule.Entry{
		entry(1, schedule.KindAvailability, "09:00", "22:00"),
	}
	repo.ledgers.Trainer = []schedule.Entry{
		entry(30, schedule.KindSession, "18:00", "19:00"),
	}
	svc, _, _ := newTestService(repo)

	// 23:30+05:00 is 18:30 UTC, inside the existing 18:00-19:00 session;
	// the offset rendering must not dodge the conflict check.
	base := time.Now().AddDate(0, 0, 7)
	when := time.Date(base.Year(), base.Month(), base.Day(), 23, 30, 0, 0,
		time.FixedZone("UTC+5", 5*3600))

	_, err := svc.Book(context.Background(), 5, BookSessionRequest{
		TrainerID:       2,
		ScheduledTime:   when.Format(time.RFC3339),
		DurationMinutes: 60,
	})

	var conflict *schedule.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "trainer", conflict.Resource)
	assert.Equal(t, 30, conflict.Conflict.EntryID)
	repo.AssertNotCalled(t, "Book")
}

func TestServiceBookMemberDoubleBooked(t *testing.T) {
	repo := new(MockSessionRepo)
	repo.ledgers.Availability = []schedule.Entry{
		entry(1, schedule.KindAvailability, "09:00", "17:00"),
	}
	repo.ledgers.Member = []schedule.Entry{
		entry(40, schedule.KindSession, "10:00", "11:00"),
	}
	svc, _, _ := newTestService(repo)

	_, err := svc.Book(context.Background(), 5, BookSessionRequest{
		TrainerID:       2,
		ScheduledTime:   nextWeekAt(10).Format(time.RFC3339),
		DurationMinutes: 60,
	})

	var conflict *schedule.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "member", conflict.Resource)
}

func TestServiceBookPastTime(t *testing.T) {
	repo := new(MockSessionRepo)
	svc, _, _ := newTestService(repo)

	_, err := svc.Book(context.Background(), 5, BookSessionRequest{
		TrainerID:       2,
		ScheduledTime:   time.Now().Add(-time.Hour).Format(time.RFC3339),
		DurationMinutes: 60,
	})

	assert.ErrorIs(t, err, ErrPastTime)
}

func TestServiceCancel(t *testing.T) {
	repo := new(MockSessionRepo)
	svc, users, mail := newTestService(repo)

	when := nextWeekAt(10)
	repo.On("GetByID", mock.Anything, 7).
		Return(&Session{ID: 7, MemberID: 5, TrainerID: 2, ScheduledTime: when, Status: StatusScheduled}, nil)
	repo.On("Cancel", mock.Anything, 7).Return(nil)
	users.On("FindByID", mock.Anything, 5).Return(&user.User{ID: 5, Email: "m@club.test", FirstName: "Lena"}, nil)
	mail.On("SendCancellation", mock.Anything, "m@club.test", "Lena", "Personal Training", mock.Anything).Return(nil)

	require.NoError(t, svc.Cancel(context.Background(), 5, 7))
	repo.AssertExpectations(t)
	mail.AssertExpectations(t)
}

func TestServiceCancelIdempotent(t *testing.T) {
	repo := new(MockSessionRepo)
	svc, _, _ := newTestService(repo)

	repo.On("GetByID", mock.Anything, 7).
		Return(&Session{ID: 7, MemberID: 5, Status: StatusCancelled}, nil)

	require.NoError(t, svc.Cancel(context.Background(), 5, 7))
	repo.AssertNotCalled(t, "Cancel")
}

func TestServiceCancelNotOwner(t *testing.T) {
	repo := new(MockSessionRepo)
	svc, _, _ := newTestService(repo)

	repo.On("GetByID", mock.Anything, 7).
		Return(&Session{ID: 7, MemberID: 99, Status: StatusScheduled}, nil)

	err := svc.Cancel(context.Background(), 5, 7)
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestServiceCancelCompleted(t *testing.T) {
	repo := new(MockSessionRepo)
	svc, _, _ := newTestService(repo)

	repo.On("GetByID", mock.Anything, 7).
		Return(&Session{ID: 7, MemberID: 5, Status: StatusCompleted}, nil)

	err := svc.Cancel(context.Background(), 5, 7)
	assert.ErrorIs(t, err, ErrNotCancellable)
}

func TestServiceReschedule(t *testing.T) {
	repo := new(MockSessionRepo)
	repo.ledgers.Availability = []schedule.Entry{
		entry(1, schedule.KindAvailability, "09:00", "17:00"),
	}
	svc, users, mail := newTestService(repo)

	roomID := 3
	oldTime := nextWeekAt(10)
	newTime := nextWeekAt(14)
	repo.On("GetByID", mock.Anything, 7).
		Return(&Session{ID: 7, MemberID: 5, TrainerID: 2, RoomID: &roomID, ScheduledTime: oldTime, Status: StatusScheduled}, nil)
	repo.On("Reschedule", mock.Anything, 7, mock.MatchedBy(func(p BookParams) bool {
		return p.TrainerID == 2 && p.RoomID != nil && *p.RoomID == 3 && p.ScheduledTime.Equal(newTime)
	})).Return(&Session{ID: 8, MemberID: 5, TrainerID: 2, RoomID: &roomID, ScheduledTime: newTime, DurationMinutes: 60, Status: StatusScheduled}, nil)
	users.On("FindByID", mock.Anything, 5).Return(&user.User{ID: 5, Email: "m@club.test", FirstName: "Lena"}, nil)
	mail.On("SendBookingConfirmation", mock.Anything, "m@club.test", "Lena",
		"Personal Training", mock.Anything, newTime).Return(nil)

	sess, err := svc.Reschedule(context.Background(), 5, 7, RescheduleRequest{
		ScheduledTime:   newTime.Format(time.RFC3339),
		DurationMinutes: 60,
	})

	require.NoError(t, err)
	assert.Equal(t, 8, sess.ID)
	repo.AssertExpectations(t)
}

func TestServiceRescheduleCancelledSession(t *testing.T) {
	repo := new(MockSessionRepo)
	svc, _, _ := newTestService(repo)

	repo.On("GetByID", mock.Anything, 7).
		Return(&Session{ID: 7, MemberID: 5, Status: StatusCancelled}, nil)

	_, err := svc.Reschedule(context.Background(), 5, 7, RescheduleRequest{
		ScheduledTime:   nextWeekAt(14).Format(time.RFC3339),
		DurationMinutes: 60,
	})

	assert.ErrorIs(t, err, ErrSessionNotLive)
	repo.AssertNotCalled(t, "Reschedule")
}
