package integration_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BasharSaadi/fitness-club-project/internal/schedule"
	"github.com/BasharSaadi/fitness-club-project/internal/session"
	"github.com/BasharSaadi/fitness-club-project/internal/trainer"
	"github.com/BasharSaadi/fitness-club-project/internal/user"
)

func TestSessionBookingFlow_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	database := setupTestDB(t)
	defer database.Close()
	cleanDatabase(t, database)

	trainerID := seedUser(t, database, "trainer@test.local", "trainer")
	memberID := seedUser(t, database, "member@test.local", "member")
	otherID := seedUser(t, database, "other@test.local", "member")

	ctx := context.Background()
	userRepo := user.NewRepository(database)
	trainerSvc := trainer.NewService(trainer.NewRepository(database))
	sessionSvc := session.NewService(session.NewRepository(database), userRepo, nil)

	when := time.Now().UTC().AddDate(0, 0, 7)
	day := schedule.Weekday(when)

	_, err := trainerSvc.AddAvailability(ctx, trainerID, trainer.AddAvailabilityRequest{
		DayOfWeek: day, StartTime: "08:00", EndTime: "18:00",
	})
	require.NoError(t, err)

	at := time.Date(when.Year(), when.Month(), when.Day(), 10, 0, 0, 0, time.UTC)

	booked, err := sessionSvc.Book(ctx, memberID, session.BookSessionRequest{
		TrainerID:       trainerID,
		ScheduledTime:   at.Format(time.RFC3339),
		DurationMinutes: 60,
	})
	require.NoError(t, err)
	assert.Equal(t, session.StatusScheduled, booked.Status)

	// Another member cannot take the same trainer hour.
	_, err = sessionSvc.Book(ctx, otherID, session.BookSessionRequest{
		TrainerID:       trainerID,
		ScheduledTime:   at.Add(30 * time.Minute).Format(time.RFC3339),
		DurationMinutes: 60,
	})
	var conflict *schedule.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "trainer", conflict.Resource)

	// Outside the trainer's availability window.
	_, err = sessionSvc.Book(ctx, otherID, session.BookSessionRequest{
		TrainerID:       trainerID,
		ScheduledTime:   time.Date(when.Year(), when.Month(), when.Day(), 20, 0, 0, 0, time.UTC).Format(time.RFC3339),
		DurationMinutes: 60,
	})
	assert.ErrorIs(t, err, session.ErrOutsideAvailability)

	// Cancelling frees the slot for the other member.
	require.NoError(t, sessionSvc.Cancel(ctx, memberID, booked.ID))
	_, err = sessionSvc.Book(ctx, otherID, session.BookSessionRequest{
		TrainerID:       trainerID,
		ScheduledTime:   at.Format(time.RFC3339),
		DurationMinutes: 60,
	})
	require.NoError(t, err)
}
