package integration_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BasharSaadi/fitness-club-project/internal/room"
	"github.com/BasharSaadi/fitness-club-project/internal/schedule"
)

func futureDateString() string {
	return time.Now().AddDate(0, 0, 7).Format("2006-01-02")
}

func TestRoomDoubleBooking_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	database := setupTestDB(t)
	defer database.Close()
	cleanDatabase(t, database)

	adminID := seedUser(t, database, "admin@test.local", "admin")
	svc := room.NewService(room.NewRepository(database))
	ctx := context.Background()

	rm, err := svc.CreateRoom(ctx, room.CreateRoomRequest{Name: "Studio A", Capacity: 20, RoomType: "studio"})
	require.NoError(t, err)

	date := futureDateString()

	first, err := svc.BookRoom(ctx, rm.ID, adminID, room.BookRoomRequest{
		Date: date, StartTime: "09:00", EndTime: "10:00",
	})
	require.NoError(t, err)

	// Overlapping request is rejected with the blocking booking's ID.
	_, err = svc.BookRoom(ctx, rm.ID, adminID, room.BookRoomRequest{
		Date: date, StartTime: "09:30", EndTime: "10:30",
	})
	var conflict *schedule.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, first.ID, conflict.Conflict.EntryID)

	// Back-to-back is fine.
	_, err = svc.BookRoom(ctx, rm.ID, adminID, room.BookRoomRequest{
		Date: date, StartTime: "10:00", EndTime: "11:00",
	})
	require.NoError(t, err)

	// Cancelling frees the window.
	require.NoError(t, svc.CancelBooking(ctx, first.ID))
	_, err = svc.BookRoom(ctx, rm.ID, adminID, room.BookRoomRequest{
		Date: date, StartTime: "09:00", EndTime: "10:00",
	})
	require.NoError(t, err)
}

func TestConcurrentRoomBooking_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	database := setupTestDB(t)
	defer database.Close()
	cleanDatabase(t, database)

	adminID := seedUser(t, database, "admin@test.local", "admin")
	svc := room.NewService(room.NewRepository(database))
	ctx := context.Background()

	rm, err := svc.CreateRoom(ctx, room.CreateRoomRequest{Name: "Spin Room", Capacity: 15, RoomType: "spin"})
	require.NoError(t, err)

	date := futureDateString()
	const workers = 8

	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.BookRoom(ctx, rm.ID, adminID, room.BookRoomRequest{
				Date: date, StartTime: "18:00", EndTime: "19:00",
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var conflict *schedule.ConflictError
		assert.True(t, errors.As(err, &conflict), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded, "exactly one concurrent booking should win")

	var count int
	require.NoError(t, database.Get(&count, `
		SELECT COUNT(*) FROM room_bookings
		WHERE room_id = $1 AND status = 'confirmed'`, rm.ID))
	assert.Equal(t, 1, count)
}
