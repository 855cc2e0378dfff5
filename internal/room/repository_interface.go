package room

import (
	"context"
	"time"

	"github.com/BasharSaadi/fitness-club-project/internal/schedule"
)

type BookParams struct {
	RoomID   int
	Date     time.Time
	Interval schedule.Interval
	Purpose  *string
	BookedBy *int
}

type Repository interface {
	CreateRoom(ctx context.Context, name string, capacity int, roomType string) (*Room, error)
	GetRoomByID(ctx context.Context, roomID int) (*Room, error)
	GetAllRooms(ctx context.Context) ([]Room, error)

	// Book serializes on the (room, date) ledger scope, hands the
	// confirmed bookings for that day to decide, and inserts only when
	// decide returns nil.
	Book(ctx context.Context, p BookParams, decide func(ledger []Booking) error) (*Booking, error)
	CancelBooking(ctx context.Context, bookingID int) error
	GetBookingByID(ctx context.Context, bookingID int) (*Booking, error)
	ListBookings(ctx context.Context, roomID int, from time.Time) ([]Booking, error)
	DayLedger(ctx context.Context, roomID int, date time.Time) ([]Booking, error)
}
