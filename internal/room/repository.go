package room

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/BasharSaadi/fitness-club-project/internal/db"
	"github.com/BasharSaadi/fitness-club-project/internal/schedule"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomNameTaken   = errors.New("room name already in use")
	ErrBookingNotFound = errors.New("booking not found")
)

const bookingColumns = `id, room_id, booking_date, start_time, end_time, purpose, booked_by, status, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

func (r *repository) CreateRoom(ctx context.Context, name string, capacity int, roomType string) (*Room, error) {
	query := `
		INSERT INTO rooms (name, capacity, room_type)
		VALUES ($1, $2, $3)
		RETURNING id, name, capacity, room_type, created_at`

	var rm Room
	err := r.db.GetContext(ctx, &rm, query, name, capacity, roomType)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrRoomNameTaken
		}
		return nil, err
	}
	return &rm, nil
}

func (r *repository) GetRoomByID(ctx context.Context, roomID int) (*Room, error) {
	var rm Room
	query := `SELECT id, name, capacity, room_type, created_at FROM rooms WHERE id = $1`
	err := r.db.GetContext(ctx, &rm, query, roomID)
	if err == sql.ErrNoRows {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rm, nil
}

func (r *repository) GetAllRooms(ctx context.Context) ([]Room, error) {
	rooms := []Room{}
	query := `SELECT id, name, capacity, room_type, created_at FROM rooms ORDER BY name`
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *repository) Book(ctx context.Context, p BookParams, decide func(ledger []Booking) error) (*Booking, error) {
	day := p.Date.Format("2006-01-02")

	var booked Booking
	err := db.InTxRetry(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := db.AcquireDayLock(ctx, tx, schedule.ScopeRoom, p.RoomID, day); err != nil {
			return err
		}

		ledger := []Booking{}
		query := `
			SELECT ` + bookingColumns + `
			FROM room_bookings
			WHERE room_id = $1 AND booking_date = $2 AND status = 'confirmed'
			ORDER BY start_time`
		if err := tx.SelectContext(ctx, &ledger, query, p.RoomID, day); err != nil {
			return err
		}

		if err := decide(ledger); err != nil {
			return err
		}

		insert := `
			INSERT INTO room_bookings (room_id, booking_date, start_time, end_time, purpose, booked_by)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING ` + bookingColumns
		return tx.GetContext(ctx, &booked, insert,
			p.RoomID, day, p.Interval.StartClock(), p.Interval.EndClock(), p.Purpose, p.BookedBy)
	})
	if err != nil {
		return nil, err
	}
	return &booked, nil
}

// CancelBooking is idempotent: cancelling an already-cancelled booking
// succeeds without touching the row.
func (r *repository) CancelBooking(ctx context.Context, bookingID int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE room_bookings SET status = 'cancelled' WHERE id = $1 AND status = 'confirmed'`,
		bookingID)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}

	exists, err := db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM room_bookings WHERE id = $1)`, bookingID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrBookingNotFound
	}
	return nil
}

func (r *repository) GetBookingByID(ctx context.Context, bookingID int) (*Booking, error) {
	var b Booking
	query := `SELECT ` + bookingColumns + ` FROM room_bookings WHERE id = $1`
	err := r.db.GetContext(ctx, &b, query, bookingID)
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) ListBookings(ctx context.Context, roomID int, from time.Time) ([]Booking, error) {
	bookings := []Booking{}
	query := `
		SELECT ` + bookingColumns + `
		FROM room_bookings
		WHERE room_id = $1 AND booking_date >= $2
		ORDER BY booking_date, start_time`
	if err := r.db.SelectContext(ctx, &bookings, query, roomID, from.Format("2006-01-02")); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) DayLedger(ctx context.Context, roomID int, date time.Time) ([]Booking, error) {
	ledger := []Booking{}
	query := `
		SELECT ` + bookingColumns + `
		FROM room_bookings
		WHERE room_id = $1 AND booking_date = $2 AND status = 'confirmed'
		ORDER BY start_time`
	if err := r.db.SelectContext(ctx, &ledger, query, roomID, date.Format("2006-01-02")); err != nil {
		return nil, err
	}
	return ledger, nil
}
