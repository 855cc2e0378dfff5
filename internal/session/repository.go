package session

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/BasharSaadi/fitness-club-project/internal/db"
	"github.com/BasharSaadi/fitness-club-project/internal/schedule"

	"github.com/jmoiron/sqlx"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionNotLive  = errors.New("session is not scheduled")
	ErrSessionConflict = errors.New("session state changed concurrently")
)

const sessionColumns = `id, member_id, trainer_id, room_id, scheduled_time, duration_minutes, notes, status, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

type spanRow struct {
	ID              int       `db:"id"`
	ScheduledTime   time.Time `db:"scheduled_time"`
	DurationMinutes int       `db:"duration_minutes"`
}

type clockRow struct {
	ID        int    `db:"id"`
	StartTime string `db:"start_time"`
	EndTime   string `db:"end_time"`
}

func (r *repository) Book(ctx context.Context, p BookParams, decide func(l Ledgers) error) (*Session, error) {
	return r.bookTx(ctx, p, decide, nil)
}

func (r *repository) Reschedule(ctx context.Context, sessionID int, p BookParams, decide func(l Ledgers) error) (*Session, error) {
	return r.bookTx(ctx, p, decide, &sessionID)
}

func (r *repository) bookTx(ctx context.Context, p BookParams, decide func(l Ledgers) error, cancelID *int) (*Session, error) {
	day := p.ScheduledTime.UTC().Format("2006-01-02")
	weekday := schedule.Weekday(p.ScheduledTime.UTC())

	var booked Session
	err := db.InTxRetry(ctx, r.db, func(tx *sqlx.Tx) error {
		// Lock order is fixed (trainer, then room) so concurrent
		// bookings never deadlock on each other.
		if err := db.AcquireDayLock(ctx, tx, schedule.ScopeTrainer, p.TrainerID, day); err != nil {
			return err
		}
		if p.RoomID != nil {
			if err := db.AcquireDayLock(ctx, tx, schedule.ScopeRoom, *p.RoomID, day); err != nil {
				return err
			}
		}

		if cancelID != nil {
			res, err := tx.ExecContext(ctx,
				`UPDATE personal_training_sessions SET status = 'cancelled' WHERE id = $1 AND status = 'scheduled'`,
				*cancelID)
			if err != nil {
				return err
			}
			rows, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if rows == 0 {
				return ErrSessionNotLive
			}
		}

		ledgers, err := r.loadLedgers(ctx, tx, p, day, weekday)
		if err != nil {
			return err
		}

		if err := decide(ledgers); err != nil {
			return err
		}

		insert := `
			INSERT INTO personal_training_sessions (member_id, trainer_id, room_id, scheduled_time, duration_minutes, notes)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING ` + sessionColumns
		return tx.GetContext(ctx, &booked, insert,
			p.MemberID, p.TrainerID, p.RoomID, p.ScheduledTime, p.DurationMinutes, p.Notes)
	})
	if err != nil {
		return nil, err
	}
	return &booked, nil
}

func (r *repository) loadLedgers(ctx context.Context, tx *sqlx.Tx, p BookParams, day, weekday string) (Ledgers, error) {
	var l Ledgers

	availability := []clockRow{}
	if err := tx.SelectContext(ctx, &availability, `
		SELECT id, start_time, end_time
		FROM trainer_availability
		WHERE trainer_id = $1 AND day_of_week = $2
		ORDER BY start_time`, p.TrainerID, weekday); err != nil {
		return l, err
	}
	entries, err := clockEntries(availability, schedule.KindAvailability)
	if err != nil {
		return l, err
	}
	l.Availability = entries

	trainerSessions := []spanRow{}
	if err := tx.SelectContext(ctx, &trainerSessions, `
		SELECT id, scheduled_time, duration_minutes
		FROM personal_training_sessions
		WHERE trainer_id = $1 AND scheduled_time::date = $2 AND status = 'scheduled'
		ORDER BY scheduled_time`, p.TrainerID, day); err != nil {
		return l, err
	}
	if l.Trainer, err = spanEntries(trainerSessions, schedule.KindSession); err != nil {
		return l, err
	}

	trainerClasses := []spanRow{}
	if err := tx.SelectContext(ctx, &trainerClasses, `
		SELECT id, scheduled_time, duration_minutes
		FROM fitness_classes
		WHERE trainer_id = $1 AND scheduled_time::date = $2 AND status NOT IN ('cancelled', 'completed')
		ORDER BY scheduled_time`, p.TrainerID, day); err != nil {
		return l, err
	}
	classEntries, err := spanEntries(trainerClasses, schedule.KindClass)
	if err != nil {
		return l, err
	}
	l.Trainer = append(l.Trainer, classEntries...)

	if p.RoomID != nil {
		// Classes hold their room through a room booking made at class
		// creation, so the two queries below cover them too.
		roomBookings := []clockRow{}
		if err := tx.SelectContext(ctx, &roomBookings, `
			SELECT id, start_time, end_time
			FROM room_bookings
			WHERE room_id = $1 AND booking_date = $2 AND status = 'confirmed'
			ORDER BY start_time`, *p.RoomID, day); err != nil {
			return l, err
		}
		if l.Room, err = clockEntries(roomBookings, schedule.KindRoomBooking); err != nil {
			return l, err
		}

		roomSessions := []spanRow{}
		if err := tx.SelectContext(ctx, &roomSessions, `
			SELECT id, scheduled_time, duration_minutes
			FROM personal_training_sessions
			WHERE room_id = $1 AND scheduled_time::date = $2 AND status = 'scheduled'
			ORDER BY scheduled_time`, *p.RoomID, day); err != nil {
			return l, err
		}
		sessionEntries, err := spanEntries(roomSessions, schedule.KindSession)
		if err != nil {
			return l, err
		}
		l.Room = append(l.Room, sessionEntries...)
	}

	memberSessions := []spanRow{}
	if err := tx.SelectContext(ctx, &memberSessions, `
		SELECT id, scheduled_time, duration_minutes
		FROM personal_training_sessions
		WHERE member_id = $1 AND scheduled_time::date = $2 AND status = 'scheduled'
		ORDER BY scheduled_time`, p.MemberID, day); err != nil {
		return l, err
	}
	if l.Member, err = spanEntries(memberSessions, schedule.KindSession); err != nil {
		return l, err
	}

	return l, nil
}

func (r *repository) GetByID(ctx context.Context, sessionID int) (*Session, error) {
	var s Session
	query := `SELECT ` + sessionColumns + ` FROM personal_training_sessions WHERE id = $1`
	err := r.db.GetContext(ctx, &s, query, sessionID)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Cancel(ctx context.Context, sessionID int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE personal_training_sessions SET status = 'cancelled' WHERE id = $1 AND status = 'scheduled'`,
		sessionID)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrSessionConflict
	}
	return nil
}

func (r *repository) ListForMember(ctx context.Context, memberID int) ([]Session, error) {
	sessions := []Session{}
	query := `
		SELECT ` + sessionColumns + `
		FROM personal_training_sessions
		WHERE member_id = $1
		ORDER BY scheduled_time DESC`
	if err := r.db.SelectContext(ctx, &sessions, query, memberID); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *repository) ListForTrainer(ctx context.Context, trainerID int, from time.Time) ([]Session, error) {
	sessions := []Session{}
	query := `
		SELECT ` + sessionColumns + `
		FROM personal_training_sessions
		WHERE trainer_id = $1 AND scheduled_time >= $2
		ORDER BY scheduled_time`
	if err := r.db.SelectContext(ctx, &sessions, query, trainerID, from); err != nil {
		return nil, err
	}
	return sessions, nil
}

func clockEntries(rows []clockRow, kind schedule.Kind) ([]schedule.Entry, error) {
	entries := make([]schedule.Entry, 0, len(rows))
	for _, row := range rows {
		iv, err := schedule.NewIntervalFromClock(row.StartTime, row.EndTime)
		if err != nil {
			return nil, err
		}
		entries = append(entries, schedule.Entry{ID: row.ID, Kind: kind, Interval: iv})
	}
	return entries, nil
}

func spanEntries(rows []spanRow, kind schedule.Kind) ([]schedule.Entry, error) {
	entries := make([]schedule.Entry, 0, len(rows))
	for _, row := range rows {
		iv, err := schedule.NewIntervalFromSpan(row.ScheduledTime, row.DurationMinutes)
		if err != nil {
			return nil, err
		}
		entries = append(entries, schedule.Entry{ID: row.ID, Kind: kind, Interval: iv})
	}
	return entries, nil
}
