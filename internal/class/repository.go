package class

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
	ErrClassNotFound        = errors.New("class not found")
	ErrClassNotCancellable  = errors.New("class already started or finished")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrRegistrationNotLive  = errors.New("registration is not active")
)

const classColumns = `id, name, description, trainer_id, room_id, scheduled_time, duration_minutes, capacity, status, created_at`

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

func (r *repository) Create(ctx context.Context, p CreateParams, decide func(l Ledgers) error) (*Class, error) {
	day := p.ScheduledTime.UTC().Format("2006-01-02")
	iv, err := schedule.NewIntervalFromSpan(p.ScheduledTime, p.DurationMinutes)
	if err != nil {
		return nil, err
	}

	var created Class
	err = db.InTxRetry(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := db.AcquireDayLock(ctx, tx, schedule.ScopeTrainer, p.TrainerID, day); err != nil {
			return err
		}
		if err := db.AcquireDayLock(ctx, tx, schedule.ScopeRoom, p.RoomID, day); err != nil {
			return err
		}

		ledgers, err := r.loadLedgers(ctx, tx, p, day)
		if err != nil {
			return err
		}

		if err := decide(ledgers); err != nil {
			return err
		}

		insert := `
			INSERT INTO fitness_classes (name, description, trainer_id, room_id, scheduled_time, duration_minutes, capacity)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING ` + classColumns
		if err := tx.GetContext(ctx, &created, insert,
			p.Name, p.Description, p.TrainerID, p.RoomID, p.ScheduledTime, p.DurationMinutes, p.Capacity); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO room_bookings (room_id, booking_date, start_time, end_time, purpose, booked_by, class_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.RoomID, day, iv.StartClock(), iv.EndClock(), "Class: "+p.Name, p.CreatedBy, created.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) loadLedgers(ctx context.Context, tx *sqlx.Tx, p CreateParams, day string) (Ledgers, error) {
	var l Ledgers

	trainerSessions := []spanRow{}
	if err := tx.SelectContext(ctx, &trainerSessions, `
		SELECT id, scheduled_time, duration_minutes
		FROM personal_training_sessions
		WHERE trainer_id = $1 AND scheduled_time::date = $2 AND status = 'scheduled'
		ORDER BY scheduled_time`, p.TrainerID, day); err != nil {
		return l, err
	}
	entries, err := spanEntries(trainerSessions, schedule.KindSession)
	if err != nil {
		return l, err
	}
	l.Trainer = entries

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

	roomBookings := []clockRow{}
	if err := tx.SelectContext(ctx, &roomBookings, `
		SELECT id, start_time, end_time
		FROM room_bookings
		WHERE room_id = $1 AND booking_date = $2 AND status = 'confirmed'
		ORDER BY start_time`, p.RoomID, day); err != nil {
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
		ORDER BY scheduled_time`, p.RoomID, day); err != nil {
		return l, err
	}
	sessionEntries, err := spanEntries(roomSessions, schedule.KindSession)
	if err != nil {
		return l, err
	}
	l.Room = append(l.Room, sessionEntries...)

	return l, nil
}

func (r *repository) GetByID(ctx context.Context, classID int) (*Class, error) {
	var cls Class
	query := `SELECT ` + classColumns + ` FROM fitness_classes WHERE id = $1`
	err := r.db.GetContext(ctx, &cls, query, classID)
	if err == sql.ErrNoRows {
		return nil, ErrClassNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cls, nil
}

func (r *repository) ListUpcoming(ctx context.Context) ([]ClassInfo, error) {
	classes := []ClassInfo{}
	query := `
		SELECT c.id, c.name, c.description, c.trainer_id, c.room_id, c.scheduled_time,
		       c.duration_minutes, c.capacity, c.status, c.created_at,
		       COUNT(r.id) FILTER (WHERE r.status <> 'cancelled') AS registered_count
		FROM fitness_classes c
		LEFT JOIN class_registrations r ON r.class_id = c.id
		WHERE c.scheduled_time >= NOW() AND c.status = 'scheduled'
		GROUP BY c.id
		ORDER BY c.scheduled_time`
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, err
	}
	return classes, nil
}

// CancelClass is idempotent and releases the class's room booking in
// the same transaction.
func (r *repository) CancelClass(ctx context.Context, classID int) error {
	return db.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var status string
		err := tx.GetContext(ctx, &status, `SELECT status FROM fitness_classes WHERE id = $1 FOR UPDATE`, classID)
		if err == sql.ErrNoRows {
			return ErrClassNotFound
		}
		if err != nil {
			return err
		}

		switch status {
		case StatusCancelled:
			return nil
		case StatusInProgress, StatusCompleted:
			return ErrClassNotCancellable
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE fitness_classes SET status = 'cancelled' WHERE id = $1`, classID); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE room_bookings SET status = 'cancelled' WHERE class_id = $1 AND status = 'confirmed'`, classID)
		return err
	})
}

func (r *repository) Register(ctx context.Context, memberID, classID int, decide func(st RegistrationState) error) (*Registration, error) {
	var reg Registration
	err := db.InTxRetry(ctx, r.db, func(tx *sqlx.Tx) error {
		var cls Class
		err := tx.GetContext(ctx, &cls, `SELECT `+classColumns+` FROM fitness_classes WHERE id = $1`, classID)
		if err == sql.ErrNoRows {
			return ErrClassNotFound
		}
		if err != nil {
			return err
		}

		day := cls.ScheduledTime.UTC().Format("2006-01-02")
		if err := db.AcquireDayLock(ctx, tx, schedule.ScopeClass, classID, day); err != nil {
			return err
		}

		var existing *Registration
		var found Registration
		err = tx.GetContext(ctx, &found, `
			SELECT id, member_id, class_id, status, registered_at
			FROM class_registrations
			WHERE member_id = $1 AND class_id = $2 AND status <> 'cancelled'`,
			memberID, classID)
		if err != nil && err != sql.ErrNoRows {
			return err
		}
		if err == nil {
			existing = &found
		}

		var liveCount int
		if err := tx.GetContext(ctx, &liveCount, `
			SELECT COUNT(*) FROM class_registrations
			WHERE class_id = $1 AND status <> 'cancelled'`, classID); err != nil {
			return err
		}

		if err := decide(RegistrationState{Class: &cls, LiveCount: liveCount, Existing: existing}); err != nil {
			return err
		}

		insert := `
			INSERT INTO class_registrations (member_id, class_id)
			VALUES ($1, $2)
			RETURNING id, member_id, class_id, status, registered_at`
		return tx.GetContext(ctx, &reg, insert, memberID, classID)
	})
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *repository) GetRegistrationByID(ctx context.Context, registrationID int) (*Registration, error) {
	var reg Registration
	query := `
		SELECT id, member_id, class_id, status, registered_at
		FROM class_registrations WHERE id = $1`
	err := r.db.GetContext(ctx, &reg, query, registrationID)
	if err == sql.ErrNoRows {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *repository) CancelRegistration(ctx context.Context, registrationID int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE class_registrations SET status = 'cancelled' WHERE id = $1 AND status = 'registered'`,
		registrationID)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRegistrationNotLive
	}
	return nil
}

func (r *repository) SetAttendance(ctx context.Context, registrationID int, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE class_registrations SET status = $2 WHERE id = $1 AND status = 'registered'`,
		registrationID, status)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRegistrationNotLive
	}
	return nil
}

func (r *repository) ListRegistrationsForMember(ctx context.Context, memberID int) ([]RegistrationInfo, error) {
	regs := []RegistrationInfo{}
	query := `
		SELECT r.id, r.member_id, r.class_id, r.status, r.registered_at,
		       c.name AS class_name, c.scheduled_time
		FROM class_registrations r
		JOIN fitness_classes c ON c.id = r.class_id
		WHERE r.member_id = $1
		ORDER BY c.scheduled_time DESC`
	if err := r.db.SelectContext(ctx, &regs, query, memberID); err != nil {
		return nil, err
	}
	return regs, nil
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
