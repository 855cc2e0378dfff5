package trainer

import (
	"context"
	"errors"
	"time"

	"github.com/BasharSaadi/fitness-club-project/internal/db"
	"github.com/BasharSaadi/fitness-club-project/internal/schedule"

	"github.com/jmoiron/sqlx"
)

var ErrAvailabilityNotFound = errors.New("availability slot not found")

const availabilityColumns = `id, trainer_id, day_of_week, start_time, end_time`

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

func (r *repository) Add(ctx context.Context, p AddParams, decide func(ledger []Availability) error) (*Availability, error) {
	var added Availability
	err := db.InTxRetry(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := db.AcquireDayLock(ctx, tx, schedule.ScopeAvailability, p.TrainerID, p.DayOfWeek); err != nil {
			return err
		}

		ledger := []Availability{}
		query := `
			SELECT ` + availabilityColumns + `
			FROM trainer_availability
			WHERE trainer_id = $1 AND day_of_week = $2
			ORDER BY start_time`
		if err := tx.SelectContext(ctx, &ledger, query, p.TrainerID, p.DayOfWeek); err != nil {
			return err
		}

		if err := decide(ledger); err != nil {
			return err
		}

		insert := `
			INSERT INTO trainer_availability (trainer_id, day_of_week, start_time, end_time)
			VALUES ($1, $2, $3, $4)
			RETURNING ` + availabilityColumns
		return tx.GetContext(ctx, &added, insert,
			p.TrainerID, p.DayOfWeek, p.Interval.StartClock(), p.Interval.EndClock())
	})
	if err != nil {
		return nil, err
	}
	return &added, nil
}

func (r *repository) ListForTrainer(ctx context.Context, trainerID int) ([]Availability, error) {
	slots := []Availability{}
	query := `
		SELECT ` + availabilityColumns + `
		FROM trainer_availability
		WHERE trainer_id = $1
		ORDER BY
			CASE day_of_week
				WHEN 'monday' THEN 1 WHEN 'tuesday' THEN 2 WHEN 'wednesday' THEN 3
				WHEN 'thursday' THEN 4 WHEN 'friday' THEN 5 WHEN 'saturday' THEN 6
				ELSE 7
			END,
			start_time`
	if err := r.db.SelectContext(ctx, &slots, query, trainerID); err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *repository) ListForDay(ctx context.Context, trainerID int, dayOfWeek string) ([]Availability, error) {
	slots := []Availability{}
	query := `
		SELECT ` + availabilityColumns + `
		FROM trainer_availability
		WHERE trainer_id = $1 AND day_of_week = $2
		ORDER BY start_time`
	if err := r.db.SelectContext(ctx, &slots, query, trainerID, dayOfWeek); err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *repository) Delete(ctx context.Context, trainerID, availabilityID int) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM trainer_availability WHERE id = $1 AND trainer_id = $2`,
		availabilityID, trainerID)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAvailabilityNotFound
	}
	return nil
}

func (r *repository) UpcomingCommitments(ctx context.Context, trainerID int, from time.Time) ([]ScheduleItem, error) {
	items := []ScheduleItem{}
	query := `
		SELECT 'class' AS kind, id, name AS title, scheduled_time, duration_minutes, status
		FROM fitness_classes
		WHERE trainer_id = $1 AND scheduled_time >= $2 AND status NOT IN ('cancelled', 'completed')
		UNION ALL
		SELECT 'pt_session' AS kind, id, 'Personal training' AS title, scheduled_time, duration_minutes, status
		FROM personal_training_sessions
		WHERE trainer_id = $1 AND scheduled_time >= $2 AND status = 'scheduled'
		ORDER BY scheduled_time`
	if err := r.db.SelectContext(ctx, &items, query, trainerID, from); err != nil {
		return nil, err
	}
	return items, nil
}
