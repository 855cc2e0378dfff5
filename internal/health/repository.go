package health

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/BasharSaadi/fitness-club-project/internal/db"

	"github.com/jmoiron/sqlx"
)

var ErrGoalNotFound = errors.New("goal not found")

const (
	metricColumns = `id, member_id, weight_kg, height_cm, heart_rate_bpm, body_fat_percentage, recorded_at`
	goalColumns   = `id, member_id, goal_type, target_value, current_value, deadline, status, created_at`
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(database *sqlx.DB) Repository {
	return &repository{db: database}
}

func (r *repository) InsertMetric(ctx context.Context, p MetricParams, apply func(m Metric, goals []Goal) []GoalUpdate) (*Metric, []GoalUpdate, error) {
	var inserted Metric
	var updates []GoalUpdate

	err := db.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		insert := `
			INSERT INTO health_metrics (member_id, weight_kg, height_cm, heart_rate_bpm, body_fat_percentage)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING ` + metricColumns
		if err := tx.GetContext(ctx, &inserted, insert,
			p.MemberID, p.WeightKg, p.HeightCm, p.HeartRateBpm, p.BodyFatPercentage); err != nil {
			return err
		}

		goals := []Goal{}
		query := `
			SELECT ` + goalColumns + `
			FROM fitness_goals
			WHERE member_id = $1 AND status IN ('active', 'completed')
			ORDER BY id
			FOR UPDATE`
		if err := tx.SelectContext(ctx, &goals, query, p.MemberID); err != nil {
			return err
		}

		updates = apply(inserted, goals)
		if len(updates) == 0 {
			return nil
		}

		values := make([]string, 0, len(updates))
		args := make([]interface{}, 0, len(updates)*3)
		for i, u := range updates {
			values = append(values,
				fmt.Sprintf("($%d::int, $%d::double precision, $%d::bool)", i*3+1, i*3+2, i*3+3))
			args = append(args, u.GoalID, u.CurrentValue, u.Completed)
		}
		// Status only ever flips active -> completed; value updates to
		// already completed goals leave it untouched.
		batch := `
			UPDATE fitness_goals g
			SET current_value = v.value,
			    status = CASE WHEN v.completed THEN 'completed' ELSE g.status END
			FROM (VALUES ` + strings.Join(values, ", ") + `) AS v(id, value, completed)
			WHERE g.id = v.id`
		_, err := tx.ExecContext(ctx, batch, args...)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return &inserted, updates, nil
}

func (r *repository) ListMetrics(ctx context.Context, memberID, limit int) ([]Metric, error) {
	metrics := []Metric{}
	query := `
		SELECT ` + metricColumns + `
		FROM health_metrics
		WHERE member_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2`
	if err := r.db.SelectContext(ctx, &metrics, query, memberID, limit); err != nil {
		return nil, err
	}
	return metrics, nil
}

func (r *repository) CreateGoal(ctx context.Context, p GoalParams) (*Goal, error) {
	var g Goal
	query := `
		INSERT INTO fitness_goals (member_id, goal_type, target_value, current_value, deadline)
		VALUES ($1, $2, $3, $4, $5::date)
		RETURNING ` + goalColumns
	if err := r.db.GetContext(ctx, &g, query,
		p.MemberID, p.GoalType, p.TargetValue, p.CurrentValue, p.Deadline); err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *repository) GetGoalByID(ctx context.Context, goalID int) (*Goal, error) {
	var g Goal
	query := `SELECT ` + goalColumns + ` FROM fitness_goals WHERE id = $1`
	err := r.db.GetContext(ctx, &g, query, goalID)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *repository) UpdateGoal(ctx context.Context, goalID int, p GoalPatch) (*Goal, error) {
	var g Goal
	query := `
		UPDATE fitness_goals SET
			target_value = COALESCE($2, target_value),
			current_value = COALESCE($3, current_value),
			deadline = COALESCE($4::date, deadline),
			status = COALESCE($5, status)
		WHERE id = $1
		RETURNING ` + goalColumns
	err := r.db.GetContext(ctx, &g, query, goalID, p.TargetValue, p.CurrentValue, p.Deadline, p.Status)
	if err == sql.ErrNoRows {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *repository) ListGoals(ctx context.Context, memberID int, status string) ([]Goal, error) {
	goals := []Goal{}
	if status != "" {
		query := `SELECT ` + goalColumns + ` FROM fitness_goals WHERE member_id = $1 AND status = $2 ORDER BY created_at DESC`
		if err := r.db.SelectContext(ctx, &goals, query, memberID, status); err != nil {
			return nil, err
		}
		return goals, nil
	}

	query := `SELECT ` + goalColumns + ` FROM fitness_goals WHERE member_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &goals, query, memberID); err != nil {
		return nil, err
	}
	return goals, nil
}

// latestColumn builds a correlated latest-row lookup for one sparse
// measurement column.
func latestColumn(column, expr, alias string) string {
	return fmt.Sprintf(`(SELECT %s FROM health_metrics
		WHERE member_id = $1 AND %s IS NOT NULL
		ORDER BY recorded_at DESC LIMIT 1) AS %s`, expr, column, alias)
}

func (r *repository) Dashboard(ctx context.Context, memberID int) (*Dashboard, error) {
	d := &Dashboard{ActiveGoals: []Goal{}}

	// Each measurement is looked up independently: the newest row may
	// carry only a weight while an older one holds the height.
	latestQuery := `SELECT
		` + latestColumn("weight_kg", "weight_kg", "weight_kg") + `,
		` + latestColumn("weight_kg", "recorded_at", "weight_recorded_at") + `,
		` + latestColumn("height_cm", "height_cm", "height_cm") + `,
		` + latestColumn("height_cm", "recorded_at", "height_recorded_at") + `,
		` + latestColumn("heart_rate_bpm", "heart_rate_bpm", "heart_rate_bpm") + `,
		` + latestColumn("heart_rate_bpm", "recorded_at", "heart_rate_recorded_at") + `,
		` + latestColumn("body_fat_percentage", "body_fat_percentage", "body_fat_percentage") + `,
		` + latestColumn("body_fat_percentage", "recorded_at", "body_fat_recorded_at")
	if err := r.db.GetContext(ctx, &d.Latest, latestQuery, memberID); err != nil {
		return nil, err
	}

	if err := r.db.GetContext(ctx, &d.MetricCount,
		`SELECT COUNT(*) FROM health_metrics WHERE member_id = $1`, memberID); err != nil {
		return nil, err
	}

	goals, err := r.ListGoals(ctx, memberID, StatusActive)
	if err != nil {
		return nil, err
	}
	d.ActiveGoals = goals
	d.ActiveGoalCount = len(goals)

	var regs struct {
		Total    int `db:"total"`
		Attended int `db:"attended"`
	}
	if err := r.db.GetContext(ctx, &regs, `
		SELECT COUNT(*) FILTER (WHERE status <> 'cancelled') AS total,
		       COUNT(*) FILTER (WHERE status = 'attended') AS attended
		FROM class_registrations
		WHERE member_id = $1`, memberID); err != nil {
		return nil, err
	}
	d.TotalRegistrations = regs.Total
	d.AttendedRegistrations = regs.Attended

	if err := r.db.GetContext(ctx, &d.UpcomingSessionCount, `
		SELECT COUNT(*) FROM personal_training_sessions
		WHERE member_id = $1 AND status = 'scheduled' AND scheduled_time >= NOW()`, memberID); err != nil {
		return nil, err
	}

	return d, nil
}
