package health

import "context"

type MetricParams struct {
	MemberID          int
	WeightKg          *float64
	HeightCm          *float64
	HeartRateBpm      *int
	BodyFatPercentage *float64
}

type GoalParams struct {
	MemberID     int
	GoalType     string
	TargetValue  float64
	CurrentValue *float64
	Deadline     *string
}

type GoalPatch struct {
	TargetValue  *float64
	CurrentValue *float64
	Deadline     *string
	Status       *string
}

type Repository interface {
	// InsertMetric records the metric and applies the derived goal
	// updates in the same transaction, with the member's active and
	// completed goals locked so concurrent inserts serialize.
	InsertMetric(ctx context.Context, p MetricParams, apply func(m Metric, goals []Goal) []GoalUpdate) (*Metric, []GoalUpdate, error)
	ListMetrics(ctx context.Context, memberID, limit int) ([]Metric, error)

	CreateGoal(ctx context.Context, p GoalParams) (*Goal, error)
	GetGoalByID(ctx context.Context, goalID int) (*Goal, error)
	UpdateGoal(ctx context.Context, goalID int, p GoalPatch) (*Goal, error)
	ListGoals(ctx context.Context, memberID int, status string) ([]Goal, error)

	Dashboard(ctx context.Context, memberID int) (*Dashboard, error)
}
