package health

import "time"

const (
	GoalWeightLoss       = "weight_loss"
	GoalWeightGain       = "weight_gain"
	GoalBodyFatReduction = "body_fat_reduction"
	GoalMuscleGain       = "muscle_gain"
	GoalEndurance        = "endurance"
	GoalFlexibility      = "flexibility"
	GoalGeneralFitness   = "general_fitness"
)

const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusAbandoned = "abandoned"
	StatusPaused    = "paused"
)

// Metric is one append-only health measurement. Every field is
// optional but at least one must be present.
type Metric struct {
	ID                int       `db:"id" json:"id"`
	MemberID          int       `db:"member_id" json:"member_id"`
	WeightKg          *float64  `db:"weight_kg" json:"weight_kg,omitempty"`
	HeightCm          *float64  `db:"height_cm" json:"height_cm,omitempty"`
	HeartRateBpm      *int      `db:"heart_rate_bpm" json:"heart_rate_bpm,omitempty"`
	BodyFatPercentage *float64  `db:"body_fat_percentage" json:"body_fat_percentage,omitempty"`
	RecordedAt        time.Time `db:"recorded_at" json:"recorded_at"`
}

type Goal struct {
	ID           int        `db:"id" json:"id"`
	MemberID     int        `db:"member_id" json:"member_id"`
	GoalType     string     `db:"goal_type" json:"goal_type"`
	TargetValue  float64    `db:"target_value" json:"target_value"`
	CurrentValue *float64   `db:"current_value" json:"current_value,omitempty"`
	Deadline     *time.Time `db:"deadline" json:"deadline,omitempty"`
	Status       string     `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// LatestMeasurements carries the most recent value of each measurement
// independently, with the timestamp it was recorded at. Metrics are
// sparse, so the latest weight and the latest body fat may come from
// different rows.
type LatestMeasurements struct {
	WeightKg            *float64   `db:"weight_kg" json:"weight_kg,omitempty"`
	WeightRecordedAt    *time.Time `db:"weight_recorded_at" json:"weight_recorded_at,omitempty"`
	HeightCm            *float64   `db:"height_cm" json:"height_cm,omitempty"`
	HeightRecordedAt    *time.Time `db:"height_recorded_at" json:"height_recorded_at,omitempty"`
	HeartRateBpm        *int       `db:"heart_rate_bpm" json:"heart_rate_bpm,omitempty"`
	HeartRateRecordedAt *time.Time `db:"heart_rate_recorded_at" json:"heart_rate_recorded_at,omitempty"`
	BodyFatPercentage   *float64   `db:"body_fat_percentage" json:"body_fat_percentage,omitempty"`
	BodyFatRecordedAt   *time.Time `db:"body_fat_recorded_at" json:"body_fat_recorded_at,omitempty"`
}

// Dashboard is the member's progress summary, computed on demand.
type Dashboard struct {
	Latest                LatestMeasurements `json:"latest_measurements"`
	MetricCount           int                `json:"metric_count"`
	ActiveGoals           []Goal             `json:"active_goals"`
	ActiveGoalCount       int                `json:"active_goal_count"`
	TotalRegistrations    int                `json:"total_registrations"`
	AttendedRegistrations int                `json:"attended_registrations"`
	UpcomingSessionCount  int                `json:"upcoming_session_count"`
}

type LogMetricRequest struct {
	WeightKg          *float64 `json:"weight_kg" binding:"omitempty,gt=0"`
	HeightCm          *float64 `json:"height_cm" binding:"omitempty,gt=0"`
	HeartRateBpm      *int     `json:"heart_rate_bpm" binding:"omitempty,gt=0"`
	BodyFatPercentage *float64 `json:"body_fat_percentage" binding:"omitempty,gte=0,lte=100"`
}

type CreateGoalRequest struct {
	GoalType     string   `json:"goal_type" binding:"required,oneof=weight_loss weight_gain body_fat_reduction muscle_gain endurance flexibility general_fitness"`
	TargetValue  float64  `json:"target_value" binding:"required,gt=0"`
	CurrentValue *float64 `json:"current_value" binding:"omitempty,gt=0"`
	Deadline     *string  `json:"deadline"`
}

type UpdateGoalRequest struct {
	TargetValue  *float64 `json:"target_value" binding:"omitempty,gt=0"`
	CurrentValue *float64 `json:"current_value" binding:"omitempty,gt=0"`
	Deadline     *string  `json:"deadline"`
	Status       *string  `json:"status" binding:"omitempty,oneof=active completed abandoned paused"`
}
