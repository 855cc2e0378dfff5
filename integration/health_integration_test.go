package integration_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BasharSaadi/fitness-club-project/internal/health"
)

func ptr(v float64) *float64 { return &v }

func TestGoalDerivation_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	database := setupTestDB(t)
	defer database.Close()
	cleanDatabase(t, database)

	memberID := seedUser(t, database, "member@test.local", "member")

	ctx := context.Background()
	svc := health.NewService(health.NewRepository(database), nil, nil)

	goal, err := svc.CreateGoal(ctx, memberID, health.CreateGoalRequest{
		GoalType:    health.GoalWeightLoss,
		TargetValue: 80,
	})
	require.NoError(t, err)

	// Above target: progress recorded, goal stays active.
	_, updates, err := svc.LogMetric(ctx, memberID, health.LogMetricRequest{WeightKg: ptr(85)})
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.False(t, updates[0].Completed)

	goals, err := svc.ListGoals(ctx, memberID, health.StatusActive)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	require.NotNil(t, goals[0].CurrentValue)
	assert.Equal(t, 85.0, *goals[0].CurrentValue)

	// At target: completed.
	_, updates, err = svc.LogMetric(ctx, memberID, health.LogMetricRequest{WeightKg: ptr(79.5)})
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.True(t, updates[0].Completed)

	// A later measurement above target still refreshes the value but
	// never reopens the goal.
	_, updates, err = svc.LogMetric(ctx, memberID, health.LogMetricRequest{WeightKg: ptr(86)})
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.False(t, updates[0].Completed)

	final, err := svc.ListGoals(ctx, memberID, "")
	require.NoError(t, err)
	require.Len(t, final, 1)
	assert.Equal(t, goal.ID, final[0].ID)
	assert.Equal(t, health.StatusCompleted, final[0].Status)
	assert.Equal(t, 86.0, *final[0].CurrentValue)
}

func iptr(v int) *int { return &v }

func TestDashboard_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	database := setupTestDB(t)
	defer database.Close()
	cleanDatabase(t, database)

	memberID := seedUser(t, database, "member@test.local", "member")

	ctx := context.Background()
	svc := health.NewService(health.NewRepository(database), nil, nil)

	// First row carries weight and height, second only a heart rate;
	// the dashboard must surface each field's own latest value.
	_, _, err := svc.LogMetric(ctx, memberID, health.LogMetricRequest{
		WeightKg: ptr(82.5), HeightCm: ptr(178),
	})
	require.NoError(t, err)
	_, _, err = svc.LogMetric(ctx, memberID, health.LogMetricRequest{
		HeartRateBpm: iptr(64),
	})
	require.NoError(t, err)

	d, err := svc.GetDashboard(ctx, memberID)
	require.NoError(t, err)

	assert.Equal(t, 2, d.MetricCount)
	require.NotNil(t, d.Latest.WeightKg)
	assert.Equal(t, 82.5, *d.Latest.WeightKg)
	require.NotNil(t, d.Latest.HeightCm)
	assert.Equal(t, 178.0, *d.Latest.HeightCm)
	require.NotNil(t, d.Latest.HeartRateBpm)
	assert.Equal(t, 64, *d.Latest.HeartRateBpm)
	assert.Nil(t, d.Latest.BodyFatPercentage)
	require.NotNil(t, d.Latest.HeartRateRecordedAt)
	require.NotNil(t, d.Latest.WeightRecordedAt)
	assert.False(t, d.Latest.HeartRateRecordedAt.Before(*d.Latest.WeightRecordedAt))
}
