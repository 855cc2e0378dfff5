package health

import (
	"context"
	"errors"
	"time"

	"github.com/BasharSaadi/fitness-club-project/internal/logger"
	"github.com/BasharSaadi/fitness-club-project/internal/metrics"
	"github.com/BasharSaadi/fitness-club-project/internal/user"
)

var (
	ErrNoMeasurements = errors.New("at least one measurement is required")
	ErrInvalidDate    = errors.New("invalid date, expected YYYY-MM-DD")
	ErrPastDeadline   = errors.New("deadline is in the past")
	ErrNotOwner       = errors.New("goal belongs to another member")
)

type Directory interface {
	FindByID(ctx context.Context, id int) (*user.User, error)
}

type Notifier interface {
	SendGoalCompleted(ctx context.Context, email, name, goalType string) error
}

type Service interface {
	LogMetric(ctx context.Context, memberID int, req LogMetricRequest) (*Metric, []GoalUpdate, error)
	ListMetrics(ctx context.Context, memberID, limit int) ([]Metric, error)
	CreateGoal(ctx context.Context, memberID int, req CreateGoalRequest) (*Goal, error)
	UpdateGoal(ctx context.Context, memberID, goalID int, req UpdateGoalRequest) (*Goal, error)
	ListGoals(ctx context.Context, memberID int, status string) ([]Goal, error)
	GetDashboard(ctx context.Context, memberID int) (*Dashboard, error)
}

type service struct {
	repo  Repository
	users Directory
	mail  Notifier
}

func NewService(repo Repository, users Directory, mail Notifier) Service {
	return &service{repo: repo, users: users, mail: mail}
}

func (s *service) LogMetric(ctx context.Context, memberID int, req LogMetricRequest) (*Metric, []GoalUpdate, error) {
	if req.WeightKg == nil && req.HeightCm == nil && req.HeartRateBpm == nil && req.BodyFatPercentage == nil {
		return nil, nil, ErrNoMeasurements
	}

	m, updates, err := s.repo.InsertMetric(ctx, MetricParams{
		MemberID:          memberID,
		WeightKg:          req.WeightKg,
		HeightCm:          req.HeightCm,
		HeartRateBpm:      req.HeartRateBpm,
		BodyFatPercentage: req.BodyFatPercentage,
	}, ApplyMetric)
	if err != nil {
		return nil, nil, err
	}

	metrics.RecordHealthMetric()
	for _, u := range updates {
		if !u.Completed {
			continue
		}
		metrics.RecordGoalCompletion()
		logger.Info("fitness goal completed",
			"member_id", memberID, "goal_id", u.GoalID, "goal_type", u.GoalType)
		s.congratulate(ctx, memberID, u.GoalType)
	}

	return m, updates, nil
}

func (s *service) ListMetrics(ctx context.Context, memberID, limit int) ([]Metric, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.repo.ListMetrics(ctx, memberID, limit)
}

func (s *service) CreateGoal(ctx context.Context, memberID int, req CreateGoalRequest) (*Goal, error) {
	if err := validateDeadline(req.Deadline); err != nil {
		return nil, err
	}

	return s.repo.CreateGoal(ctx, GoalParams{
		MemberID:     memberID,
		GoalType:     req.GoalType,
		TargetValue:  req.TargetValue,
		CurrentValue: req.CurrentValue,
		Deadline:     req.Deadline,
	})
}

func (s *service) UpdateGoal(ctx context.Context, memberID, goalID int, req UpdateGoalRequest) (*Goal, error) {
	g, err := s.repo.GetGoalByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	if g.MemberID != memberID {
		return nil, ErrNotOwner
	}

	if err := validateDeadline(req.Deadline); err != nil {
		return nil, err
	}

	return s.repo.UpdateGoal(ctx, goalID, GoalPatch{
		TargetValue:  req.TargetValue,
		CurrentValue: req.CurrentValue,
		Deadline:     req.Deadline,
		Status:       req.Status,
	})
}

func (s *service) ListGoals(ctx context.Context, memberID int, status string) ([]Goal, error) {
	return s.repo.ListGoals(ctx, memberID, status)
}

func (s *service) GetDashboard(ctx context.Context, memberID int) (*Dashboard, error) {
	return s.repo.Dashboard(ctx, memberID)
}

func (s *service) congratulate(ctx context.Context, memberID int, goalType string) {
	if s.mail == nil || s.users == nil {
		return
	}
	u, err := s.users.FindByID(ctx, memberID)
	if err != nil {
		return
	}
	if err := s.mail.SendGoalCompleted(ctx, u.Email, u.FirstName, goalType); err != nil {
		logger.Warnf("Failed to queue goal email: %v", err)
	}
}

func validateDeadline(raw *string) error {
	if raw == nil || *raw == "" {
		return nil
	}
	deadline, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return ErrInvalidDate
	}
	if deadline.Before(time.Now().Truncate(24 * time.Hour)) {
		return ErrPastDeadline
	}
	return nil
}
