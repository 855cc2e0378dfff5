package user

import (
	"context"
	"errors"
	"time"

	"github.com/BasharSaadi/fitness-club-project/internal/auth"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidBirthDate   = errors.New("date of birth cannot be in the future")
	ErrInvalidDate        = errors.New("invalid date, expected YYYY-MM-DD")
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, string, string, error)
	CreateStaff(ctx context.Context, req CreateStaffRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*User, string, string, error)
	GetByID(ctx context.Context, userID int) (*User, error)
	RefreshToken(ctx context.Context, refreshToken string) (string, *User, error)
	UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error)
	SearchMembers(ctx context.Context, nameQuery string) ([]User, error)
	ListTrainers(ctx context.Context) ([]User, error)
}

type service struct {
	repo          Repository
	accessSecret  string
	refreshSecret string
}

func NewService(repo Repository, accessSecret, refreshSecret string) Service {
	return &service{
		repo:          repo,
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, string, string, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, "", "", err
	}
	if exists {
		return nil, "", "", ErrEmailExists
	}

	dob, err := parseBirthDate(req.DateOfBirth)
	if err != nil {
		return nil, "", "", err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, "", "", err
	}

	u, err := s.repo.Create(ctx, CreateParams{
		Email:        req.Email,
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         auth.RoleMember,
		DateOfBirth:  dob,
		Gender:       req.Gender,
		Phone:        req.Phone,
	})
	if err != nil {
		return nil, "", "", err
	}

	accessToken, refreshToken, err := auth.GenerateTokens(
		u.ID, u.Email, u.Role, s.accessSecret, s.refreshSecret,
	)
	if err != nil {
		return nil, "", "", err
	}

	return u, accessToken, refreshToken, nil
}

func (s *service) CreateStaff(ctx context.Context, req CreateStaffRequest) (*User, error) {
	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	return s.repo.Create(ctx, CreateParams{
		Email:          req.Email,
		PasswordHash:   passwordHash,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Role:           req.Role,
		Specialization: req.Specialization,
		Phone:          req.Phone,
	})
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*User, string, string, error) {
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", "", ErrInvalidCredentials
	}

	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := auth.GenerateTokens(
		u.ID, u.Email, u.Role, s.accessSecret, s.refreshSecret,
	)
	if err != nil {
		return nil, "", "", err
	}

	return u, accessToken, refreshToken, nil
}

func (s *service) GetByID(ctx context.Context, userID int) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, *User, error) {
	_, claims, err := auth.RefreshAccessToken(refreshToken, s.refreshSecret, s.accessSecret)
	if err != nil {
		return "", nil, err
	}

	u, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", nil, ErrUserNotFound
	}

	newAccessToken, err := auth.GenerateAccessToken(u.ID, u.Email, u.Role, s.accessSecret)
	if err != nil {
		return "", nil, err
	}

	return newAccessToken, u, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID int, req UpdateProfileRequest) (*User, error) {
	dob, err := parseBirthDate(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	return s.repo.UpdateProfile(ctx, userID, UpdateParams{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		DateOfBirth: dob,
		Gender:      req.Gender,
	})
}

func (s *service) SearchMembers(ctx context.Context, nameQuery string) ([]User, error) {
	return s.repo.SearchMembers(ctx, nameQuery)
}

func (s *service) ListTrainers(ctx context.Context) ([]User, error) {
	return s.repo.ListByRole(ctx, auth.RoleTrainer)
}

func parseBirthDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}

	dob, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if dob.After(time.Now()) {
		return nil, ErrInvalidBirthDate
	}
	return &dob, nil
}
