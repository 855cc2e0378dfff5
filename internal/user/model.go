package user

import "time"

type User struct {
	ID             int        `db:"id" json:"id"`
	Email          string     `db:"email" json:"email"`
	PasswordHash   string     `db:"password_hash" json:"-"`
	FirstName      string     `db:"first_name" json:"first_name"`
	LastName       string     `db:"last_name" json:"last_name"`
	Role           string     `db:"role" json:"role"`
	DateOfBirth    *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender         *string    `db:"gender" json:"gender,omitempty"`
	Phone          *string    `db:"phone" json:"phone,omitempty"`
	Specialization *string    `db:"specialization" json:"specialization,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

type RegisterRequest struct {
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8"`
	FirstName   string  `json:"first_name" binding:"required"`
	LastName    string  `json:"last_name" binding:"required"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
	Gender      *string `json:"gender,omitempty" binding:"omitempty,oneof=male female other prefer_not_to_say"`
	Phone       *string `json:"phone,omitempty"`
}

// CreateStaffRequest is used by admins to create trainer and admin
// accounts; self-registration only ever produces members.
type CreateStaffRequest struct {
	Email          string  `json:"email" binding:"required,email"`
	Password       string  `json:"password" binding:"required,min=8"`
	FirstName      string  `json:"first_name" binding:"required"`
	LastName       string  `json:"last_name" binding:"required"`
	Role           string  `json:"role" binding:"required,oneof=trainer admin"`
	Specialization *string `json:"specialization,omitempty"`
	Phone          *string `json:"phone,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name,omitempty"`
	LastName    *string `json:"last_name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	DateOfBirth *string `json:"date_of_birth,omitempty"`
	Gender      *string `json:"gender,omitempty" binding:"omitempty,oneof=male female other prefer_not_to_say"`
}

// CreateParams carries the validated column values for an insert.
type CreateParams struct {
	Email          string
	PasswordHash   string
	FirstName      string
	LastName       string
	Role           string
	DateOfBirth    *time.Time
	Gender         *string
	Phone          *string
	Specialization *string
}

// UpdateParams carries profile fields to change; nil fields keep their
// current value.
type UpdateParams struct {
	FirstName   *string
	LastName    *string
	Phone       *string
	DateOfBirth *time.Time
	Gender      *string
}
