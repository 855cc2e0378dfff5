package user

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrUserNotFound = errors.New("user not found")

const userColumns = `id, email, password_hash, first_name, last_name, role, date_of_birth, gender, phone, specialization, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p CreateParams) (*User, error) {
	query := `
		INSERT INTO users (email, password_hash, first_name, last_name, role, date_of_birth, gender, phone, specialization)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + userColumns

	var u User
	err := r.db.GetContext(ctx, &u, query,
		p.Email, p.PasswordHash, p.FirstName, p.LastName, p.Role,
		p.DateOfBirth, p.Gender, p.Phone, p.Specialization,
	)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var u User
	err := r.db.GetContext(ctx, &u, query, email)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var u User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, email)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (r *repository) UpdateProfile(ctx context.Context, id int, p UpdateParams) (*User, error) {
	query := `
		UPDATE users
		SET first_name = COALESCE($2, first_name),
		    last_name = COALESCE($3, last_name),
		    phone = COALESCE($4, phone),
		    date_of_birth = COALESCE($5, date_of_birth),
		    gender = COALESCE($6, gender)
		WHERE id = $1
		RETURNING ` + userColumns

	var u User
	err := r.db.GetContext(ctx, &u, query, id, p.FirstName, p.LastName, p.Phone, p.DateOfBirth, p.Gender)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) SearchMembers(ctx context.Context, nameQuery string) ([]User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE role = 'member'
		  AND (first_name ILIKE '%' || $1 || '%' OR last_name ILIKE '%' || $1 || '%')
		ORDER BY last_name, first_name
	`

	var users []User
	err := r.db.SelectContext(ctx, &users, query, nameQuery)
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (r *repository) ListByRole(ctx context.Context, role string) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY id`

	var users []User
	err := r.db.SelectContext(ctx, &users, query, role)
	if err != nil {
		return nil, err
	}

	return users, nil
}
