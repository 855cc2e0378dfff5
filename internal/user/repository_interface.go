package user

import "context"

type Repository interface {
	Create(ctx context.Context, params CreateParams) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, id int, params UpdateParams) (*User, error)
	SearchMembers(ctx context.Context, nameQuery string) ([]User, error)
	ListByRole(ctx context.Context, role string) ([]User, error)
}
