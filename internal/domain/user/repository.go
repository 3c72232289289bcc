package user

import "context"

type Repository interface {
	GetByID(ctx context.Context, id uint64) (*User, error)
	ListByRole(ctx context.Context, role Role) ([]User, error)
}
