package repository

import (
	"context"

	"github.com/fastygo/taskboard/domain"
)

// UserFilter narrows the employee roster. Empty fields are not sent.
type UserFilter struct {
	ManagerID string
}

type UserRepository interface {
	GetManagers(ctx context.Context) ([]domain.User, error)
	GetEmployees(ctx context.Context, filter UserFilter) ([]domain.User, error)
	GetCurrentUser(ctx context.Context) (*domain.User, error)
}
