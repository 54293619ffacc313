package repository

import (
	"context"

	"github.com/fastygo/taskboard/domain"
)

// TaskFilter narrows a listing. Empty fields are not sent.
type TaskFilter struct {
	Date string
}

type TaskRepository interface {
	GetTasks(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	CreateTask(ctx context.Context, input domain.TaskInput) (*domain.Task, error)
	UpdateTask(ctx context.Context, id string, input domain.TaskInput) (*domain.Task, error)
	UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
}
