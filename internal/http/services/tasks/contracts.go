package tasks

import (
	"context"

	"github.com/dropDatabas3/chasqui/internal/domain/repository"
)

// TaskService define las operaciones de tareas que consumen los controllers.
type TaskService interface {
	List(ctx context.Context) ([]repository.Task, error)
	Create(ctx context.Context, name string) (*repository.Task, error)
	Complete(ctx context.Context, id string, rename *string) (*repository.Task, error)
}
