package repository

import (
	"context"
	"time"
)

// Task es un ítem de la lista de tareas.
type Task struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskPatch contiene los campos actualizables; nil = sin cambios.
type TaskPatch struct {
	Name      *string
	Completed *bool
}

// TaskRepository persiste tareas.
type TaskRepository interface {
	// List devuelve todas las tareas ordenadas por CreatedAt. Lista vacía no es error.
	List(ctx context.Context) ([]Task, error)

	// Create guarda t (ID ya asignado por el caller).
	Create(ctx context.Context, t Task) (*Task, error)

	// Update aplica patch sobre la tarea id. Retorna ErrNotFound si no existe.
	Update(ctx context.Context, id string, patch TaskPatch) (*Task, error)
}
