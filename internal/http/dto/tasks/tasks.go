// Package tasks contiene DTOs para los endpoints de tareas.
package tasks

// CreateTaskRequest es el body de POST /api/tasks.
type CreateTaskRequest struct {
	Name string `json:"name"`
}

// UpdateTaskRequest es el body (opcional) de PATCH /api/tasks/{uuid}. Sin
// body la tarea solo se marca completada.
type UpdateTaskRequest struct {
	Name *string `json:"name,omitempty"`
}
