// Package tasks contiene el controller del CRUD de tareas.
package tasks

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	dto "github.com/dropDatabas3/chasqui/internal/http/dto/tasks"
	httperrors "github.com/dropDatabas3/chasqui/internal/http/errors"
	"github.com/dropDatabas3/chasqui/internal/http/helpers"
	svc "github.com/dropDatabas3/chasqui/internal/http/services/tasks"
	"github.com/dropDatabas3/chasqui/internal/observability/logger"
	"go.uber.org/zap"
)

// TaskController handles /api/tasks.
type TaskController struct {
	service svc.TaskService
}

func NewTaskController(service svc.TaskService) *TaskController {
	return &TaskController{service: service}
}

// List handles GET /api/tasks.
func (c *TaskController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("TaskController.List"))

	list, err := c.service.List(ctx)
	if err != nil {
		c.handleError(w, err, log)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, list)
}

// Create handles POST /api/tasks.
func (c *TaskController) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("TaskController.Create"))

	var req dto.CreateTaskRequest
	if appErr := helpers.ReadJSON(w, r, &req); appErr != nil {
		httperrors.WriteError(w, appErr)
		return
	}

	t, err := c.service.Create(ctx, req.Name)
	if err != nil {
		c.handleError(w, err, log)
		return
	}
	helpers.WriteJSON(w, http.StatusCreated, t)
}

// Complete handles PATCH /api/tasks/{id}. El body es opcional.
func (c *TaskController) Complete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("TaskController.Complete"), logger.TaskID(id))

	var req dto.UpdateTaskRequest
	if appErr := helpers.ReadOptionalJSON(w, r, &req); appErr != nil {
		httperrors.WriteError(w, appErr)
		return
	}

	t, err := c.service.Complete(ctx, id, req.Name)
	if err != nil {
		c.handleError(w, err, log)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, t)
}

func (c *TaskController) handleError(w http.ResponseWriter, err error, log *zap.Logger) {
	switch {
	case errors.Is(err, svc.ErrInvalidInput):
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail(err.Error()))
	case errors.Is(err, svc.ErrNotFound):
		httperrors.WriteError(w, httperrors.ErrNotFound.WithDetail("task not found"))
	default:
		log.Error("task operation failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
