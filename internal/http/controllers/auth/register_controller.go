package auth

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/chasqui/internal/domain/repository"
	dto "github.com/dropDatabas3/chasqui/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/chasqui/internal/http/errors"
	"github.com/dropDatabas3/chasqui/internal/http/helpers"
	svc "github.com/dropDatabas3/chasqui/internal/http/services/auth"
	"github.com/dropDatabas3/chasqui/internal/observability/logger"
	"go.uber.org/zap"
)

// RegisterController handles POST /api/register.
type RegisterController struct {
	service svc.RegisterService
}

// NewRegisterController creates a new register controller.
func NewRegisterController(service svc.RegisterService) *RegisterController {
	return &RegisterController{service: service}
}

// Register da de alta una identidad con el rol por defecto. No emite token.
func (c *RegisterController) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("RegisterController.Register"))

	if !helpers.RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.RegisterRequest
	if appErr := helpers.ReadJSON(w, r, &req); appErr != nil {
		httperrors.WriteError(w, appErr)
		return
	}

	u, err := c.service.Register(ctx, req)
	if err != nil {
		c.handleError(w, err, log)
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, dto.RegisterResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Roles:    u.RoleNames(),
		Message:  "user registered",
	})
}

func (c *RegisterController) handleError(w http.ResponseWriter, err error, log *zap.Logger) {
	var ve *svc.ValidationError
	switch {
	case errors.As(err, &ve):
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail(ve.Field+": "+ve.Reason))
	case errors.Is(err, svc.ErrValidation):
		httperrors.WriteError(w, httperrors.ErrValidation)
	case errors.Is(err, repository.ErrConflict):
		httperrors.WriteError(w, httperrors.ErrAlreadyExists)
	case errors.Is(err, repository.ErrNoDatabase):
		log.Error("registration error", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrServiceUnavailable)
	case errors.Is(err, svc.ErrCredential), errors.Is(err, svc.ErrPersistence):
		log.Error("registration error", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	default:
		log.Error("unexpected registration error", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
