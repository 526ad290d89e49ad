package auth

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/chasqui/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/chasqui/internal/http/errors"
	"github.com/dropDatabas3/chasqui/internal/http/helpers"
	svc "github.com/dropDatabas3/chasqui/internal/http/services/auth"
	"github.com/dropDatabas3/chasqui/internal/observability/logger"
	"go.uber.org/zap"
)

// LoginController handles POST /api/login.
type LoginController struct {
	service svc.LoginService
}

// NewLoginController creates a new login controller.
func NewLoginController(service svc.LoginService) *LoginController {
	return &LoginController{service: service}
}

// Login verifica credenciales y devuelve un access token.
func (c *LoginController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LoginController.Login"))

	if !helpers.RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.LoginRequest
	if appErr := helpers.ReadJSON(w, r, &req); appErr != nil {
		httperrors.WriteError(w, appErr)
		return
	}

	res, err := c.service.Login(ctx, req)
	if err != nil {
		c.handleError(w, err, log)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	helpers.WriteJSON(w, http.StatusOK, dto.LoginResponse{
		AccessToken: res.AccessToken,
		TokenType:   res.TokenType,
		ExpiresIn:   res.ExpiresIn,
		ExpiresAt:   res.ExpiresAt.Unix(),
	})
}

func (c *LoginController) handleError(w http.ResponseWriter, err error, log *zap.Logger) {
	var ve *svc.ValidationError
	switch {
	case errors.As(err, &ve):
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail(ve.Field+": "+ve.Reason))
	case errors.Is(err, svc.ErrInvalidCredentials):
		// sin detalle: no se distingue usuario inexistente de password incorrecta
		httperrors.WriteError(w, httperrors.ErrInvalidCredentials)
	case errors.Is(err, svc.ErrTokenIssue), errors.Is(err, svc.ErrPersistence):
		log.Error("login error", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	default:
		log.Error("unexpected login error", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
