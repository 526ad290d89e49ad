package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dropDatabas3/chasqui/internal/domain/identity"
	dto "github.com/dropDatabas3/chasqui/internal/http/dto/auth"
	"github.com/dropDatabas3/chasqui/internal/metrics"
	"github.com/dropDatabas3/chasqui/internal/observability/logger"
)

// registerInput lleva las reglas de validación del alta.
type registerInput struct {
	Username string `validate:"required,alpha,max=64"`
	Email    string `validate:"required,min=5,max=254,contains=@"`
	Password string `validate:"required"`
}

// Register valida, crea la identidad (hash + rol user) y la persiste. No hay
// pre-check de duplicados: el storage rechaza con repository.ErrConflict.
func (s *Service) Register(ctx context.Context, in dto.RegisterRequest) (*identity.Identity, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.register"),
		logger.Op("Register"),
	)

	input := registerInput{
		Username: strings.TrimSpace(in.Username),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Password: in.Password,
	}
	if err := s.validateRegister(input); err != nil {
		log.Debug("register validation failed", logger.Err(err))
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		return nil, err
	}

	u, err := identity.New(ctx, s.deps.Hasher, input.Username, input.Email, input.Password)
	if err != nil {
		log.Error("hash password failed", logger.Err(err))
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, fmt.Errorf("%w: %w", ErrCredential, err)
	}

	saved, err := s.deps.Identities.Create(ctx, u)
	if err != nil {
		log.Warn("persist identity failed", logger.Username(input.Username), logger.Err(err))
		metrics.RegistrationsTotal.WithLabelValues(persistResult(err)).Inc()
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	log.Info("identity registered", logger.UserID(saved.ID), logger.Username(saved.Username))
	metrics.RegistrationsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return saved, nil
}

func (s *Service) validateRegister(in registerInput) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ValidationError{Field: strings.ToLower(fe.Field()), Reason: validationReason(fe)}
	}
	return &ValidationError{Field: "body", Reason: err.Error()}
}

func validationReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "alpha":
		return "must contain ASCII letters only"
	case "contains":
		return "must contain " + fe.Param()
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "failed " + fe.Tag()
	}
}
