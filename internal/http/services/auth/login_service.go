package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/chasqui/internal/domain/identity"
	"github.com/dropDatabas3/chasqui/internal/domain/repository"
	dto "github.com/dropDatabas3/chasqui/internal/http/dto/auth"
	"github.com/dropDatabas3/chasqui/internal/metrics"
	"github.com/dropDatabas3/chasqui/internal/observability/logger"
	"go.uber.org/zap"
)

// LoginResult es el resultado de un login exitoso.
type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64
	ExpiresAt   time.Time
	Subject     string
	Roles       []string
}

// Login resuelve la identidad (email primero, username como fallback),
// verifica la password y emite el token. Todo rechazo de credenciales sale
// como *CredentialsError (Is ErrInvalidCredentials).
func (s *Service) Login(ctx context.Context, in dto.LoginRequest) (*LoginResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.login"),
		logger.Op("Login"),
	)

	email, username := normalizeLogin(in)
	if email == "" && username == "" {
		return nil, s.loginRejected(&ValidationError{Field: "identifier", Reason: "email or username is required"})
	}
	if email != "" {
		log = log.With(logger.Email(email))
	}
	if in.Password == "" {
		return nil, s.loginRejected(&ValidationError{Field: "password", Reason: "is required"})
	}

	u, err := s.lookup(ctx, email, username)
	if err != nil {
		var ce *CredentialsError
		if errors.As(err, &ce) {
			_ = s.deps.Hasher.Verify(ctx, in.Password, s.dummyHash)
		}
		return nil, s.loginFailed(log, err)
	}
	log = log.With(logger.UserID(u.ID))

	if !s.deps.Hasher.Verify(ctx, in.Password, u.PasswordHash) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, s.loginFailed(log, fmt.Errorf("%w: %w", ErrPersistence, ctxErr))
		}
		return nil, s.loginFailed(log, invalidCredentials(ReasonPasswordMismatch, nil))
	}

	roles := tokenRoles(u.RoleNames())
	token, claims, err := s.deps.Tokens.Issue(u.ID, u.Username, roles)
	if err != nil {
		log.Error("token issue failed", logger.Err(err))
		metrics.LoginsTotal.WithLabelValues(metrics.ResultTokenFailed).Inc()
		return nil, fmt.Errorf("%w: %w", ErrTokenIssue, err)
	}

	exp := claims.ExpiresAtTime()
	log.Info("login succeeded")
	metrics.LoginsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return &LoginResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(exp.Sub(claims.IssuedAtTime()).Seconds()),
		ExpiresAt:   exp,
		Subject:     u.ID,
		Roles:       roles,
	}, nil
}

// normalizeLogin resuelve identifier y normaliza email/username.
func normalizeLogin(in dto.LoginRequest) (email, username string) {
	email = strings.ToLower(strings.TrimSpace(in.Email))
	username = strings.TrimSpace(in.Username)
	if id := strings.TrimSpace(in.Identifier); id != "" && email == "" && username == "" {
		if strings.Contains(id, "@") {
			email = strings.ToLower(id)
		} else {
			username = id
		}
	}
	return email, username
}

// lookup busca por email y cae a username si no hubo un registro usable.
func (s *Service) lookup(ctx context.Context, email, username string) (*identity.Identity, error) {
	var lastErr error = invalidCredentials(ReasonNotFound, nil)

	if email != "" {
		u, err := s.deps.Identities.GetByEmail(ctx, email)
		switch {
		case err == nil && u.HasUsableCredential():
			return u, nil
		case err == nil:
			lastErr = invalidCredentials(ReasonNoCredential, nil)
		default:
			if lerr := classifyLookupErr(err); lerr != nil {
				return nil, lerr
			}
		}
	}

	if username != "" {
		u, err := s.deps.Identities.GetByUsername(ctx, username)
		switch {
		case err == nil && u.HasUsableCredential():
			return u, nil
		case err == nil:
			return nil, invalidCredentials(ReasonNoCredential, nil)
		default:
			if lerr := classifyLookupErr(err); lerr != nil {
				return nil, lerr
			}
			return nil, invalidCredentials(ReasonNotFound, err)
		}
	}
	return nil, lastErr
}

// classifyLookupErr: nil para not-found (sigue el fallback), ErrPersistence
// para cancelación/deadline, CredentialsError(lookup_failed) para el resto.
func classifyLookupErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	default:
		return invalidCredentials(ReasonLookupFailed, err)
	}
}

func (s *Service) loginRejected(err error) error {
	metrics.LoginsTotal.WithLabelValues(metrics.ResultRejected).Inc()
	return err
}

func (s *Service) loginFailed(log *zap.Logger, err error) error {
	var ce *CredentialsError
	if errors.As(err, &ce) {
		log.Info("login rejected", logger.Reason(ce.Reason))
		metrics.LoginsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		return err
	}
	log.Warn("login failed", logger.Err(err))
	metrics.LoginsTotal.WithLabelValues(metrics.ResultError).Inc()
	return err
}

func persistResult(err error) string {
	if errors.Is(err, repository.ErrConflict) {
		return metrics.ResultConflict
	}
	return metrics.ResultError
}
