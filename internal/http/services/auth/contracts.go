// Package auth implementa el flujo de autenticación: registro (hash +
// persistencia + rol por defecto) y login (lookup + verify + emisión de token).
package auth

import (
	"context"

	"github.com/dropDatabas3/chasqui/internal/domain/identity"
	dto "github.com/dropDatabas3/chasqui/internal/http/dto/auth"
	jwtx "github.com/dropDatabas3/chasqui/internal/jwt"
)

// RegisterService define el alta de identidades.
type RegisterService interface {
	Register(ctx context.Context, in dto.RegisterRequest) (*identity.Identity, error)
}

// LoginService define el login por password.
type LoginService interface {
	Login(ctx context.Context, in dto.LoginRequest) (*LoginResult, error)
}

// Hasher es lo que el flujo necesita del credential hasher.
type Hasher interface {
	Hash(ctx context.Context, plain string) (string, error)
	Verify(ctx context.Context, plain, hash string) bool
}

// TokenIssuer emite access tokens.
type TokenIssuer interface {
	Issue(subject, username string, roles []string) (string, jwtx.Claims, error)
}
