package auth

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dropDatabas3/chasqui/internal/domain/rbac"
	"github.com/dropDatabas3/chasqui/internal/domain/repository"
	"github.com/dropDatabas3/chasqui/internal/observability/logger"
)

// dummyPassword solo alimenta el hash señuelo del login.
const dummyPassword = "chasqui-login-dummy-password"

// Deps contiene las dependencias del flujo de autenticación.
type Deps struct {
	Identities repository.IdentityRepository
	Hasher     Hasher
	Tokens     TokenIssuer
}

// Service implementa RegisterService y LoginService.
type Service struct {
	deps     Deps
	validate *validator.Validate
	// dummyHash se verifica cuando no hay registro usable, así un login a
	// una cuenta inexistente paga el mismo costo bcrypt que uno existente.
	dummyHash string
}

// NewService crea el servicio de autenticación. Precalcula el hash señuelo
// con el mismo hasher (mismo costo) que usan las credenciales reales.
func NewService(deps Deps) *Service {
	s := &Service{deps: deps, validate: validator.New(validator.WithRequiredStructEnabled())}
	if deps.Hasher != nil {
		h, err := deps.Hasher.Hash(context.Background(), dummyPassword)
		if err != nil {
			logger.L().Warn("dummy hash unavailable", logger.Component("auth"), logger.Err(err))
		}
		s.dummyHash = h
	}
	return s
}

var (
	_ RegisterService = (*Service)(nil)
	_ LoginService    = (*Service)(nil)
)

// tokenRoles devuelve los nombres de rol para el token; ["user"] si el
// registro no trae ninguno.
func tokenRoles(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return []string{rbac.RoleUser}
	}
	return out
}
