package repository

import (
	"context"

	"github.com/dropDatabas3/chasqui/internal/domain/identity"
)

// IdentityRepository persiste registros de identidad.
type IdentityRepository interface {
	// Create guarda una identidad nueva. Username o email duplicado =>
	// ErrConflict. Devuelve el registro tal como quedó guardado.
	Create(ctx context.Context, u *identity.Identity) (*identity.Identity, error)

	// GetByUsername busca por username exacto. Retorna ErrNotFound si no existe.
	GetByUsername(ctx context.Context, username string) (*identity.Identity, error)

	// GetByEmail busca por email. Los registros sin password hash usable se
	// excluyen (se reportan como ErrNotFound).
	GetByEmail(ctx context.Context, email string) (*identity.Identity, error)
}
