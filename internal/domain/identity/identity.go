// Package identity define el registro de identidad: usuario, credencial y
// roles asignados.
package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/dropDatabas3/chasqui/internal/domain/rbac"
	"github.com/google/uuid"
)

// PasswordHasher es lo único que Identity necesita del hasher.
type PasswordHasher interface {
	Hash(ctx context.Context, plain string) (string, error)
}

// Identity es una cuenta registrada. Username es inmutable; Email vacío
// significa ausente; PasswordHash vacío marca un registro legacy sin
// credencial usable. Roles nunca repite nombres.
type Identity struct {
	ID           string      `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email,omitempty"`
	PasswordHash string      `json:"password_hash,omitempty"`
	Roles        []rbac.Role `json:"roles"`
	CreatedAt    time.Time   `json:"created_at"`
}

// New crea una identidad con ID nuevo, password hasheada y el rol "user".
func New(ctx context.Context, hasher PasswordHasher, username, email, plain string) (*Identity, error) {
	hash, err := hasher.Hash(ctx, plain)
	if err != nil {
		return nil, fmt.Errorf("identity: hash password: %w", err)
	}
	return &Identity{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Roles:        []rbac.Role{rbac.User()},
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// HasUsableCredential reporta si hay un hash contra el cual verificar.
func (u *Identity) HasUsableCredential() bool { return u.PasswordHash != "" }

func (u *Identity) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// AddRole agrega role si no hay otro con el mismo nombre. Devuelve false (sin
// cambios) si ya existía.
func (u *Identity) AddRole(role rbac.Role) bool {
	if u.HasRole(role.Name) {
		return false
	}
	u.Roles = append(u.Roles, role)
	return true
}

// RemoveRole quita el rol por nombre. Devuelve false si no estaba.
func (u *Identity) RemoveRole(name string) bool {
	for i, r := range u.Roles {
		if r.Name == name {
			u.Roles = append(u.Roles[:i:i], u.Roles[i+1:]...)
			return true
		}
	}
	return false
}

// HasAllRoles es true para una lista vacía.
func (u *Identity) HasAllRoles(names ...string) bool {
	for _, n := range names {
		if !u.HasRole(n) {
			return false
		}
	}
	return true
}

// HasAnyRole es false para una lista vacía.
func (u *Identity) HasAnyRole(names ...string) bool {
	for _, n := range names {
		if u.HasRole(n) {
			return true
		}
	}
	return false
}

// HasPermission aplica el comodín admin:all de cada rol.
func (u *Identity) HasPermission(p rbac.Permission) bool {
	for _, r := range u.Roles {
		if r.HasPermission(p) {
			return true
		}
	}
	return false
}

func (u *Identity) HasAllPermissions(ps ...rbac.Permission) bool {
	for _, p := range ps {
		if !u.HasPermission(p) {
			return false
		}
	}
	return true
}

func (u *Identity) HasAnyPermission(ps ...rbac.Permission) bool {
	for _, p := range ps {
		if u.HasPermission(p) {
			return true
		}
	}
	return false
}

func (u *Identity) IsAdmin() bool     { return u.HasRole(rbac.RoleAdmin) }
func (u *Identity) IsModerator() bool { return u.HasRole(rbac.RoleModerator) }

// IsStandardUser: rol user y ninguno de admin/moderator.
func (u *Identity) IsStandardUser() bool {
	return u.HasRole(rbac.RoleUser) && !u.IsAdmin() && !u.IsModerator()
}

// RoleNames devuelve los nombres de rol en orden de asignación.
func (u *Identity) RoleNames() []string {
	out := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		out[i] = r.Name
	}
	return out
}

// Clone devuelve una copia independiente (los stores nunca entregan punteros
// a su estado interno).
func (u *Identity) Clone() *Identity {
	if u == nil {
		return nil
	}
	c := *u
	c.Roles = append([]rbac.Role(nil), u.Roles...)
	return &c
}
