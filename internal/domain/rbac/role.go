package rbac

import "github.com/google/uuid"

// Role es un grupo nombrado de permisos. Se identifica y compara por Name.
type Role struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Permissions PermissionSet `json:"permissions"`
}

// NewRole crea un rol sin permisos con un ID nuevo.
func NewRole(name, description string) Role {
	return Role{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
	}
}

// WithPermissions devuelve una copia con el set reemplazado por perms.
func (r Role) WithPermissions(perms ...Permission) Role {
	r.Permissions = NewPermissionSet(perms...)
	return r
}

// HasPermission es true si p está en el set o el set contiene admin:all.
func (r Role) HasPermission(p Permission) bool {
	return r.Permissions.Contains(PermAdminAll) || r.Permissions.Contains(p)
}

// IsWildcard reporta si el rol tiene admin:all.
func (r Role) IsWildcard() bool { return r.Permissions.Contains(PermAdminAll) }
