package rbac

import (
	"sort"

	"github.com/google/uuid"
)

// Nombres de los roles predefinidos.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleUser      = "user"
)

// namespace para IDs deterministas de roles del catálogo.
var catalogNS = uuid.MustParse("6f1c7a52-3f0e-4b7e-9c55-2a7d1f0b9e11")

func catalogRole(name, desc string, perms ...Permission) Role {
	return Role{
		ID:          uuid.NewSHA1(catalogNS, []byte(name)).String(),
		Name:        name,
		Description: desc,
		Permissions: NewPermissionSet(perms...),
	}
}

// catálogo global; solo lectura después de init. Los accessors devuelven
// copias (Role es un value type sin slices).
var catalog = map[string]Role{
	RoleAdmin: catalogRole(RoleAdmin, "Administrator with full access", PermAdminAll),
	RoleModerator: catalogRole(RoleModerator, "Moderator with content management permissions",
		PermWorkspaceRead,
		PermChannelRead,
		PermChannelSendMessages,
		PermMessageDelete,
		PermTaskRead,
		PermTaskUpdate,
	),
	RoleUser: catalogRole(RoleUser, "Standard user",
		PermWorkspaceRead,
		PermChannelRead,
		PermChannelSendMessages,
		PermTaskRead,
		PermTaskCreate,
		PermTaskUpdate,
	),
}

func Admin() Role     { return catalog[RoleAdmin] }
func Moderator() Role { return catalog[RoleModerator] }
func User() Role      { return catalog[RoleUser] }

// Lookup busca un rol predefinido por nombre.
func Lookup(name string) (Role, bool) {
	r, ok := catalog[name]
	return r, ok
}

// Catalog devuelve los roles predefinidos ordenados por nombre.
func Catalog() []Role {
	out := make([]Role, 0, len(catalog))
	for _, r := range catalog {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ResolveNames mapea nombres de rol (ej: los de un token) a roles del
// catálogo. Los nombres desconocidos se descartan: no otorgan nada.
func ResolveNames(names []string) []Role {
	out := make([]Role, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, dup := seen[n]; dup {
			continue
		}
		if r, ok := catalog[n]; ok {
			seen[n] = struct{}{}
			out = append(out, r)
		}
	}
	return out
}
