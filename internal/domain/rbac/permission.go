// Package rbac modela permisos y roles.
//
// Permission es un enum cerrado conocido en compile time; PermissionSet es un
// bitmask sobre ese enum. Un rol con PermAdminAll satisface cualquier check.
package rbac

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"sort"
)

// Permission es un permiso atómico. Forma textual: "area:verb".
type Permission uint8

const (
	PermAdminAll Permission = iota

	PermWorkspaceCreate
	PermWorkspaceRead
	PermWorkspaceUpdate
	PermWorkspaceDelete
	PermWorkspaceManageMembers

	PermChannelCreate
	PermChannelRead
	PermChannelUpdate
	PermChannelDelete
	PermChannelSendMessages

	PermMessageCreate
	PermMessageUpdate
	PermMessageDelete
	PermMessagePin

	PermUserInvite
	PermUserKick
	PermUserBan

	PermTaskRead
	PermTaskCreate
	PermTaskUpdate

	permCount
)

var permNames = [permCount]string{
	PermAdminAll: "admin:all",

	PermWorkspaceCreate:        "workspace:create",
	PermWorkspaceRead:          "workspace:read",
	PermWorkspaceUpdate:        "workspace:update",
	PermWorkspaceDelete:        "workspace:delete",
	PermWorkspaceManageMembers: "workspace:manage_members",

	PermChannelCreate:       "channel:create",
	PermChannelRead:         "channel:read",
	PermChannelUpdate:       "channel:update",
	PermChannelDelete:       "channel:delete",
	PermChannelSendMessages: "channel:send_messages",

	PermMessageCreate: "message:create",
	PermMessageUpdate: "message:update",
	PermMessageDelete: "message:delete",
	PermMessagePin:    "message:pin",

	PermUserInvite: "user:invite",
	PermUserKick:   "user:kick",
	PermUserBan:    "user:ban",

	PermTaskRead:   "task:read",
	PermTaskCreate: "task:create",
	PermTaskUpdate: "task:update",
}

var permByName = func() map[string]Permission {
	m := make(map[string]Permission, len(permNames))
	for i, n := range permNames {
		m[n] = Permission(i)
	}
	return m
}()

// AllPermissions devuelve todos los permisos conocidos, en orden de declaración.
func AllPermissions() []Permission {
	out := make([]Permission, 0, permCount)
	for p := Permission(0); p < permCount; p++ {
		out = append(out, p)
	}
	return out
}

// Valid reporta si p pertenece al enum.
func (p Permission) Valid() bool { return p < permCount }

func (p Permission) String() string {
	if !p.Valid() {
		return fmt.Sprintf("permission(%d)", uint8(p))
	}
	return permNames[p]
}

// ParsePermission convierte "area:verb" a Permission.
func ParsePermission(s string) (Permission, error) {
	if p, ok := permByName[s]; ok {
		return p, nil
	}
	return 0, fmt.Errorf("rbac: unknown permission %q", s)
}

func (p Permission) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("rbac: invalid permission %d", uint8(p))
	}
	return []byte(permNames[p]), nil
}

func (p *Permission) UnmarshalText(b []byte) error {
	v, err := ParsePermission(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// PermissionSet es un conjunto de permisos (bitmask). El zero value es el
// conjunto vacío.
type PermissionSet uint32

// NewPermissionSet construye un set con los permisos dados; los inválidos se ignoran.
func NewPermissionSet(perms ...Permission) PermissionSet {
	var s PermissionSet
	for _, p := range perms {
		s = s.With(p)
	}
	return s
}

func (s PermissionSet) With(p Permission) PermissionSet {
	if !p.Valid() {
		return s
	}
	return s | 1<<p
}

func (s PermissionSet) Without(p Permission) PermissionSet {
	if !p.Valid() {
		return s
	}
	return s &^ (1 << p)
}

// Contains es pertenencia literal; no aplica el comodín admin:all.
func (s PermissionSet) Contains(p Permission) bool {
	return p.Valid() && s&(1<<p) != 0
}

func (s PermissionSet) Len() int { return bits.OnesCount32(uint32(s)) }

func (s PermissionSet) IsEmpty() bool { return s == 0 }

// Slice devuelve los permisos en orden de declaración.
func (s PermissionSet) Slice() []Permission {
	out := make([]Permission, 0, s.Len())
	for p := Permission(0); p < permCount; p++ {
		if s.Contains(p) {
			out = append(out, p)
		}
	}
	return out
}

// Strings devuelve la forma textual, ordenada alfabéticamente.
func (s PermissionSet) Strings() []string {
	ps := s.Slice()
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}
	sort.Strings(out)
	return out
}

func (s PermissionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

func (s *PermissionSet) UnmarshalJSON(b []byte) error {
	var names []string
	if err := json.Unmarshal(b, &names); err != nil {
		return fmt.Errorf("rbac: permission set: %w", err)
	}
	var out PermissionSet
	for _, n := range names {
		p, err := ParsePermission(n)
		if err != nil {
			return err
		}
		out = out.With(p)
	}
	*s = out
	return nil
}
