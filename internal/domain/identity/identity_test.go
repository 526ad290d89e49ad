package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/dropDatabas3/chasqui/internal/domain/rbac"
	"github.com/dropDatabas3/chasqui/internal/security/password"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type failingHasher struct{}

func (failingHasher) Hash(context.Context, string) (string, error) {
	return "", password.ErrHashing
}

func newIdentity(t *testing.T) *Identity {
	t.Helper()
	h, err := password.NewHasher(password.Config{Cost: bcrypt.MinCost})
	require.NoError(t, err)
	u, err := New(context.Background(), h, "Alice", "alice@example.com", "Super$ecret123")
	require.NoError(t, err)
	return u
}

func TestNew(t *testing.T) {
	u := newIdentity(t)

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "Alice", u.Username)
	assert.True(t, u.HasUsableCredential())
	assert.NotEqual(t, "Super$ecret123", u.PasswordHash)
	assert.Equal(t, []string{rbac.RoleUser}, u.RoleNames())
	assert.True(t, u.IsStandardUser())
	assert.False(t, u.CreatedAt.IsZero())
}

func TestNew_HashFailure(t *testing.T) {
	_, err := New(context.Background(), failingHasher{}, "Bob", "bob@example.com", "pw")
	require.Error(t, err)
	assert.True(t, errors.Is(err, password.ErrHashing))
}

func TestAddRole_Idempotent(t *testing.T) {
	u := newIdentity(t)

	assert.False(t, u.AddRole(rbac.User()))
	assert.Len(t, u.Roles, 1)

	assert.True(t, u.AddRole(rbac.Moderator()))
	assert.Len(t, u.Roles, 2)
	assert.False(t, u.AddRole(rbac.Moderator()))
	assert.Len(t, u.Roles, 2)

	// mismo nombre con otro contenido sigue siendo duplicado
	assert.False(t, u.AddRole(rbac.NewRole(rbac.RoleModerator, "other")))
	assert.Len(t, u.Roles, 2)
}

func TestRemoveRole(t *testing.T) {
	u := newIdentity(t)
	u.AddRole(rbac.Moderator())

	assert.True(t, u.RemoveRole(rbac.RoleUser))
	assert.False(t, u.HasRole(rbac.RoleUser))
	assert.False(t, u.RemoveRole(rbac.RoleUser))
	assert.Equal(t, []string{rbac.RoleModerator}, u.RoleNames())
}

func TestRoleQueries(t *testing.T) {
	u := newIdentity(t)
	u.AddRole(rbac.Moderator())

	assert.True(t, u.HasAllRoles(rbac.RoleUser, rbac.RoleModerator))
	assert.False(t, u.HasAllRoles(rbac.RoleUser, rbac.RoleAdmin))
	assert.True(t, u.HasAllRoles())
	assert.True(t, u.HasAnyRole(rbac.RoleAdmin, rbac.RoleModerator))
	assert.False(t, u.HasAnyRole())
	assert.True(t, u.IsModerator())
	assert.False(t, u.IsStandardUser())
}

func TestPermissions(t *testing.T) {
	u := newIdentity(t)

	assert.True(t, u.HasPermission(rbac.PermChannelSendMessages))
	assert.False(t, u.HasPermission(rbac.PermMessageDelete))
	assert.True(t, u.HasAllPermissions(rbac.PermTaskRead, rbac.PermTaskCreate))
	assert.False(t, u.HasAllPermissions(rbac.PermTaskRead, rbac.PermUserBan))
	assert.True(t, u.HasAnyPermission(rbac.PermUserBan, rbac.PermTaskRead))

	u.AddRole(rbac.Admin())
	assert.True(t, u.IsAdmin())
	assert.True(t, u.HasPermission(rbac.PermUserBan))
	assert.True(t, u.HasAllPermissions(rbac.AllPermissions()...))
}

func TestClone_Independent(t *testing.T) {
	u := newIdentity(t)
	c := u.Clone()
	c.AddRole(rbac.Admin())
	c.Username = "Mallory"

	assert.False(t, u.IsAdmin())
	assert.Equal(t, "Alice", u.Username)

	var nilID *Identity
	assert.Nil(t, nilID.Clone())
}

func TestLegacyRecord(t *testing.T) {
	u := &Identity{ID: "x", Username: "old", Roles: []rbac.Role{rbac.User()}}
	assert.False(t, u.HasUsableCredential())
}
