package auth

import (
	"net/http"

	"github.com/dropDatabas3/chasqui/internal/domain/rbac"
	dto "github.com/dropDatabas3/chasqui/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/chasqui/internal/http/errors"
	"github.com/dropDatabas3/chasqui/internal/http/helpers"
	mw "github.com/dropDatabas3/chasqui/internal/http/middlewares"
)

// MeController handles GET /api/me.
type MeController struct{}

// NewMeController creates a new me controller.
func NewMeController() *MeController {
	return &MeController{}
}

// Me devuelve la vista de las claims del token (requiere RequireAuth). Los
// permisos son la unión de los roles conocidos del catálogo.
func (c *MeController) Me(w http.ResponseWriter, r *http.Request) {
	if !helpers.RequireMethod(w, r, http.MethodGet) {
		return
	}

	cl := mw.GetClaims(r.Context())
	if cl == nil {
		httperrors.WriteError(w, httperrors.ErrTokenMissing)
		return
	}

	var perms rbac.PermissionSet
	for _, role := range rbac.ResolveNames(cl.Roles) {
		for _, p := range role.Permissions.Slice() {
			perms = perms.With(p)
		}
	}
	roles := cl.Roles
	if roles == nil {
		roles = []string{}
	}

	helpers.WriteJSON(w, http.StatusOK, dto.MeResponse{
		Sub:         cl.Subject,
		Username:    cl.Username,
		Roles:       roles,
		Permissions: perms.Strings(),
		IssuedAt:    cl.IssuedAtTime().Unix(),
		ExpiresAt:   cl.ExpiresAtTime().Unix(),
	})
}
