package auth

import (
	"net/http"

	"github.com/dropDatabas3/chasqui/internal/domain/rbac"
	dto "github.com/dropDatabas3/chasqui/internal/http/dto/auth"
	"github.com/dropDatabas3/chasqui/internal/http/helpers"
)

// RolesController handles GET /api/roles.
type RolesController struct{}

func NewRolesController() *RolesController { return &RolesController{} }

// List devuelve el catálogo de roles predefinidos.
func (c *RolesController) List(w http.ResponseWriter, r *http.Request) {
	if !helpers.RequireMethod(w, r, http.MethodGet) {
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.RolesResponse{Roles: rbac.Catalog()})
}
