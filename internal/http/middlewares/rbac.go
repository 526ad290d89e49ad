package middlewares

import (
	"net/http"

	"github.com/dropDatabas3/chasqui/internal/domain/rbac"
	httperrors "github.com/dropDatabas3/chasqui/internal/http/errors"
	"github.com/dropDatabas3/chasqui/internal/observability/logger"
)

// RequirePermission exige que alguno de los roles del token conceda perm.
// Los nombres de rol se resuelven contra el catálogo estático; un nombre
// desconocido no concede nada. Debe ir después de RequireAuth.
func RequirePermission(perm rbac.Permission) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cl := GetClaims(r.Context())
			if cl == nil {
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				httperrors.WriteError(w, httperrors.ErrTokenMissing)
				return
			}

			for _, role := range rbac.ResolveNames(cl.Roles) {
				if role.HasPermission(perm) {
					next.ServeHTTP(w, r)
					return
				}
			}

			logger.From(r.Context()).Info("permission denied",
				logger.Any("permission", perm.String()),
				logger.Any("roles", cl.Roles),
			)
			httperrors.WriteError(w, httperrors.ErrForbidden.WithDetail("missing permission "+perm.String()))
		})
	}
}
