package middlewares

import (
	"net/http"
	"strings"

	httperrors "github.com/dropDatabas3/chasqui/internal/http/errors"
	jwtx "github.com/dropDatabas3/chasqui/internal/jwt"
	"github.com/dropDatabas3/chasqui/internal/observability/logger"
)

// TokenVerifier valida un access token y devuelve sus claims.
type TokenVerifier interface {
	Verify(token string) (*jwtx.Claims, error)
}

// RequireAuth valida Authorization: Bearer <JWT> y guarda las claims en el
// contexto. Token ausente o inválido responde 401.
func RequireAuth(verifier TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token", error_description="missing bearer token"`)
				httperrors.WriteError(w, httperrors.ErrTokenMissing)
				return
			}

			claims, err := verifier.Verify(raw)
			if err != nil {
				// el detalle va al log, no al cliente
				logger.From(r.Context()).Debug("bearer token rejected", logger.Err(err))
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				httperrors.WriteError(w, httperrors.ErrTokenInvalid)
				return
			}

			ctx := WithClaims(r.Context(), claims)
			ctx = WithUserID(ctx, claims.Subject)
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.UserID(claims.Subject)))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	ah := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(ah) < len("Bearer ") || !strings.EqualFold(ah[:len("Bearer ")], "bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(ah[len("Bearer "):])
	return raw, raw != ""
}
