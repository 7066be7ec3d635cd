package middleware

import (
	"net/http"
	"strings"

	"github.com/mariagaitan/condoflow-backend/api/responses"
	"github.com/mariagaitan/condoflow-backend/internal/actor"
	pkgauth "github.com/mariagaitan/condoflow-backend/pkg/auth"
	"github.com/mariagaitan/condoflow-backend/pkg/config"
	pkgerrors "github.com/mariagaitan/condoflow-backend/pkg/errors"
	"github.com/mariagaitan/condoflow-backend/pkg/logger"
)

// Auth validates a bearer token and seeds the request context with the
// actor. Everything past this middleware can assume a tenant.
func Auth(cfg config.JWTConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			act := actor.FromClaims(claims)
			ctx := WithActor(r.Context(), act)

			logg := logger.FromContext(ctx).
				WithUserID(act.UserID.String()).
				WithTenantID(act.TenantID.String())
			ctx = logg.Attach(ctx)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
