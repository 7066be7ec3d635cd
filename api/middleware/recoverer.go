package middleware

import (
	"fmt"
	"net/http"

	"github.com/mariagaitan/condoflow-backend/api/responses"
	pkgerrors "github.com/mariagaitan/condoflow-backend/pkg/errors"
	"github.com/mariagaitan/condoflow-backend/pkg/logger"
)

// Recoverer converts panics into a clean internal error response.
func Recoverer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err := fmt.Errorf("panic: %v", rec)
					ctx := r.Context()
					logger.FromContext(ctx).
						WithField("panic", rec).
						Error(err, "panic.recovered")
					responses.WriteError(ctx, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
