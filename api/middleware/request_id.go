package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mariagaitan/condoflow-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags every request with an id, echoing it back in the
// response and onto the request-scoped logger.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, reqID)

			ctx := logg.WithRequestID(reqID).Attach(r.Context())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
