package middleware

import (
	"net/http"
	"time"

	"github.com/mariagaitan/condoflow-backend/pkg/logger"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// Logging emits a start/complete pair per request with latency.
func Logging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logg := logger.FromContext(r.Context()).WithFields(map[string]any{
				"method": r.Method,
				"path":   r.URL.Path,
			})
			ctx := logg.Attach(r.Context())

			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()

			logg.Info("request.start")
			next.ServeHTTP(rec, r.WithContext(ctx))

			if rec.status == 0 {
				rec.status = http.StatusOK
			}

			logg.WithFields(map[string]any{
				"status":      rec.status,
				"duration_ms": time.Since(start).Milliseconds(),
			}).Info("request.complete")
		})
	}
}
