package validators

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/mariagaitan/condoflow-backend/pkg/errors"
)

// ParsePathUUID reads a UUID path parameter. A malformed id maps to the
// same not-found error as a missing row, so the URL shape never reveals
// whether an id could exist.
func ParsePathUUID(r *http.Request, key string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeNotFound, "resource not found")
	}
	return id, nil
}

// QueryString returns the trimmed query value, or nil when absent.
func QueryString(r *http.Request, key string) *string {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil
	}
	return &raw
}

// QueryUUID parses an optional UUID query parameter.
func QueryUUID(r *http.Request, key string) (*uuid.UUID, error) {
	raw := QueryString(r, key)
	if raw == nil {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a UUID").
			WithDetails(map[string]any{"field": key})
	}
	return &id, nil
}

// QueryBool reports whether the query parameter is set to a truthy value.
func QueryBool(r *http.Request, key string) bool {
	raw := strings.ToLower(strings.TrimSpace(r.URL.Query().Get(key)))
	return raw == "true" || raw == "1"
}
