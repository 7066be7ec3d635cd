package controllers

import (
	"net/http"

	"github.com/mariagaitan/condoflow-backend/api/middleware"
	"github.com/mariagaitan/condoflow-backend/api/validators"
	"github.com/mariagaitan/condoflow-backend/internal/actor"
	"github.com/mariagaitan/condoflow-backend/internal/scope"
	"github.com/mariagaitan/condoflow-backend/pkg/db/models"
	pkgerrors "github.com/mariagaitan/condoflow-backend/pkg/errors"
)

// requireActor pulls the authenticated actor off the request context.
func requireActor(r *http.Request) (actor.Actor, error) {
	act, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		return actor.Actor{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "actor context missing")
	}
	return act, nil
}

// resolveBuildingScope resolves the actor plus the building named in
// the path. Every building-scoped handler starts here.
func resolveBuildingScope(r *http.Request, scopes *scope.Validator) (actor.Actor, *models.Building, error) {
	act, err := requireActor(r)
	if err != nil {
		return actor.Actor{}, nil, err
	}
	buildingID, err := validators.ParsePathUUID(r, "buildingID")
	if err != nil {
		return actor.Actor{}, nil, err
	}
	building, err := scopes.ResolveBuilding(r.Context(), act, buildingID)
	if err != nil {
		return actor.Actor{}, nil, err
	}
	return act, building, nil
}
