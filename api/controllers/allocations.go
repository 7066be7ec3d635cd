package controllers

import (
	"net/http"

	"github.com/mariagaitan/condoflow-backend/api/responses"
	"github.com/mariagaitan/condoflow-backend/api/validators"
	"github.com/mariagaitan/condoflow-backend/internal/allocations"
	"github.com/mariagaitan/condoflow-backend/internal/scope"
)

// AllocationCreate handles POST /buildings/{buildingID}/allocations.
func AllocationCreate(svc allocations.Service, scopes *scope.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		act, building, err := resolveBuildingScope(r, scopes)
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}

		var req allocations.CreateAllocationRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, w, err)
			return
		}

		dto, err := svc.Create(ctx, act, building, req)
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// AllocationDelete handles DELETE /buildings/{buildingID}/allocations/{allocationID}.
func AllocationDelete(svc allocations.Service, scopes *scope.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		act, building, err := resolveBuildingScope(r, scopes)
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}
		allocationID, err := validators.ParsePathUUID(r, "allocationID")
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}

		if err := svc.Delete(ctx, act, building, allocationID); err != nil {
			responses.WriteError(ctx, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
