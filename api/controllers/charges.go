package controllers

import (
	"net/http"

	"github.com/mariagaitan/condoflow-backend/api/responses"
	"github.com/mariagaitan/condoflow-backend/api/validators"
	"github.com/mariagaitan/condoflow-backend/internal/charges"
	"github.com/mariagaitan/condoflow-backend/internal/scope"
	"github.com/mariagaitan/condoflow-backend/pkg/enums"
	pkgerrors "github.com/mariagaitan/condoflow-backend/pkg/errors"
	"github.com/mariagaitan/condoflow-backend/pkg/pagination"
)

// ChargeCreate handles POST /buildings/{buildingID}/charges.
func ChargeCreate(svc charges.Service, scopes *scope.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		act, building, err := resolveBuildingScope(r, scopes)
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}

		var req charges.CreateChargeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, w, err)
			return
		}

		unit, err := scopes.ResolveUnit(ctx, act, building.ID, req.UnitID)
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}

		dto, err := svc.Create(ctx, act, unit, req)
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// ChargeList handles GET /buildings/{buildingID}/charges.
func ChargeList(svc charges.Service, scopes *scope.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		act, building, err := resolveBuildingScope(r, scopes)
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}

		filter, err := chargeListFilter(r)
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}
		page := pagination.FromRequest(r)

		rows, total, err := svc.List(ctx, act, building, filter, page)
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"items": rows,
			"meta":  pagination.MetaFor(page, total),
		})
	}
}

func chargeListFilter(r *http.Request) (charges.ListFilter, error) {
	var filter charges.ListFilter

	if raw := validators.QueryString(r, "status"); raw != nil {
		status, err := enums.ParseChargeStatus(*raw)
		if err != nil {
			return filter, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter").
				WithDetails(map[string]string{"status": *raw})
		}
		filter.Status = &status
	}
	filter.Period = validators.QueryString(r, "period")
	unitID, err := validators.QueryUUID(r, "unitId")
	if err != nil {
		return filter, err
	}
	filter.UnitID = unitID
	filter.IncludeCanceled = validators.QueryBool(r, "includeCanceled")
	return filter, nil
}

// ChargeGet handles GET /buildings/{buildingID}/charges/{chargeID}.
func ChargeGet(svc charges.Service, scopes *scope.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		act, building, err := resolveBuildingScope(r, scopes)
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}
		chargeID, err := validators.ParsePathUUID(r, "chargeID")
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}

		dto, err := svc.Get(ctx, act, building, chargeID)
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// ChargeUpdate handles PATCH /buildings/{buildingID}/charges/{chargeID}.
func ChargeUpdate(svc charges.Service, scopes *scope.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		act, building, err := resolveBuildingScope(r, scopes)
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}
		chargeID, err := validators.ParsePathUUID(r, "chargeID")
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}

		var req charges.UpdateChargeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, w, err)
			return
		}

		dto, err := svc.Update(ctx, act, building, chargeID, req)
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// ChargeCancel handles DELETE /buildings/{buildingID}/charges/{chargeID}.
// Charges are never hard-deleted; the row stays for the audit trail.
func ChargeCancel(svc charges.Service, scopes *scope.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		act, building, err := resolveBuildingScope(r, scopes)
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}
		chargeID, err := validators.ParsePathUUID(r, "chargeID")
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}

		dto, err := svc.Cancel(ctx, act, building, chargeID)
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
