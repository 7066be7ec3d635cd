package controllers

import (
	"net/http"

	"github.com/mariagaitan/condoflow-backend/api/responses"
	"github.com/mariagaitan/condoflow-backend/api/validators"
	"github.com/mariagaitan/condoflow-backend/internal/ledgerview"
	"github.com/mariagaitan/condoflow-backend/internal/scope"
)

// UnitLedger handles GET /units/{unitID}/ledger. Residents and owners
// only reach units they actively occupy; staff can pull any unit in the
// tenant.
func UnitLedger(svc ledgerview.Service, scopes *scope.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		act, err := requireActor(r)
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}
		unitID, err := validators.ParsePathUUID(r, "unitID")
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}
		unit, err := scopes.ResolveUnitByID(ctx, act, unitID)
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}

		query := ledgerview.LedgerQuery{
			PeriodFrom: validators.QueryString(r, "periodFrom"),
			PeriodTo:   validators.QueryString(r, "periodTo"),
		}

		dto, err := svc.GetUnitLedger(ctx, act, unit, query)
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
