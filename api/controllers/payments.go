package controllers

import (
	"net/http"

	"github.com/mariagaitan/condoflow-backend/api/responses"
	"github.com/mariagaitan/condoflow-backend/api/validators"
	"github.com/mariagaitan/condoflow-backend/internal/payments"
	"github.com/mariagaitan/condoflow-backend/internal/scope"
	"github.com/mariagaitan/condoflow-backend/pkg/db/models"
	"github.com/mariagaitan/condoflow-backend/pkg/enums"
	pkgerrors "github.com/mariagaitan/condoflow-backend/pkg/errors"
	"github.com/mariagaitan/condoflow-backend/pkg/pagination"
)

// PaymentSubmit handles POST /buildings/{buildingID}/payments. The unit
// is optional; when given it must resolve inside the building for the
// actor.
func PaymentSubmit(svc payments.Service, scopes *scope.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		act, building, err := resolveBuildingScope(r, scopes)
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}

		var req payments.SubmitPaymentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, w, err)
			return
		}

		var unit *models.Unit
		if req.UnitID != nil {
			unit, err = scopes.ResolveUnit(ctx, act, building.ID, *req.UnitID)
			if err != nil {
				responses.WriteError(ctx, w, err)
				return
			}
		}

		dto, err := svc.Submit(ctx, act, building, unit, req)
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// PaymentList handles GET /buildings/{buildingID}/payments.
func PaymentList(svc payments.Service, scopes *scope.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		act, building, err := resolveBuildingScope(r, scopes)
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}

		filter, err := paymentListFilter(r)
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

func paymentListFilter(r *http.Request) (payments.ListFilter, error) {
	var filter payments.ListFilter

	if raw := validators.QueryString(r, "status"); raw != nil {
		status, err := enums.ParsePaymentStatus(*raw)
		if err != nil {
			return filter, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter").
				WithDetails(map[string]string{"status": *raw})
		}
		filter.Status = &status
	}
	if raw := validators.QueryString(r, "method"); raw != nil {
		method, err := enums.ParsePaymentMethod(*raw)
		if err != nil {
			return filter, pkgerrors.New(pkgerrors.CodeValidation, "invalid method filter").
				WithDetails(map[string]string{"method": *raw})
		}
		filter.Method = &method
	}
	unitID, err := validators.QueryUUID(r, "unitId")
	if err != nil {
		return filter, err
	}
	filter.UnitID = unitID
	return filter, nil
}

// PaymentGet handles GET /buildings/{buildingID}/payments/{paymentID}.
func PaymentGet(svc payments.Service, scopes *scope.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		act, building, err := resolveBuildingScope(r, scopes)
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}
		paymentID, err := validators.ParsePathUUID(r, "paymentID")
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}

		dto, err := svc.Get(ctx, act, building, paymentID)
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// PaymentApprove handles PATCH /buildings/{buildingID}/payments/{paymentID}/approve.
func PaymentApprove(svc payments.Service, scopes *scope.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		act, building, err := resolveBuildingScope(r, scopes)
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}
		paymentID, err := validators.ParsePathUUID(r, "paymentID")
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}

		// Body is optional; an empty PATCH approves with paid_at = now.
		var req payments.ApprovePaymentRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				responses.WriteError(ctx, w, err)
				return
			}
		}

		dto, err := svc.Approve(ctx, act, building, paymentID, req)
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// PaymentReject handles PATCH /buildings/{buildingID}/payments/{paymentID}/reject.
func PaymentReject(svc payments.Service, scopes *scope.Validator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		act, building, err := resolveBuildingScope(r, scopes)
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}
		paymentID, err := validators.ParsePathUUID(r, "paymentID")
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}

		var req payments.RejectPaymentRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				responses.WriteError(ctx, w, err)
				return
			}
		}

		dto, err := svc.Reject(ctx, act, building, paymentID, req)
		if err != nil {
			responses.WriteError(ctx, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}
