package payments

import (
	"time"

	"github.com/google/uuid"

	"github.com/mariagaitan/condoflow-backend/pkg/db/models"
	"github.com/mariagaitan/condoflow-backend/pkg/enums"
)

// PaymentDTO is the payment payload returned to clients.
type PaymentDTO struct {
	ID                     uuid.UUID           `json:"id"`
	UnitID                 *uuid.UUID          `json:"unit_id,omitempty"`
	BuildingID             uuid.UUID           `json:"building_id"`
	AmountCents            int64               `json:"amount_cents"`
	AllocatedCents         int64               `json:"allocated_cents"`
	Currency               enums.Currency      `json:"currency"`
	Method                 enums.PaymentMethod `json:"method"`
	Status                 enums.PaymentStatus `json:"status"`
	Reference              *string             `json:"reference,omitempty"`
	ProofFileID            *string             `json:"proof_file_id,omitempty"`
	CreatedByUserID        uuid.UUID           `json:"created_by_user_id"`
	ReviewedByMembershipID *uuid.UUID          `json:"reviewed_by_membership_id,omitempty"`
	ReviewNote             *string             `json:"review_note,omitempty"`
	PaidAt                 *time.Time          `json:"paid_at,omitempty"`
	CreatedAt              time.Time           `json:"created_at"`
	UpdatedAt              time.Time           `json:"updated_at"`
}

// SubmitPaymentRequest is the body for reporting a payment. UnitID is
// optional; staff may record a payment before the unit is known.
type SubmitPaymentRequest struct {
	UnitID      *uuid.UUID `json:"unit_id"`
	AmountCents int64      `json:"amount_cents" validate:"required,gt=0"`
	Currency    string     `json:"currency" validate:"required,len=3"`
	Method      string     `json:"method" validate:"required"`
	Reference   *string    `json:"reference" validate:"omitempty,max=255"`
	ProofFileID *string    `json:"proof_file_id" validate:"omitempty,max=255"`
}

// ApprovePaymentRequest is the body for approving a payment. PaidAt
// defaults to now when omitted.
type ApprovePaymentRequest struct {
	PaidAt *time.Time `json:"paid_at"`
	Note   *string    `json:"note" validate:"omitempty,max=2000"`
}

// RejectPaymentRequest is the body for rejecting a payment.
type RejectPaymentRequest struct {
	Note *string `json:"note" validate:"omitempty,max=2000"`
}

// ToDTO maps a payment row plus its allocated total.
func ToDTO(p *models.Payment, allocatedCents int64) PaymentDTO {
	return PaymentDTO{
		ID:                     p.ID,
		UnitID:                 p.UnitID,
		BuildingID:             p.BuildingID,
		AmountCents:            p.AmountCents,
		AllocatedCents:         allocatedCents,
		Currency:               p.Currency,
		Method:                 p.Method,
		Status:                 p.Status,
		Reference:              p.Reference,
		ProofFileID:            p.ProofFileID,
		CreatedByUserID:        p.CreatedByUserID,
		ReviewedByMembershipID: p.ReviewedByMembershipID,
		ReviewNote:             p.ReviewNote,
		PaidAt:                 p.PaidAt,
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              p.UpdatedAt,
	}
}
