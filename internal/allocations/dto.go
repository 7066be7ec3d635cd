package allocations

import (
	"time"

	"github.com/google/uuid"

	"github.com/mariagaitan/condoflow-backend/pkg/db/models"
)

// AllocationDTO is the allocation payload returned to clients.
type AllocationDTO struct {
	ID          uuid.UUID `json:"id"`
	PaymentID   uuid.UUID `json:"payment_id"`
	ChargeID    uuid.UUID `json:"charge_id"`
	AmountCents int64     `json:"amount_cents"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateAllocationRequest is the body for applying a payment to a charge.
type CreateAllocationRequest struct {
	PaymentID   uuid.UUID `json:"payment_id" validate:"required"`
	ChargeID    uuid.UUID `json:"charge_id" validate:"required"`
	AmountCents int64     `json:"amount_cents" validate:"required,gt=0"`
}

// ToDTO maps an allocation row.
func ToDTO(a *models.Allocation) AllocationDTO {
	return AllocationDTO{
		ID:          a.ID,
		PaymentID:   a.PaymentID,
		ChargeID:    a.ChargeID,
		AmountCents: a.AmountCents,
		CreatedAt:   a.CreatedAt,
	}
}
