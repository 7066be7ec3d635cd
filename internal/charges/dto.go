package charges

import (
	"time"

	"github.com/google/uuid"

	"github.com/mariagaitan/condoflow-backend/pkg/db/models"
	"github.com/mariagaitan/condoflow-backend/pkg/enums"
)

// ChargeDTO is the charge payload returned to clients.
type ChargeDTO struct {
	ID             uuid.UUID          `json:"id"`
	UnitID         uuid.UUID          `json:"unit_id"`
	BuildingID     uuid.UUID          `json:"building_id"`
	Type           enums.ChargeType   `json:"type"`
	Period         string             `json:"period"`
	Concept        string             `json:"concept"`
	AmountCents    int64              `json:"amount_cents"`
	Currency       enums.Currency     `json:"currency"`
	DueDate        *time.Time         `json:"due_date,omitempty"`
	Status         enums.ChargeStatus `json:"status"`
	AllocatedCents int64              `json:"allocated_cents"`
	CanceledAt     *time.Time         `json:"canceled_at,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// CreateChargeRequest is the body for creating a charge.
type CreateChargeRequest struct {
	UnitID      uuid.UUID  `json:"unit_id" validate:"required"`
	Type        string     `json:"type" validate:"required"`
	Period      string     `json:"period" validate:"required"`
	Concept     string     `json:"concept" validate:"required,max=500"`
	AmountCents int64      `json:"amount_cents" validate:"required,gt=0"`
	Currency    string     `json:"currency" validate:"required,len=3"`
	DueDate     *time.Time `json:"due_date"`
}

// UpdateChargeRequest is the body for updating a charge. Any of these
// may change while the charge has no allocations; afterwards the charge
// is frozen except for cancellation.
type UpdateChargeRequest struct {
	Type        *string    `json:"type"`
	Concept     *string    `json:"concept" validate:"omitempty,max=500"`
	AmountCents *int64     `json:"amount_cents" validate:"omitempty,gt=0"`
	DueDate     *time.Time `json:"due_date"`
}

// ToDTO maps a charge row plus its allocated total.
func ToDTO(c *models.Charge, allocatedCents int64) ChargeDTO {
	return ChargeDTO{
		ID:             c.ID,
		UnitID:         c.UnitID,
		BuildingID:     c.BuildingID,
		Type:           c.Type,
		Period:         c.Period,
		Concept:        c.Concept,
		AmountCents:    c.AmountCents,
		Currency:       c.Currency,
		DueDate:        c.DueDate,
		Status:         c.Status,
		AllocatedCents: allocatedCents,
		CanceledAt:     c.CanceledAt,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
