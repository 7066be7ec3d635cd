package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/mariagaitan/condoflow-backend/pkg/enums"
)

// ChargeEvent covers created/updated/canceled charge notifications.
type ChargeEvent struct {
	ChargeID    uuid.UUID          `json:"charge_id"`
	UnitID      uuid.UUID          `json:"unit_id"`
	BuildingID  uuid.UUID          `json:"building_id"`
	Type        enums.ChargeType   `json:"type"`
	Period      string             `json:"period"`
	Concept     string             `json:"concept"`
	AmountCents int64              `json:"amount_cents"`
	Currency    enums.Currency     `json:"currency"`
	Status      enums.ChargeStatus `json:"status"`
}

// ChargeStatusChangedEvent is emitted whenever allocation changes move
// a charge between pending, partial and paid.
type ChargeStatusChangedEvent struct {
	ChargeID       uuid.UUID          `json:"charge_id"`
	UnitID         uuid.UUID          `json:"unit_id"`
	PreviousStatus enums.ChargeStatus `json:"previous_status"`
	NewStatus      enums.ChargeStatus `json:"new_status"`
	AllocatedCents int64              `json:"allocated_cents"`
}

// PaymentEvent covers submitted/approved/rejected payment notifications.
type PaymentEvent struct {
	PaymentID   uuid.UUID           `json:"payment_id"`
	UnitID      *uuid.UUID          `json:"unit_id,omitempty"`
	BuildingID  uuid.UUID           `json:"building_id"`
	AmountCents int64               `json:"amount_cents"`
	Currency    enums.Currency      `json:"currency"`
	Method      enums.PaymentMethod `json:"method"`
	Status      enums.PaymentStatus `json:"status"`
	PaidAt      *time.Time          `json:"paid_at,omitempty"`
}

// AllocationEvent covers allocation create/delete notifications.
type AllocationEvent struct {
	AllocationID uuid.UUID `json:"allocation_id"`
	PaymentID    uuid.UUID `json:"payment_id"`
	ChargeID     uuid.UUID `json:"charge_id"`
	AmountCents  int64     `json:"amount_cents"`
}
