package models

import (
	"time"

	"github.com/google/uuid"
)

// Allocation applies part of a non-rejected payment to a charge. The sum
// of a payment's allocations never exceeds the payment amount; the
// allocation service enforces that under a row lock on the payment.
type Allocation struct {
	ID                    uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID              uuid.UUID `gorm:"column:tenant_id;type:uuid;not null;index"`
	PaymentID             uuid.UUID `gorm:"column:payment_id;type:uuid;not null;uniqueIndex:idx_allocations_payment_charge"`
	ChargeID              uuid.UUID `gorm:"column:charge_id;type:uuid;not null;uniqueIndex:idx_allocations_payment_charge"`
	AmountCents           int64     `gorm:"column:amount_cents;not null"`
	CreatedByMembershipID uuid.UUID `gorm:"column:created_by_membership_id;type:uuid;not null"`
	CreatedAt             time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Allocation) TableName() string { return "allocations" }
