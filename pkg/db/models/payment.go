package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mariagaitan/condoflow-backend/pkg/enums"
)

// Payment is money reported against a building, optionally tied to a
// unit (staff may record a payment before the unit is known). It starts
// submitted and is reviewed exactly once into approved or rejected;
// both review states are terminal. Rejected payments cannot receive
// allocations.
type Payment struct {
	ID                     uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID               uuid.UUID           `gorm:"column:tenant_id;type:uuid;not null;index"`
	BuildingID             uuid.UUID           `gorm:"column:building_id;type:uuid;not null;index"`
	UnitID                 *uuid.UUID          `gorm:"column:unit_id;type:uuid;index"`
	AmountCents            int64               `gorm:"column:amount_cents;not null"`
	Currency               enums.Currency      `gorm:"column:currency;type:currency_code;not null"`
	Method                 enums.PaymentMethod `gorm:"column:method;type:payment_method;not null"`
	Status                 enums.PaymentStatus `gorm:"column:status;type:payment_status;not null;default:'submitted'"`
	Reference              *string             `gorm:"column:reference"`
	ProofFileID            *string             `gorm:"column:proof_file_id"`
	CreatedByUserID        uuid.UUID           `gorm:"column:created_by_user_id;type:uuid;not null;index"`
	ReviewedByMembershipID *uuid.UUID          `gorm:"column:reviewed_by_membership_id;type:uuid"`
	ReviewNote             *string             `gorm:"column:review_note"`
	PaidAt                 *time.Time          `gorm:"column:paid_at"`
	CreatedAt              time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Payment) TableName() string { return "payments" }

// Reviewed reports whether the payment reached a terminal review state.
func (p *Payment) Reviewed() bool { return p.Status != enums.PaymentStatusSubmitted }
