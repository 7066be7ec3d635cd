package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mariagaitan/condoflow-backend/pkg/enums"
)

// Charge is an amount a unit owes for a billing period. Status is
// derived from allocation sums and persisted for cheap listing; the
// allocation service recomputes it inside the same transaction that
// mutates allocations. A canceled charge keeps the status it had at
// cancellation time.
//
// The (unit_id, period, concept) triple is unique among non-canceled
// rows; that partial index lives in the migration, not in gorm tags.
type Charge struct {
	ID          uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID    uuid.UUID          `gorm:"column:tenant_id;type:uuid;not null;index"`
	BuildingID  uuid.UUID          `gorm:"column:building_id;type:uuid;not null;index"`
	UnitID      uuid.UUID          `gorm:"column:unit_id;type:uuid;not null;index"`
	Type        enums.ChargeType   `gorm:"column:type;type:charge_type;not null"`
	Period      string             `gorm:"column:period;not null"`
	Concept     string             `gorm:"column:concept;not null"`
	AmountCents int64              `gorm:"column:amount_cents;not null"`
	Currency    enums.Currency     `gorm:"column:currency;type:currency_code;not null"`
	DueDate     *time.Time         `gorm:"column:due_date"`
	Status      enums.ChargeStatus `gorm:"column:status;type:charge_status;not null;default:'pending'"`
	CanceledAt  *time.Time         `gorm:"column:canceled_at"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (Charge) TableName() string { return "charges" }

// Canceled reports whether the charge was canceled.
func (c *Charge) Canceled() bool { return c.CanceledAt != nil }
