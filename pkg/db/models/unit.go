package models

import (
	"time"

	"github.com/google/uuid"
)

// Unit is a sellable/billable apartment or office inside a building.
// The label is unique per building, not per tenant.
type Unit struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID   uuid.UUID `gorm:"column:tenant_id;type:uuid;not null;index"`
	BuildingID uuid.UUID `gorm:"column:building_id;type:uuid;not null;uniqueIndex:idx_units_building_label"`
	Label      string    `gorm:"column:label;not null;uniqueIndex:idx_units_building_label"`
	Floor      *int      `gorm:"column:floor"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Unit) TableName() string { return "units" }
