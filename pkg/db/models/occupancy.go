package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mariagaitan/condoflow-backend/pkg/enums"
)

// Occupancy records that a user holds (or held) a unit as resident or
// owner. Residents and owners see only units with an active occupancy.
type Occupancy struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID  uuid.UUID             `gorm:"column:tenant_id;type:uuid;not null;index"`
	UnitID    uuid.UUID             `gorm:"column:unit_id;type:uuid;not null;index"`
	UserID    uuid.UUID             `gorm:"column:user_id;type:uuid;not null;index"`
	Role      enums.MemberRole      `gorm:"column:role;type:member_role;not null"`
	Status    enums.OccupancyStatus `gorm:"column:status;type:occupancy_status;not null;default:'active'"`
	StartedAt time.Time             `gorm:"column:started_at;not null"`
	EndedAt   *time.Time            `gorm:"column:ended_at"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (Occupancy) TableName() string { return "occupancies" }
