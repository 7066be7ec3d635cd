package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Membership links a user to a tenant with one or more roles. A user
// holds at most one membership per tenant; roles accumulate on it.
type Membership struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID  uuid.UUID      `gorm:"column:tenant_id;type:uuid;not null;uniqueIndex:idx_memberships_tenant_user"`
	UserID    uuid.UUID      `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_memberships_tenant_user"`
	Roles     pq.StringArray `gorm:"column:roles;type:text[];not null;default:ARRAY[]::text[]"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (Membership) TableName() string { return "memberships" }
