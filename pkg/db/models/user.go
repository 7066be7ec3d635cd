package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a person that can hold memberships across tenants. Identity
// itself (credentials, verification) lives in the external auth
// provider; this table only mirrors what the ledger needs.
type User struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email     string    `gorm:"column:email;not null;uniqueIndex"`
	FullName  string    `gorm:"column:full_name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }
