package occupancies

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mariagaitan/condoflow-backend/pkg/db/models"
	"github.com/mariagaitan/condoflow-backend/pkg/enums"
)

// Repository answers occupancy lookups. Occupancy rows are written by
// the membership surface outside this service; the ledger only reads
// them to resolve which units a resident or owner may see.
type Repository interface {
	ListActiveUnitIDsForUser(ctx context.Context, tenantID, userID uuid.UUID) ([]uuid.UUID, error)
	HasActiveForUser(ctx context.Context, tenantID, userID, unitID uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an occupancy repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListActiveUnitIDsForUser(ctx context.Context, tenantID, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Occupancy{}).
		Where("tenant_id = ? AND user_id = ? AND status = ?", tenantID, userID, enums.OccupancyStatusActive).
		Pluck("unit_id", &ids).Error
	return ids, err
}

func (r *repository) HasActiveForUser(ctx context.Context, tenantID, userID, unitID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Occupancy{}).
		Where("tenant_id = ? AND user_id = ? AND unit_id = ? AND status = ?",
			tenantID, userID, unitID, enums.OccupancyStatusActive).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
