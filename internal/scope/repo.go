package scope

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mariagaitan/condoflow-backend/pkg/db/models"
)

// Repository loads buildings and units strictly inside one tenant.
type Repository interface {
	FindBuilding(ctx context.Context, tenantID, buildingID uuid.UUID) (*models.Building, error)
	FindUnit(ctx context.Context, tenantID, buildingID, unitID uuid.UUID) (*models.Unit, error)
	FindUnitByID(ctx context.Context, tenantID, unitID uuid.UUID) (*models.Unit, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a scope repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindBuilding(ctx context.Context, tenantID, buildingID uuid.UUID) (*models.Building, error) {
	var b models.Building
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, buildingID).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// FindUnitByID looks a unit up without a building in the path, for
// routes addressed by unit alone.
func (r *repository) FindUnitByID(ctx context.Context, tenantID, unitID uuid.UUID) (*models.Unit, error) {
	var u models.Unit
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, unitID).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindUnit(ctx context.Context, tenantID, buildingID, unitID uuid.UUID) (*models.Unit, error) {
	var u models.Unit
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND building_id = ? AND id = ?", tenantID, buildingID, unitID).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}
