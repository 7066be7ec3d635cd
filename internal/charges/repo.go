package charges

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/mariagaitan/condoflow-backend/pkg/db"
	"github.com/mariagaitan/condoflow-backend/pkg/db/models"
	"github.com/mariagaitan/condoflow-backend/pkg/enums"
	"github.com/mariagaitan/condoflow-backend/pkg/pagination"
)

// ListFilter narrows charge listings. VisibleUnitIDs, when non-nil,
// restricts rows to those units regardless of the other filters; it
// carries a resident's accessible units.
type ListFilter struct {
	Status          *enums.ChargeStatus
	Period          *string
	UnitID          *uuid.UUID
	IncludeCanceled bool
	VisibleUnitIDs  []uuid.UUID
}

// Repository provides charge persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, charge *models.Charge) (*models.Charge, error)
	FindByID(ctx context.Context, tenantID, buildingID, chargeID uuid.UUID) (*models.Charge, error)
	FindByIDForUpdate(ctx context.Context, tenantID, chargeID uuid.UUID) (*models.Charge, error)
	List(ctx context.Context, tenantID, buildingID uuid.UUID, filter ListFilter, page pagination.Page) ([]models.Charge, int64, error)
	Save(ctx context.Context, charge *models.Charge) error
	SumAllocated(ctx context.Context, chargeID uuid.UUID) (int64, error)
	SumAllocatedByCharge(ctx context.Context, chargeIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	CountAllocations(ctx context.Context, chargeID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a charge repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, charge *models.Charge) (*models.Charge, error) {
	if err := r.db.WithContext(ctx).Create(charge).Error; err != nil {
		return nil, err
	}
	return charge, nil
}

func (r *repository) FindByID(ctx context.Context, tenantID, buildingID, chargeID uuid.UUID) (*models.Charge, error) {
	var charge models.Charge
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND building_id = ? AND id = ?", tenantID, buildingID, chargeID).
		First(&charge).Error
	if err != nil {
		return nil, err
	}
	return &charge, nil
}

// FindByIDForUpdate locks the charge row for the rest of the
// transaction. Callers must run it inside WithTx.
func (r *repository) FindByIDForUpdate(ctx context.Context, tenantID, chargeID uuid.UUID) (*models.Charge, error) {
	var charge models.Charge
	err := dbpkg.LockForUpdate(r.db.WithContext(ctx)).
		Where("tenant_id = ? AND id = ?", tenantID, chargeID).
		First(&charge).Error
	if err != nil {
		return nil, err
	}
	return &charge, nil
}

func (r *repository) List(ctx context.Context, tenantID, buildingID uuid.UUID, filter ListFilter, page pagination.Page) ([]models.Charge, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Charge{}).
		Where("tenant_id = ? AND building_id = ?", tenantID, buildingID)

	if !filter.IncludeCanceled {
		q = q.Where("canceled_at IS NULL")
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Period != nil {
		q = q.Where("period = ?", *filter.Period)
	}
	if filter.UnitID != nil {
		q = q.Where("unit_id = ?", *filter.UnitID)
	}
	if filter.VisibleUnitIDs != nil {
		q = q.Where("unit_id IN ?", filter.VisibleUnitIDs)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Charge
	err := q.
		Order("period DESC").
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) Save(ctx context.Context, charge *models.Charge) error {
	return r.db.WithContext(ctx).Save(charge).Error
}

func (r *repository) SumAllocated(ctx context.Context, chargeID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Allocation{}).
		Where("charge_id = ?", chargeID).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&total).Error
	return total, err
}

func (r *repository) SumAllocatedByCharge(ctx context.Context, chargeIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	totals := make(map[uuid.UUID]int64, len(chargeIDs))
	if len(chargeIDs) == 0 {
		return totals, nil
	}

	type row struct {
		ChargeID uuid.UUID
		Total    int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Allocation{}).
		Where("charge_id IN ?", chargeIDs).
		Select("charge_id, COALESCE(SUM(amount_cents), 0) AS total").
		Group("charge_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		totals[r.ChargeID] = r.Total
	}
	return totals, nil
}

func (r *repository) CountAllocations(ctx context.Context, chargeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Allocation{}).
		Where("charge_id = ?", chargeID).
		Count(&count).Error
	return count, err
}
