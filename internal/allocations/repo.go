package allocations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/mariagaitan/condoflow-backend/pkg/db"
	"github.com/mariagaitan/condoflow-backend/pkg/db/models"
)

// Repository provides allocation persistence plus the locked reads the
// conservation check depends on.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, alloc *models.Allocation) (*models.Allocation, error)
	Delete(ctx context.Context, tenantID, allocationID uuid.UUID) error
	FindByID(ctx context.Context, tenantID, allocationID uuid.UUID) (*models.Allocation, error)

	FindPaymentForUpdate(ctx context.Context, tenantID, paymentID uuid.UUID) (*models.Payment, error)
	FindChargeForUpdate(ctx context.Context, tenantID, chargeID uuid.UUID) (*models.Charge, error)
	SaveCharge(ctx context.Context, charge *models.Charge) error
	SumForPayment(ctx context.Context, paymentID uuid.UUID) (int64, error)
	SumForCharge(ctx context.Context, chargeID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an allocation repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, alloc *models.Allocation) (*models.Allocation, error) {
	if err := r.db.WithContext(ctx).Create(alloc).Error; err != nil {
		return nil, err
	}
	return alloc, nil
}

func (r *repository) Delete(ctx context.Context, tenantID, allocationID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, allocationID).
		Delete(&models.Allocation{}).Error
}

func (r *repository) FindByID(ctx context.Context, tenantID, allocationID uuid.UUID) (*models.Allocation, error) {
	var alloc models.Allocation
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, allocationID).
		First(&alloc).Error
	if err != nil {
		return nil, err
	}
	return &alloc, nil
}

// FindPaymentForUpdate locks the payment row so concurrent allocation
// writers serialize on it before summing.
func (r *repository) FindPaymentForUpdate(ctx context.Context, tenantID, paymentID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := dbpkg.LockForUpdate(r.db.WithContext(ctx)).
		Where("tenant_id = ? AND id = ?", tenantID, paymentID).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) FindChargeForUpdate(ctx context.Context, tenantID, chargeID uuid.UUID) (*models.Charge, error) {
	var charge models.Charge
	err := dbpkg.LockForUpdate(r.db.WithContext(ctx)).
		Where("tenant_id = ? AND id = ?", tenantID, chargeID).
		First(&charge).Error
	if err != nil {
		return nil, err
	}
	return &charge, nil
}

func (r *repository) SaveCharge(ctx context.Context, charge *models.Charge) error {
	return r.db.WithContext(ctx).Save(charge).Error
}

func (r *repository) SumForPayment(ctx context.Context, paymentID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Allocation{}).
		Where("payment_id = ?", paymentID).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&total).Error
	return total, err
}

func (r *repository) SumForCharge(ctx context.Context, chargeID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Allocation{}).
		Where("charge_id = ?", chargeID).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&total).Error
	return total, err
}
