package payments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/mariagaitan/condoflow-backend/pkg/db"
	"github.com/mariagaitan/condoflow-backend/pkg/db/models"
	"github.com/mariagaitan/condoflow-backend/pkg/enums"
	"github.com/mariagaitan/condoflow-backend/pkg/pagination"
)

// ListFilter narrows payment listings. When VisibleUnitIDs is non-nil
// the row must be on one of those units, or be the caller's own
// submission when CreatedByUserID is also set (residents keep sight of
// payments they reported before a unit was assigned).
type ListFilter struct {
	Status          *enums.PaymentStatus
	Method          *enums.PaymentMethod
	UnitID          *uuid.UUID
	VisibleUnitIDs  []uuid.UUID
	CreatedByUserID *uuid.UUID
}

// Repository provides payment persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	FindByID(ctx context.Context, tenantID, buildingID, paymentID uuid.UUID) (*models.Payment, error)
	FindByIDForUpdate(ctx context.Context, tenantID, paymentID uuid.UUID) (*models.Payment, error)
	List(ctx context.Context, tenantID, buildingID uuid.UUID, filter ListFilter, page pagination.Page) ([]models.Payment, int64, error)
	Save(ctx context.Context, payment *models.Payment) error
	SumAllocated(ctx context.Context, paymentID uuid.UUID) (int64, error)
	SumAllocatedByPayment(ctx context.Context, paymentIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a payment repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *repository) FindByID(ctx context.Context, tenantID, buildingID, paymentID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND building_id = ? AND id = ?", tenantID, buildingID, paymentID).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// FindByIDForUpdate locks the payment row for the rest of the
// transaction. The allocation path relies on this lock to keep the
// allocated total consistent under concurrent writers.
func (r *repository) FindByIDForUpdate(ctx context.Context, tenantID, paymentID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := dbpkg.LockForUpdate(r.db.WithContext(ctx)).
		Where("tenant_id = ? AND id = ?", tenantID, paymentID).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) List(ctx context.Context, tenantID, buildingID uuid.UUID, filter ListFilter, page pagination.Page) ([]models.Payment, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("tenant_id = ? AND building_id = ?", tenantID, buildingID)

	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Method != nil {
		q = q.Where("method = ?", *filter.Method)
	}
	if filter.UnitID != nil {
		q = q.Where("unit_id = ?", *filter.UnitID)
	}
	if filter.VisibleUnitIDs != nil {
		if filter.CreatedByUserID != nil {
			q = q.Where("unit_id IN ? OR created_by_user_id = ?", filter.VisibleUnitIDs, *filter.CreatedByUserID)
		} else {
			q = q.Where("unit_id IN ?", filter.VisibleUnitIDs)
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Payment
	err := q.
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) Save(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *repository) SumAllocated(ctx context.Context, paymentID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Allocation{}).
		Where("payment_id = ?", paymentID).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&total).Error
	return total, err
}

func (r *repository) SumAllocatedByPayment(ctx context.Context, paymentIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	totals := make(map[uuid.UUID]int64, len(paymentIDs))
	if len(paymentIDs) == 0 {
		return totals, nil
	}

	type row struct {
		PaymentID uuid.UUID
		Total     int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Allocation{}).
		Where("payment_id IN ?", paymentIDs).
		Select("payment_id, COALESCE(SUM(amount_cents), 0) AS total").
		Group("payment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		totals[r.PaymentID] = r.Total
	}
	return totals, nil
}
