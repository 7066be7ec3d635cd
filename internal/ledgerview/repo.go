package ledgerview

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mariagaitan/condoflow-backend/pkg/db/models"
)

// Repository serves the read side of the unit ledger. It never writes.
type Repository interface {
	ListLiveCharges(ctx context.Context, tenantID, unitID uuid.UUID, q LedgerQuery) ([]models.Charge, error)
	ListPayments(ctx context.Context, tenantID, unitID uuid.UUID, from, to *time.Time) ([]models.Payment, error)
	SumAllocatedByCharge(ctx context.Context, chargeIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	SumAllocatedByPayment(ctx context.Context, paymentIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a ledger view repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListLiveCharges(ctx context.Context, tenantID, unitID uuid.UUID, q LedgerQuery) ([]models.Charge, error) {
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND unit_id = ? AND canceled_at IS NULL", tenantID, unitID)
	if q.PeriodFrom != nil {
		query = query.Where("period >= ?", *q.PeriodFrom)
	}
	if q.PeriodTo != nil {
		query = query.Where("period <= ?", *q.PeriodTo)
	}

	var rows []models.Charge
	err := query.Order("period ASC, created_at ASC").Find(&rows).Error
	return rows, err
}

// ListPayments returns the unit's payments, windowed on paid_at when
// the payment was approved and created_at before review.
func (r *repository) ListPayments(ctx context.Context, tenantID, unitID uuid.UUID, from, to *time.Time) ([]models.Payment, error) {
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND unit_id = ?", tenantID, unitID)
	if from != nil {
		query = query.Where("COALESCE(paid_at, created_at) >= ?", *from)
	}
	if to != nil {
		query = query.Where("COALESCE(paid_at, created_at) < ?", *to)
	}

	var rows []models.Payment
	err := query.Order("created_at ASC").Find(&rows).Error
	return rows, err
}

type allocatedRow struct {
	ID    uuid.UUID
	Total int64
}

func (r *repository) SumAllocatedByCharge(ctx context.Context, chargeIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	return r.sumAllocated(ctx, "charge_id", chargeIDs)
}

func (r *repository) SumAllocatedByPayment(ctx context.Context, paymentIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	return r.sumAllocated(ctx, "payment_id", paymentIDs)
}

func (r *repository) sumAllocated(ctx context.Context, column string, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	totals := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return totals, nil
	}

	var rows []allocatedRow
	err := r.db.WithContext(ctx).
		Model(&models.Allocation{}).
		Select(column+" AS id, COALESCE(SUM(amount_cents), 0) AS total").
		Where(column+" IN ?", ids).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		totals[row.ID] = row.Total
	}
	return totals, nil
}
