package ledgerview

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mariagaitan/condoflow-backend/internal/actor"
	"github.com/mariagaitan/condoflow-backend/pkg/db/models"
	"github.com/mariagaitan/condoflow-backend/pkg/enums"
	pkgerrors "github.com/mariagaitan/condoflow-backend/pkg/errors"
)

type stubLedgerRepo struct {
	charges          []models.Charge
	payments         []models.Payment
	chargeAllocated  map[uuid.UUID]int64
	paymentAllocated map[uuid.UUID]int64
	lastQuery        LedgerQuery
	lastFrom         *time.Time
	lastTo           *time.Time
}

func (s *stubLedgerRepo) ListLiveCharges(_ context.Context, _, _ uuid.UUID, q LedgerQuery) ([]models.Charge, error) {
	s.lastQuery = q
	return s.charges, nil
}

func (s *stubLedgerRepo) ListPayments(_ context.Context, _, _ uuid.UUID, from, to *time.Time) ([]models.Payment, error) {
	s.lastFrom = from
	s.lastTo = to
	return s.payments, nil
}

func (s *stubLedgerRepo) SumAllocatedByCharge(_ context.Context, _ []uuid.UUID) (map[uuid.UUID]int64, error) {
	return s.chargeAllocated, nil
}

func (s *stubLedgerRepo) SumAllocatedByPayment(_ context.Context, _ []uuid.UUID) (map[uuid.UUID]int64, error) {
	return s.paymentAllocated, nil
}

func ledgerActor(tenantID uuid.UUID) actor.Actor {
	return actor.Actor{
		UserID:       uuid.New(),
		TenantID:     tenantID,
		MembershipID: uuid.New(),
		Roles:        []enums.MemberRole{enums.MemberRoleResident},
	}
}

func TestGetUnitLedgerBalances(t *testing.T) {
	tenantID := uuid.New()
	unit := &models.Unit{ID: uuid.New(), TenantID: tenantID}

	chargeA := models.Charge{ID: uuid.New(), AmountCents: 120000, Period: "2026-01", Status: enums.ChargeStatusPartial, Currency: enums.CurrencyMXN}
	chargeB := models.Charge{ID: uuid.New(), AmountCents: 80000, Period: "2026-02", Status: enums.ChargeStatusPending, Currency: enums.CurrencyMXN}
	payment := models.Payment{ID: uuid.New(), AmountCents: 50000, Status: enums.PaymentStatusApproved, Currency: enums.CurrencyMXN}

	repo := &stubLedgerRepo{
		charges:          []models.Charge{chargeA, chargeB},
		payments:         []models.Payment{payment},
		chargeAllocated:  map[uuid.UUID]int64{chargeA.ID: 50000},
		paymentAllocated: map[uuid.UUID]int64{payment.ID: 50000},
	}
	svc, err := NewService(repo)
	require.NoError(t, err)

	dto, err := svc.GetUnitLedger(context.Background(), ledgerActor(tenantID), unit, LedgerQuery{})
	require.NoError(t, err)

	assert.Equal(t, int64(200000), dto.Totals.ChargesCents)
	assert.Equal(t, int64(50000), dto.Totals.AllocatedCents)
	assert.Equal(t, int64(150000), dto.Totals.BalanceCents)
	assert.Equal(t, "1500.00", dto.Totals.BalanceDisplay)

	require.Len(t, dto.Charges, 2)
	assert.Equal(t, int64(50000), dto.Charges[0].AllocatedCents)
	assert.Equal(t, int64(0), dto.Charges[1].AllocatedCents)
	require.Len(t, dto.Payments, 1)
	assert.Equal(t, int64(50000), dto.Payments[0].AllocatedCents)
}

func TestGetUnitLedgerEmptyUnit(t *testing.T) {
	tenantID := uuid.New()
	unit := &models.Unit{ID: uuid.New(), TenantID: tenantID}
	repo := &stubLedgerRepo{chargeAllocated: map[uuid.UUID]int64{}, paymentAllocated: map[uuid.UUID]int64{}}
	svc, err := NewService(repo)
	require.NoError(t, err)

	dto, err := svc.GetUnitLedger(context.Background(), ledgerActor(tenantID), unit, LedgerQuery{})
	require.NoError(t, err)

	assert.Empty(t, dto.Charges)
	assert.Empty(t, dto.Payments)
	assert.Equal(t, int64(0), dto.Totals.BalanceCents)
	assert.Equal(t, "0.00", dto.Totals.BalanceDisplay)
}

func TestGetUnitLedgerPeriodFilterPassthrough(t *testing.T) {
	tenantID := uuid.New()
	unit := &models.Unit{ID: uuid.New(), TenantID: tenantID}
	repo := &stubLedgerRepo{}
	svc, err := NewService(repo)
	require.NoError(t, err)

	from, to := "2026-01", "2026-03"
	_, err = svc.GetUnitLedger(context.Background(), ledgerActor(tenantID), unit, LedgerQuery{PeriodFrom: &from, PeriodTo: &to})
	require.NoError(t, err)
	require.NotNil(t, repo.lastQuery.PeriodFrom)
	assert.Equal(t, "2026-01", *repo.lastQuery.PeriodFrom)

	// payments get a half-open window: [2026-01-01, 2026-04-01)
	require.NotNil(t, repo.lastFrom)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), *repo.lastFrom)
	require.NotNil(t, repo.lastTo)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), *repo.lastTo)
}

func TestGetUnitLedgerQueryValidation(t *testing.T) {
	tenantID := uuid.New()
	unit := &models.Unit{ID: uuid.New(), TenantID: tenantID}
	svc, err := NewService(&stubLedgerRepo{})
	require.NoError(t, err)

	bad := "2026-13"
	_, err = svc.GetUnitLedger(context.Background(), ledgerActor(tenantID), unit, LedgerQuery{PeriodFrom: &bad})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	from, to := "2026-05", "2026-01"
	_, err = svc.GetUnitLedger(context.Background(), ledgerActor(tenantID), unit, LedgerQuery{PeriodFrom: &from, PeriodTo: &to})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
