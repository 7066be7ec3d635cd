package payments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mariagaitan/condoflow-backend/internal/actor"
	"github.com/mariagaitan/condoflow-backend/pkg/db/models"
	"github.com/mariagaitan/condoflow-backend/pkg/enums"
	pkgerrors "github.com/mariagaitan/condoflow-backend/pkg/errors"
	"github.com/mariagaitan/condoflow-backend/pkg/outbox"
	"github.com/mariagaitan/condoflow-backend/pkg/pagination"
)

type stubPaymentsRepo struct {
	payment    *models.Payment
	allocated  int64
	saved      *models.Payment
	listRows   []models.Payment
	listTotal  int64
	lastFilter ListFilter
}

func (s *stubPaymentsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubPaymentsRepo) Create(_ context.Context, payment *models.Payment) (*models.Payment, error) {
	return payment, nil
}

func (s *stubPaymentsRepo) FindByID(_ context.Context, tenantID, buildingID, paymentID uuid.UUID) (*models.Payment, error) {
	if s.payment == nil || s.payment.TenantID != tenantID || s.payment.BuildingID != buildingID || s.payment.ID != paymentID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.payment, nil
}

func (s *stubPaymentsRepo) FindByIDForUpdate(_ context.Context, tenantID, paymentID uuid.UUID) (*models.Payment, error) {
	if s.payment == nil || s.payment.TenantID != tenantID || s.payment.ID != paymentID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.payment, nil
}

func (s *stubPaymentsRepo) List(_ context.Context, _, _ uuid.UUID, filter ListFilter, _ pagination.Page) ([]models.Payment, int64, error) {
	s.lastFilter = filter
	return s.listRows, s.listTotal, nil
}

func (s *stubPaymentsRepo) Save(_ context.Context, payment *models.Payment) error {
	s.saved = payment
	return nil
}

func (s *stubPaymentsRepo) SumAllocated(_ context.Context, _ uuid.UUID) (int64, error) {
	return s.allocated, nil
}

func (s *stubPaymentsRepo) SumAllocatedByPayment(_ context.Context, _ []uuid.UUID) (map[uuid.UUID]int64, error) {
	return map[uuid.UUID]int64{}, nil
}

type stubOccupancies struct {
	unitIDs []uuid.UUID
}

func (s *stubOccupancies) ListActiveUnitIDsForUser(_ context.Context, _, _ uuid.UUID) ([]uuid.UUID, error) {
	return s.unitIDs, nil
}

func (s *stubOccupancies) HasActiveForUser(_ context.Context, _, _, unitID uuid.UUID) (bool, error) {
	for _, id := range s.unitIDs {
		if id == unitID {
			return true, nil
		}
	}
	return false, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubOutbox struct {
	events []outbox.DomainEvent
}

func (s *stubOutbox) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	s.events = append(s.events, event)
	return nil
}

func adminActor(tenantID uuid.UUID) actor.Actor {
	return actor.Actor{
		UserID:       uuid.New(),
		TenantID:     tenantID,
		MembershipID: uuid.New(),
		Roles:        []enums.MemberRole{enums.MemberRoleAdmin},
	}
}

func residentActor(tenantID uuid.UUID) actor.Actor {
	return actor.Actor{
		UserID:       uuid.New(),
		TenantID:     tenantID,
		MembershipID: uuid.New(),
		Roles:        []enums.MemberRole{enums.MemberRoleResident},
	}
}

func newPaymentService(t *testing.T, repo *stubPaymentsRepo, occ *stubOccupancies, ob *stubOutbox) Service {
	t.Helper()
	if occ == nil {
		occ = &stubOccupancies{}
	}
	if ob == nil {
		ob = &stubOutbox{}
	}
	svc, err := NewService(repo, occ, stubTxRunner{}, ob)
	require.NoError(t, err)
	return svc
}

func TestSubmitPayment(t *testing.T) {
	tenantID := uuid.New()
	act := residentActor(tenantID)
	building := &models.Building{ID: uuid.New(), TenantID: tenantID}
	unit := &models.Unit{ID: uuid.New(), TenantID: tenantID, BuildingID: building.ID}
	ob := &stubOutbox{}
	svc := newPaymentService(t, &stubPaymentsRepo{}, nil, ob)

	ref := "SPEI-778812"
	dto, err := svc.Submit(context.Background(), act, building, unit, SubmitPaymentRequest{
		AmountCents: 150000,
		Currency:    "MXN",
		Method:      "transfer",
		Reference:   &ref,
	})
	require.NoError(t, err)

	assert.Equal(t, enums.PaymentStatusSubmitted, dto.Status)
	require.NotNil(t, dto.UnitID)
	assert.Equal(t, unit.ID, *dto.UnitID)
	assert.Equal(t, act.UserID, dto.CreatedByUserID)
	require.Len(t, ob.events, 1)
	assert.Equal(t, enums.EventPaymentSubmitted, ob.events[0].EventType)
}

func TestSubmitPaymentWithoutUnit(t *testing.T) {
	tenantID := uuid.New()
	act := adminActor(tenantID)
	building := &models.Building{ID: uuid.New(), TenantID: tenantID}
	svc := newPaymentService(t, &stubPaymentsRepo{}, nil, nil)

	dto, err := svc.Submit(context.Background(), act, building, nil, SubmitPaymentRequest{
		AmountCents: 99000, Currency: "MXN", Method: "cash",
	})
	require.NoError(t, err)
	assert.Nil(t, dto.UnitID)
	assert.Equal(t, building.ID, dto.BuildingID)
}

func TestSubmitPaymentValidation(t *testing.T) {
	tenantID := uuid.New()
	act := residentActor(tenantID)
	building := &models.Building{ID: uuid.New(), TenantID: tenantID}
	svc := newPaymentService(t, &stubPaymentsRepo{}, nil, nil)

	_, err := svc.Submit(context.Background(), act, building, nil, SubmitPaymentRequest{
		AmountCents: 100, Currency: "DOGE", Method: "transfer",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Submit(context.Background(), act, building, nil, SubmitPaymentRequest{
		AmountCents: 100, Currency: "USD", Method: "wire",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestApprovePayment(t *testing.T) {
	tenantID := uuid.New()
	act := adminActor(tenantID)
	building := &models.Building{ID: uuid.New(), TenantID: tenantID}
	payment := &models.Payment{
		ID: uuid.New(), TenantID: tenantID, BuildingID: building.ID,
		AmountCents: 50000, Status: enums.PaymentStatusSubmitted,
	}
	repo := &stubPaymentsRepo{payment: payment}
	ob := &stubOutbox{}
	svc := newPaymentService(t, repo, nil, ob)

	dto, err := svc.Approve(context.Background(), act, building, payment.ID, ApprovePaymentRequest{})
	require.NoError(t, err)

	assert.Equal(t, enums.PaymentStatusApproved, dto.Status)
	require.NotNil(t, dto.PaidAt)
	require.Len(t, ob.events, 1)
	assert.Equal(t, enums.EventPaymentApproved, ob.events[0].EventType)
	require.NotNil(t, repo.saved.ReviewedByMembershipID)
	assert.Equal(t, act.MembershipID, *repo.saved.ReviewedByMembershipID)
}

func TestApprovePaymentHonorsGivenPaidAt(t *testing.T) {
	tenantID := uuid.New()
	act := adminActor(tenantID)
	building := &models.Building{ID: uuid.New(), TenantID: tenantID}
	payment := &models.Payment{
		ID: uuid.New(), TenantID: tenantID, BuildingID: building.ID,
		AmountCents: 50000, Status: enums.PaymentStatusSubmitted,
	}
	svc := newPaymentService(t, &stubPaymentsRepo{payment: payment}, nil, nil)

	paidAt := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	dto, err := svc.Approve(context.Background(), act, building, payment.ID, ApprovePaymentRequest{PaidAt: &paidAt})
	require.NoError(t, err)
	require.NotNil(t, dto.PaidAt)
	assert.True(t, dto.PaidAt.Equal(paidAt))
}

func TestRejectPayment(t *testing.T) {
	tenantID := uuid.New()
	act := adminActor(tenantID)
	building := &models.Building{ID: uuid.New(), TenantID: tenantID}
	payment := &models.Payment{
		ID: uuid.New(), TenantID: tenantID, BuildingID: building.ID,
		AmountCents: 50000, Status: enums.PaymentStatusSubmitted,
	}
	repo := &stubPaymentsRepo{payment: payment}
	ob := &stubOutbox{}
	svc := newPaymentService(t, repo, nil, ob)

	note := "no matching bank transfer"
	dto, err := svc.Reject(context.Background(), act, building, payment.ID, RejectPaymentRequest{Note: &note})
	require.NoError(t, err)

	assert.Equal(t, enums.PaymentStatusRejected, dto.Status)
	assert.Nil(t, dto.PaidAt)
	require.Len(t, ob.events, 1)
	assert.Equal(t, enums.EventPaymentRejected, ob.events[0].EventType)
}

func TestReviewTwiceIsStateConflict(t *testing.T) {
	tenantID := uuid.New()
	act := adminActor(tenantID)
	building := &models.Building{ID: uuid.New(), TenantID: tenantID}
	payment := &models.Payment{
		ID: uuid.New(), TenantID: tenantID, BuildingID: building.ID,
		AmountCents: 50000, Status: enums.PaymentStatusApproved,
	}
	svc := newPaymentService(t, &stubPaymentsRepo{payment: payment}, nil, nil)

	_, err := svc.Reject(context.Background(), act, building, payment.ID, RejectPaymentRequest{})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestReviewRequiresStaff(t *testing.T) {
	tenantID := uuid.New()
	building := &models.Building{ID: uuid.New(), TenantID: tenantID}
	svc := newPaymentService(t, &stubPaymentsRepo{}, nil, nil)

	_, err := svc.Approve(context.Background(), residentActor(tenantID), building, uuid.New(), ApprovePaymentRequest{})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestReviewWrongBuildingIsNotFound(t *testing.T) {
	tenantID := uuid.New()
	act := adminActor(tenantID)
	building := &models.Building{ID: uuid.New(), TenantID: tenantID}
	payment := &models.Payment{
		ID: uuid.New(), TenantID: tenantID, BuildingID: uuid.New(),
		AmountCents: 50000, Status: enums.PaymentStatusSubmitted,
	}
	svc := newPaymentService(t, &stubPaymentsRepo{payment: payment}, nil, nil)

	_, err := svc.Approve(context.Background(), act, building, payment.ID, ApprovePaymentRequest{})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestGetPaymentResidentOwnSubmission(t *testing.T) {
	tenantID := uuid.New()
	act := residentActor(tenantID)
	building := &models.Building{ID: uuid.New(), TenantID: tenantID}
	payment := &models.Payment{
		ID: uuid.New(), TenantID: tenantID, BuildingID: building.ID,
		AmountCents: 50000, Status: enums.PaymentStatusSubmitted,
		CreatedByUserID: act.UserID,
	}
	repo := &stubPaymentsRepo{payment: payment, allocated: 20000}
	svc := newPaymentService(t, repo, &stubOccupancies{}, nil)

	dto, err := svc.Get(context.Background(), act, building, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), dto.AllocatedCents)
}

func TestGetPaymentResidentForeignIsNotFound(t *testing.T) {
	tenantID := uuid.New()
	act := residentActor(tenantID)
	building := &models.Building{ID: uuid.New(), TenantID: tenantID}
	unitID := uuid.New()
	payment := &models.Payment{
		ID: uuid.New(), TenantID: tenantID, BuildingID: building.ID, UnitID: &unitID,
		AmountCents: 50000, CreatedByUserID: uuid.New(),
	}
	svc := newPaymentService(t, &stubPaymentsRepo{payment: payment}, &stubOccupancies{}, nil)

	_, err := svc.Get(context.Background(), act, building, payment.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestListPaymentsResidentFilter(t *testing.T) {
	tenantID := uuid.New()
	act := residentActor(tenantID)
	building := &models.Building{ID: uuid.New(), TenantID: tenantID}
	unitID := uuid.New()
	repo := &stubPaymentsRepo{}
	svc := newPaymentService(t, repo, &stubOccupancies{unitIDs: []uuid.UUID{unitID}}, nil)

	_, _, err := svc.List(context.Background(), act, building, ListFilter{}, pagination.Page{Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{unitID}, repo.lastFilter.VisibleUnitIDs)
	require.NotNil(t, repo.lastFilter.CreatedByUserID)
	assert.Equal(t, act.UserID, *repo.lastFilter.CreatedByUserID)
}

func TestListPaymentsStaffUnrestricted(t *testing.T) {
	tenantID := uuid.New()
	building := &models.Building{ID: uuid.New(), TenantID: tenantID}
	repo := &stubPaymentsRepo{listRows: []models.Payment{{ID: uuid.New()}}, listTotal: 1}
	svc := newPaymentService(t, repo, nil, nil)

	rows, total, err := svc.List(context.Background(), adminActor(tenantID), building, ListFilter{}, pagination.Page{Limit: 50})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, int64(1), total)
	assert.Nil(t, repo.lastFilter.VisibleUnitIDs)
	assert.Nil(t, repo.lastFilter.CreatedByUserID)
}
