package payments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mariagaitan/condoflow-backend/internal/actor"
	dbpkg "github.com/mariagaitan/condoflow-backend/pkg/db"
	"github.com/mariagaitan/condoflow-backend/pkg/db/models"
	"github.com/mariagaitan/condoflow-backend/pkg/enums"
	pkgerrors "github.com/mariagaitan/condoflow-backend/pkg/errors"
	"github.com/mariagaitan/condoflow-backend/pkg/outbox"
	"github.com/mariagaitan/condoflow-backend/pkg/outbox/payloads"
	"github.com/mariagaitan/condoflow-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type occupancyReader interface {
	ListActiveUnitIDsForUser(ctx context.Context, tenantID, userID uuid.UUID) ([]uuid.UUID, error)
	HasActiveForUser(ctx context.Context, tenantID, userID, unitID uuid.UUID) (bool, error)
}

// Service defines payment operations. The unit passed to Submit is
// already scope-resolved for the actor, or nil for a unit-less payment.
type Service interface {
	Submit(ctx context.Context, act actor.Actor, building *models.Building, unit *models.Unit, req SubmitPaymentRequest) (*PaymentDTO, error)
	Approve(ctx context.Context, act actor.Actor, building *models.Building, paymentID uuid.UUID, req ApprovePaymentRequest) (*PaymentDTO, error)
	Reject(ctx context.Context, act actor.Actor, building *models.Building, paymentID uuid.UUID, req RejectPaymentRequest) (*PaymentDTO, error)
	Get(ctx context.Context, act actor.Actor, building *models.Building, paymentID uuid.UUID) (*PaymentDTO, error)
	List(ctx context.Context, act actor.Actor, building *models.Building, filter ListFilter, page pagination.Page) ([]PaymentDTO, int64, error)
}

type service struct {
	repo        Repository
	occupancies occupancyReader
	tx          txRunner
	outbox      outboxPublisher
}

// NewService builds a payment service with the required dependencies.
func NewService(repo Repository, occupancies occupancyReader, tx txRunner, ob outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, errors.New("repository is required")
	}
	if occupancies == nil {
		return nil, errors.New("occupancy reader is required")
	}
	if tx == nil {
		return nil, errors.New("transaction runner is required")
	}
	if ob == nil {
		return nil, errors.New("outbox publisher is required")
	}
	return &service{repo: repo, occupancies: occupancies, tx: tx, outbox: ob}, nil
}

func errForbidden() *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role")
}

func errPaymentNotFound() *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "resource not found")
}

func (s *service) Submit(ctx context.Context, act actor.Actor, building *models.Building, unit *models.Unit, req SubmitPaymentRequest) (*PaymentDTO, error) {
	if !act.CanSubmitPayments() {
		return nil, errForbidden()
	}

	currency, err := enums.ParseCurrency(req.Currency)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid currency").
			WithDetails(map[string]string{"currency": req.Currency})
	}
	method, err := enums.ParsePaymentMethod(req.Method)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method").
			WithDetails(map[string]string{"method": req.Method})
	}

	payment := &models.Payment{
		ID:              uuid.New(),
		TenantID:        act.TenantID,
		BuildingID:      building.ID,
		AmountCents:     req.AmountCents,
		Currency:        currency,
		Method:          method,
		Status:          enums.PaymentStatusSubmitted,
		Reference:       req.Reference,
		ProofFileID:     req.ProofFileID,
		CreatedByUserID: act.UserID,
	}
	if unit != nil {
		unitID := unit.ID
		payment.UnitID = &unitID
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.Create(ctx, payment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating payment")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			TenantID:      act.TenantID,
			EventType:     enums.EventPaymentSubmitted,
			AggregateType: enums.AggregatePayment,
			AggregateID:   payment.ID,
			Actor:         act.Ref(),
			Data:          paymentEventPayload(payment),
		})
	})
	if err != nil {
		return nil, err
	}

	dto := ToDTO(payment, 0)
	return &dto, nil
}

func (s *service) Approve(ctx context.Context, act actor.Actor, building *models.Building, paymentID uuid.UUID, req ApprovePaymentRequest) (*PaymentDTO, error) {
	paidAt := time.Now().UTC()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}
	return s.review(ctx, act, building, paymentID, enums.PaymentStatusApproved, &paidAt, req.Note)
}

func (s *service) Reject(ctx context.Context, act actor.Actor, building *models.Building, paymentID uuid.UUID, req RejectPaymentRequest) (*PaymentDTO, error) {
	return s.review(ctx, act, building, paymentID, enums.PaymentStatusRejected, nil, req.Note)
}

// review performs the single terminal transition a payment allows.
func (s *service) review(ctx context.Context, act actor.Actor, building *models.Building, paymentID uuid.UUID, next enums.PaymentStatus, paidAt *time.Time, note *string) (*PaymentDTO, error) {
	if !act.CanReviewPayments() {
		return nil, errForbidden()
	}

	var (
		reviewed  *models.Payment
		allocated int64
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		payment, err := repo.FindByIDForUpdate(ctx, act.TenantID, paymentID)
		if err != nil {
			if dbpkg.IsNotFound(err) {
				return errPaymentNotFound()
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading payment")
		}
		if payment.BuildingID != building.ID {
			return errPaymentNotFound()
		}
		if payment.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "payment already reviewed").
				WithDetails(map[string]string{"status": string(payment.Status)})
		}

		reviewerID := act.MembershipID
		payment.Status = next
		payment.ReviewedByMembershipID = &reviewerID
		payment.ReviewNote = note
		payment.PaidAt = paidAt

		if err := repo.Save(ctx, payment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving payment")
		}

		eventType := enums.EventPaymentApproved
		if next == enums.PaymentStatusRejected {
			eventType = enums.EventPaymentRejected
		}
		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			TenantID:      act.TenantID,
			EventType:     eventType,
			AggregateType: enums.AggregatePayment,
			AggregateID:   payment.ID,
			Actor:         act.Ref(),
			Data:          paymentEventPayload(payment),
		}); err != nil {
			return err
		}

		allocated, err = repo.SumAllocated(ctx, payment.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "summing allocations")
		}

		reviewed = payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := ToDTO(reviewed, allocated)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, act actor.Actor, building *models.Building, paymentID uuid.UUID) (*PaymentDTO, error) {
	payment, err := s.repo.FindByID(ctx, act.TenantID, building.ID, paymentID)
	if err != nil {
		if dbpkg.IsNotFound(err) {
			return nil, errPaymentNotFound()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading payment")
	}

	if !act.IsStaff() && !s.canSeePayment(ctx, act, payment) {
		return nil, errPaymentNotFound()
	}

	allocated, err := s.repo.SumAllocated(ctx, payment.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "summing allocations")
	}

	dto := ToDTO(payment, allocated)
	return &dto, nil
}

// canSeePayment mirrors the resident list rule: payments on a held unit
// or the actor's own submissions.
func (s *service) canSeePayment(ctx context.Context, act actor.Actor, payment *models.Payment) bool {
	if payment.CreatedByUserID == act.UserID {
		return true
	}
	if payment.UnitID == nil {
		return false
	}
	ok, err := s.occupancies.HasActiveForUser(ctx, act.TenantID, act.UserID, *payment.UnitID)
	return err == nil && ok
}

func (s *service) List(ctx context.Context, act actor.Actor, building *models.Building, filter ListFilter, page pagination.Page) ([]PaymentDTO, int64, error) {
	if !act.IsStaff() {
		visible, err := s.occupancies.ListActiveUnitIDsForUser(ctx, act.TenantID, act.UserID)
		if err != nil {
			return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving accessible units")
		}
		if visible == nil {
			visible = []uuid.UUID{}
		}
		userID := act.UserID
		filter.VisibleUnitIDs = visible
		filter.CreatedByUserID = &userID
	}

	rows, total, err := s.repo.List(ctx, act.TenantID, building.ID, filter, page)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing payments")
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, p := range rows {
		ids = append(ids, p.ID)
	}
	totals, err := s.repo.SumAllocatedByPayment(ctx, ids)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "summing allocations")
	}

	dtos := make([]PaymentDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, ToDTO(&rows[i], totals[rows[i].ID]))
	}
	return dtos, total, nil
}

func paymentEventPayload(p *models.Payment) payloads.PaymentEvent {
	return payloads.PaymentEvent{
		PaymentID:   p.ID,
		UnitID:      p.UnitID,
		BuildingID:  p.BuildingID,
		AmountCents: p.AmountCents,
		Currency:    p.Currency,
		Method:      p.Method,
		Status:      p.Status,
		PaidAt:      p.PaidAt,
	}
}
