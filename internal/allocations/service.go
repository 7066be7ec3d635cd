package allocations

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mariagaitan/condoflow-backend/internal/actor"
	dbpkg "github.com/mariagaitan/condoflow-backend/pkg/db"
	"github.com/mariagaitan/condoflow-backend/pkg/db/models"
	"github.com/mariagaitan/condoflow-backend/pkg/enums"
	pkgerrors "github.com/mariagaitan/condoflow-backend/pkg/errors"
	"github.com/mariagaitan/condoflow-backend/pkg/outbox"
	"github.com/mariagaitan/condoflow-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines allocation operations. Every mutation runs in one
// transaction that locks the payment row first, then the charge row,
// so the allocated totals it checks cannot drift under concurrency.
type Service interface {
	Create(ctx context.Context, act actor.Actor, building *models.Building, req CreateAllocationRequest) (*AllocationDTO, error)
	Delete(ctx context.Context, act actor.Actor, building *models.Building, allocationID uuid.UUID) error
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
}

// NewService builds an allocation service with the required dependencies.
func NewService(repo Repository, tx txRunner, ob outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, errors.New("repository is required")
	}
	if tx == nil {
		return nil, errors.New("transaction runner is required")
	}
	if ob == nil {
		return nil, errors.New("outbox publisher is required")
	}
	return &service{repo: repo, tx: tx, outbox: ob}, nil
}

func errForbidden() *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeForbidden, "insufficient role")
}

func errNotFound() *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "resource not found")
}

func (s *service) Create(ctx context.Context, act actor.Actor, building *models.Building, req CreateAllocationRequest) (*AllocationDTO, error) {
	if !act.CanManageAllocations() {
		return nil, errForbidden()
	}
	if req.AmountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	var created *models.Allocation
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		// Lock order is always payment first, then charge.
		payment, err := repo.FindPaymentForUpdate(ctx, act.TenantID, req.PaymentID)
		if err != nil {
			if dbpkg.IsNotFound(err) {
				return errNotFound()
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading payment")
		}
		if payment.BuildingID != building.ID {
			return errNotFound()
		}
		if payment.Status == enums.PaymentStatusRejected {
			return pkgerrors.New(pkgerrors.CodeConflict, "payment is rejected").
				WithDetails(map[string]string{"payment_id": payment.ID.String()})
		}

		charge, err := repo.FindChargeForUpdate(ctx, act.TenantID, req.ChargeID)
		if err != nil {
			if dbpkg.IsNotFound(err) {
				return errNotFound()
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading charge")
		}
		if charge.BuildingID != building.ID {
			return errNotFound()
		}
		if charge.Canceled() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "charge is canceled")
		}
		if charge.Currency != payment.Currency {
			return pkgerrors.New(pkgerrors.CodeConflict, "currency mismatch").
				WithDetails(map[string]string{
					"payment_currency": string(payment.Currency),
					"charge_currency":  string(charge.Currency),
				})
		}

		allocated, err := repo.SumForPayment(ctx, payment.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "summing payment allocations")
		}
		if allocated+req.AmountCents > payment.AmountCents {
			return pkgerrors.New(pkgerrors.CodeConflict, "allocation exceeds payment amount").
				WithDetails(map[string]int64{
					"payment_amount_cents": payment.AmountCents,
					"allocated_cents":      allocated,
					"requested_cents":      req.AmountCents,
				})
		}

		alloc := &models.Allocation{
			ID:                    uuid.New(),
			TenantID:              act.TenantID,
			PaymentID:             payment.ID,
			ChargeID:              charge.ID,
			AmountCents:           req.AmountCents,
			CreatedByMembershipID: act.MembershipID,
		}
		if _, err := repo.Create(ctx, alloc); err != nil {
			if dbpkg.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "payment already allocated to this charge").
					WithDetails(map[string]string{
						"payment_id": payment.ID.String(),
						"charge_id":  charge.ID.String(),
					})
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating allocation")
		}

		if err := s.recomputeChargeStatus(ctx, tx, repo, act, charge); err != nil {
			return err
		}

		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			TenantID:      act.TenantID,
			EventType:     enums.EventAllocationCreated,
			AggregateType: enums.AggregateAllocation,
			AggregateID:   alloc.ID,
			Actor:         act.Ref(),
			Data: payloads.AllocationEvent{
				AllocationID: alloc.ID,
				PaymentID:    alloc.PaymentID,
				ChargeID:     alloc.ChargeID,
				AmountCents:  alloc.AmountCents,
			},
		}); err != nil {
			return err
		}

		created = alloc
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := ToDTO(created)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, act actor.Actor, building *models.Building, allocationID uuid.UUID) error {
	if !act.CanManageAllocations() {
		return errForbidden()
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		alloc, err := repo.FindByID(ctx, act.TenantID, allocationID)
		if err != nil {
			if dbpkg.IsNotFound(err) {
				return errNotFound()
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading allocation")
		}

		payment, err := repo.FindPaymentForUpdate(ctx, act.TenantID, alloc.PaymentID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading payment")
		}
		if payment.BuildingID != building.ID {
			return errNotFound()
		}

		charge, err := repo.FindChargeForUpdate(ctx, act.TenantID, alloc.ChargeID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading charge")
		}
		if charge.Canceled() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "charge is canceled")
		}

		if err := repo.Delete(ctx, act.TenantID, alloc.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting allocation")
		}

		if err := s.recomputeChargeStatus(ctx, tx, repo, act, charge); err != nil {
			return err
		}

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			TenantID:      act.TenantID,
			EventType:     enums.EventAllocationDeleted,
			AggregateType: enums.AggregateAllocation,
			AggregateID:   alloc.ID,
			Actor:         act.Ref(),
			Data: payloads.AllocationEvent{
				AllocationID: alloc.ID,
				PaymentID:    alloc.PaymentID,
				ChargeID:     alloc.ChargeID,
				AmountCents:  alloc.AmountCents,
			},
		})
	})
}

// recomputeChargeStatus re-derives the charge status from the allocated
// total and persists plus announces the transition when it changed.
func (s *service) recomputeChargeStatus(ctx context.Context, tx *gorm.DB, repo Repository, act actor.Actor, charge *models.Charge) error {
	allocated, err := repo.SumForCharge(ctx, charge.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "summing charge allocations")
	}

	next := StatusFor(allocated, charge.AmountCents)
	if next == charge.Status {
		return nil
	}

	prev := charge.Status
	charge.Status = next
	if err := repo.SaveCharge(ctx, charge); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving charge status")
	}

	return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		TenantID:      act.TenantID,
		EventType:     enums.EventChargeStatusChanged,
		AggregateType: enums.AggregateCharge,
		AggregateID:   charge.ID,
		Actor:         act.Ref(),
		Data: payloads.ChargeStatusChangedEvent{
			ChargeID:       charge.ID,
			UnitID:         charge.UnitID,
			PreviousStatus: prev,
			NewStatus:      next,
			AllocatedCents: allocated,
		},
	})
}
