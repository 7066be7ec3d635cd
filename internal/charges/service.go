package charges

import (
	"context"
	"errors"
	"regexp"
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

var periodRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

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

// Service defines charge operations. Reads are scoped to a building;
// residents and owners only see charges on units they actively hold.
type Service interface {
	Create(ctx context.Context, act actor.Actor, unit *models.Unit, req CreateChargeRequest) (*ChargeDTO, error)
	Update(ctx context.Context, act actor.Actor, building *models.Building, chargeID uuid.UUID, req UpdateChargeRequest) (*ChargeDTO, error)
	Cancel(ctx context.Context, act actor.Actor, building *models.Building, chargeID uuid.UUID) (*ChargeDTO, error)
	Get(ctx context.Context, act actor.Actor, building *models.Building, chargeID uuid.UUID) (*ChargeDTO, error)
	List(ctx context.Context, act actor.Actor, building *models.Building, filter ListFilter, page pagination.Page) ([]ChargeDTO, int64, error)
}

type service struct {
	repo        Repository
	occupancies occupancyReader
	tx          txRunner
	outbox      outboxPublisher
}

// NewService builds a charge service with the required dependencies.
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

func errChargeNotFound() *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "resource not found")
}

func (s *service) Create(ctx context.Context, act actor.Actor, unit *models.Unit, req CreateChargeRequest) (*ChargeDTO, error) {
	if !act.CanManageCharges() {
		return nil, errForbidden()
	}

	chargeType, err := enums.ParseChargeType(req.Type)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid charge type").
			WithDetails(map[string]string{"type": req.Type})
	}
	currency, err := enums.ParseCurrency(req.Currency)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid currency").
			WithDetails(map[string]string{"currency": req.Currency})
	}
	if !periodRe.MatchString(req.Period) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "period must be YYYY-MM").
			WithDetails(map[string]string{"period": req.Period})
	}

	charge := &models.Charge{
		ID:          uuid.New(),
		TenantID:    act.TenantID,
		BuildingID:  unit.BuildingID,
		UnitID:      unit.ID,
		Type:        chargeType,
		Period:      req.Period,
		Concept:     req.Concept,
		AmountCents: req.AmountCents,
		Currency:    currency,
		DueDate:     req.DueDate,
		Status:      enums.ChargeStatusPending,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.Create(ctx, charge); err != nil {
			if dbpkg.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "active charge already exists for unit/period/concept").
					WithDetails(map[string]string{
						"unit_id": unit.ID.String(),
						"period":  req.Period,
						"concept": req.Concept,
					})
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating charge")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			TenantID:      act.TenantID,
			EventType:     enums.EventChargeCreated,
			AggregateType: enums.AggregateCharge,
			AggregateID:   charge.ID,
			Actor:         act.Ref(),
			Data:          chargeEventPayload(charge),
		})
	})
	if err != nil {
		return nil, err
	}

	dto := ToDTO(charge, 0)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, act actor.Actor, building *models.Building, chargeID uuid.UUID, req UpdateChargeRequest) (*ChargeDTO, error) {
	if !act.CanManageCharges() {
		return nil, errForbidden()
	}
	if req.AmountCents == nil && req.Type == nil && req.Concept == nil && req.DueDate == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	var chargeType *enums.ChargeType
	if req.Type != nil {
		parsed, err := enums.ParseChargeType(*req.Type)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid charge type").
				WithDetails(map[string]string{"type": *req.Type})
		}
		chargeType = &parsed
	}

	var updated *models.Charge
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		charge, err := repo.FindByIDForUpdate(ctx, act.TenantID, chargeID)
		if err != nil {
			if dbpkg.IsNotFound(err) {
				return errChargeNotFound()
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading charge")
		}
		if charge.BuildingID != building.ID {
			return errChargeNotFound()
		}
		if charge.Canceled() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "charge is canceled")
		}

		// Allocated charges are frozen; only cancellation remains.
		count, err := repo.CountAllocations(ctx, charge.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting allocations")
		}
		if count > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "charge has allocations and cannot be updated").
				WithDetails(map[string]int64{"allocation_count": count})
		}

		if chargeType != nil {
			charge.Type = *chargeType
		}
		if req.Concept != nil {
			charge.Concept = *req.Concept
		}
		if req.AmountCents != nil {
			charge.AmountCents = *req.AmountCents
		}
		if req.DueDate != nil {
			charge.DueDate = req.DueDate
		}

		if err := repo.Save(ctx, charge); err != nil {
			if dbpkg.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "active charge already exists for unit/period/concept").
					WithDetails(map[string]string{
						"unit_id": charge.UnitID.String(),
						"period":  charge.Period,
						"concept": charge.Concept,
					})
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving charge")
		}

		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			TenantID:      act.TenantID,
			EventType:     enums.EventChargeUpdated,
			AggregateType: enums.AggregateCharge,
			AggregateID:   charge.ID,
			Actor:         act.Ref(),
			Data:          chargeEventPayload(charge),
		}); err != nil {
			return err
		}

		updated = charge
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := ToDTO(updated, 0)
	return &dto, nil
}

func (s *service) Cancel(ctx context.Context, act actor.Actor, building *models.Building, chargeID uuid.UUID) (*ChargeDTO, error) {
	if !act.CanManageCharges() {
		return nil, errForbidden()
	}

	var (
		canceled  *models.Charge
		allocated int64
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		charge, err := repo.FindByIDForUpdate(ctx, act.TenantID, chargeID)
		if err != nil {
			if dbpkg.IsNotFound(err) {
				return errChargeNotFound()
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading charge")
		}
		if charge.BuildingID != building.ID {
			return errChargeNotFound()
		}
		if charge.Canceled() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "charge is already canceled")
		}

		// Existing allocations stay in place; they still count toward
		// payment conservation. The charge just leaves active views.
		allocated, err = repo.SumAllocated(ctx, charge.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "summing allocations")
		}

		now := time.Now().UTC()
		charge.CanceledAt = &now
		if err := repo.Save(ctx, charge); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving charge")
		}

		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			TenantID:      act.TenantID,
			EventType:     enums.EventChargeCanceled,
			AggregateType: enums.AggregateCharge,
			AggregateID:   charge.ID,
			Actor:         act.Ref(),
			Data:          chargeEventPayload(charge),
		}); err != nil {
			return err
		}

		canceled = charge
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := ToDTO(canceled, allocated)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, act actor.Actor, building *models.Building, chargeID uuid.UUID) (*ChargeDTO, error) {
	charge, err := s.repo.FindByID(ctx, act.TenantID, building.ID, chargeID)
	if err != nil {
		if dbpkg.IsNotFound(err) {
			return nil, errChargeNotFound()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading charge")
	}

	if !act.IsStaff() {
		ok, err := s.occupancies.HasActiveForUser(ctx, act.TenantID, act.UserID, charge.UnitID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking occupancy")
		}
		if !ok {
			return nil, errChargeNotFound()
		}
	}

	allocated, err := s.repo.SumAllocated(ctx, charge.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "summing allocations")
	}

	dto := ToDTO(charge, allocated)
	return &dto, nil
}

func (s *service) List(ctx context.Context, act actor.Actor, building *models.Building, filter ListFilter, page pagination.Page) ([]ChargeDTO, int64, error) {
	if !act.IsStaff() {
		visible, err := s.occupancies.ListActiveUnitIDsForUser(ctx, act.TenantID, act.UserID)
		if err != nil {
			return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving accessible units")
		}
		if len(visible) == 0 {
			return []ChargeDTO{}, 0, nil
		}
		filter.VisibleUnitIDs = visible
	}

	rows, total, err := s.repo.List(ctx, act.TenantID, building.ID, filter, page)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing charges")
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, c := range rows {
		ids = append(ids, c.ID)
	}
	totals, err := s.repo.SumAllocatedByCharge(ctx, ids)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "summing allocations")
	}

	dtos := make([]ChargeDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, ToDTO(&rows[i], totals[rows[i].ID]))
	}
	return dtos, total, nil
}

func chargeEventPayload(c *models.Charge) payloads.ChargeEvent {
	return payloads.ChargeEvent{
		ChargeID:    c.ID,
		UnitID:      c.UnitID,
		BuildingID:  c.BuildingID,
		Type:        c.Type,
		Period:      c.Period,
		Concept:     c.Concept,
		AmountCents: c.AmountCents,
		Currency:    c.Currency,
		Status:      c.Status,
	}
}
