package ledgerview

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/mariagaitan/condoflow-backend/internal/actor"
	"github.com/mariagaitan/condoflow-backend/pkg/db/models"
	pkgerrors "github.com/mariagaitan/condoflow-backend/pkg/errors"
)

var periodRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// Service assembles the per-unit ledger view.
type Service interface {
	GetUnitLedger(ctx context.Context, act actor.Actor, unit *models.Unit, q LedgerQuery) (*UnitLedgerDTO, error)
}

type service struct {
	repo Repository
}

// NewService builds a ledger view service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetUnitLedger(ctx context.Context, act actor.Actor, unit *models.Unit, q LedgerQuery) (*UnitLedgerDTO, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}

	charges, err := s.repo.ListLiveCharges(ctx, act.TenantID, unit.ID, q)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing charges")
	}
	from, to := paymentWindow(q)
	payments, err := s.repo.ListPayments(ctx, act.TenantID, unit.ID, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing payments")
	}

	chargeIDs := make([]uuid.UUID, 0, len(charges))
	for i := range charges {
		chargeIDs = append(chargeIDs, charges[i].ID)
	}
	paymentIDs := make([]uuid.UUID, 0, len(payments))
	for i := range payments {
		paymentIDs = append(paymentIDs, payments[i].ID)
	}

	chargeAllocated, err := s.repo.SumAllocatedByCharge(ctx, chargeIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "summing charge allocations")
	}
	paymentAllocated, err := s.repo.SumAllocatedByPayment(ctx, paymentIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "summing payment allocations")
	}

	dto := &UnitLedgerDTO{
		UnitID:   unit.ID,
		Charges:  make([]LedgerChargeDTO, 0, len(charges)),
		Payments: make([]LedgerPaymentDTO, 0, len(payments)),
	}
	for i := range charges {
		c := &charges[i]
		allocated := chargeAllocated[c.ID]
		dto.Charges = append(dto.Charges, LedgerChargeDTO{
			ID:             c.ID,
			Type:           c.Type,
			Period:         c.Period,
			Concept:        c.Concept,
			AmountCents:    c.AmountCents,
			AllocatedCents: allocated,
			Currency:       c.Currency,
			Status:         c.Status,
			CreatedAt:      c.CreatedAt,
		})
		dto.Totals.ChargesCents += c.AmountCents
		dto.Totals.AllocatedCents += allocated
	}
	for i := range payments {
		p := &payments[i]
		dto.Payments = append(dto.Payments, LedgerPaymentDTO{
			ID:             p.ID,
			AmountCents:    p.AmountCents,
			AllocatedCents: paymentAllocated[p.ID],
			Currency:       p.Currency,
			Method:         p.Method,
			Status:         p.Status,
			Reference:      p.Reference,
			CreatedAt:      p.CreatedAt,
		})
	}

	dto.Totals.BalanceCents = dto.Totals.ChargesCents - dto.Totals.AllocatedCents
	dto.Totals.BalanceDisplay = displayCents(dto.Totals.BalanceCents)
	return dto, nil
}

// paymentWindow converts the YYYY-MM bounds into half-open time
// bounds: the first instant of period_from up to the first instant of
// the month after period_to. Called after validateQuery, so the parse
// cannot fail.
func paymentWindow(q LedgerQuery) (*time.Time, *time.Time) {
	var from, to *time.Time
	if q.PeriodFrom != nil {
		t, _ := time.Parse("2006-01", *q.PeriodFrom)
		from = &t
	}
	if q.PeriodTo != nil {
		t, _ := time.Parse("2006-01", *q.PeriodTo)
		t = t.AddDate(0, 1, 0)
		to = &t
	}
	return from, to
}

func validateQuery(q LedgerQuery) error {
	for _, period := range []*string{q.PeriodFrom, q.PeriodTo} {
		if period != nil && !periodRe.MatchString(*period) {
			return pkgerrors.New(pkgerrors.CodeValidation, "period must be YYYY-MM")
		}
	}
	if q.PeriodFrom != nil && q.PeriodTo != nil && *q.PeriodFrom > *q.PeriodTo {
		return pkgerrors.New(pkgerrors.CodeValidation, "period_from is after period_to")
	}
	return nil
}
