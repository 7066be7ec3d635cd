package ledgerview

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mariagaitan/condoflow-backend/pkg/enums"
)

// LedgerChargeDTO is a charge line in the unit ledger.
type LedgerChargeDTO struct {
	ID             uuid.UUID          `json:"id"`
	Type           enums.ChargeType   `json:"type"`
	Period         string             `json:"period"`
	Concept        string             `json:"concept"`
	AmountCents    int64              `json:"amount_cents"`
	AllocatedCents int64              `json:"allocated_cents"`
	Currency       enums.Currency     `json:"currency"`
	Status         enums.ChargeStatus `json:"status"`
	CreatedAt      time.Time          `json:"created_at"`
}

// LedgerPaymentDTO is a payment line in the unit ledger.
type LedgerPaymentDTO struct {
	ID             uuid.UUID           `json:"id"`
	AmountCents    int64               `json:"amount_cents"`
	AllocatedCents int64               `json:"allocated_cents"`
	Currency       enums.Currency      `json:"currency"`
	Method         enums.PaymentMethod `json:"method"`
	Status         enums.PaymentStatus `json:"status"`
	Reference      *string             `json:"reference,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

// LedgerTotals summarizes the returned charge lines. Balance is what
// remains owed: charge amounts minus what has been allocated to them.
type LedgerTotals struct {
	ChargesCents   int64  `json:"charges_cents"`
	AllocatedCents int64  `json:"allocated_cents"`
	BalanceCents   int64  `json:"balance_cents"`
	BalanceDisplay string `json:"balance_display"`
}

// UnitLedgerDTO is the full ledger view for one unit.
type UnitLedgerDTO struct {
	UnitID   uuid.UUID         `json:"unit_id"`
	Charges  []LedgerChargeDTO `json:"charges"`
	Payments []LedgerPaymentDTO `json:"payments"`
	Totals   LedgerTotals      `json:"totals"`
}

// LedgerQuery narrows the ledger to a period window. Both bounds are
// inclusive billing periods in YYYY-MM form.
type LedgerQuery struct {
	PeriodFrom *string
	PeriodTo   *string
}

func displayCents(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}
