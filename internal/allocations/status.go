package allocations

import "github.com/mariagaitan/condoflow-backend/pkg/enums"

// StatusFor derives a charge status from the allocated total. It is the
// single source of truth for the pending/partial/paid transitions:
//
//	allocated == 0      -> pending
//	allocated <  amount -> partial
//	allocated >= amount -> paid
func StatusFor(allocatedCents, amountCents int64) enums.ChargeStatus {
	switch {
	case allocatedCents <= 0:
		return enums.ChargeStatusPending
	case allocatedCents < amountCents:
		return enums.ChargeStatusPartial
	default:
		return enums.ChargeStatusPaid
	}
}
