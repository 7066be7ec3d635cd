package enums

import "fmt"

// ChargeStatus is derived from the allocations applied to a charge.
type ChargeStatus string

const (
	ChargeStatusPending ChargeStatus = "pending"
	ChargeStatusPartial ChargeStatus = "partial"
	ChargeStatusPaid    ChargeStatus = "paid"
)

var validChargeStatuses = []ChargeStatus{
	ChargeStatusPending,
	ChargeStatusPartial,
	ChargeStatusPaid,
}

// String implements fmt.Stringer.
func (c ChargeStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ChargeStatus.
func (c ChargeStatus) IsValid() bool {
	for _, candidate := range validChargeStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseChargeStatus converts raw input into a ChargeStatus.
func ParseChargeStatus(value string) (ChargeStatus, error) {
	for _, candidate := range validChargeStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid charge status %q", value)
}
