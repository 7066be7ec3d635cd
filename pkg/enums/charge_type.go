package enums

import "fmt"

// ChargeType classifies what a unit is being billed for.
type ChargeType string

const (
	ChargeTypeMaintenance ChargeType = "maintenance"
	ChargeTypeUtility     ChargeType = "utility"
	ChargeTypePenalty     ChargeType = "penalty"
	ChargeTypeReserveFund ChargeType = "reserve_fund"
	ChargeTypeOther       ChargeType = "other"
)

var validChargeTypes = []ChargeType{
	ChargeTypeMaintenance,
	ChargeTypeUtility,
	ChargeTypePenalty,
	ChargeTypeReserveFund,
	ChargeTypeOther,
}

// String implements fmt.Stringer.
func (c ChargeType) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ChargeType.
func (c ChargeType) IsValid() bool {
	for _, candidate := range validChargeTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseChargeType converts raw input into a ChargeType.
func ParseChargeType(value string) (ChargeType, error) {
	for _, candidate := range validChargeTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid charge type %q", value)
}
