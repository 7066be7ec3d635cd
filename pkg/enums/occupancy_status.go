package enums

import "fmt"

// OccupancyStatus tracks whether a user currently holds a unit.
type OccupancyStatus string

const (
	OccupancyStatusActive OccupancyStatus = "active"
	OccupancyStatusEnded  OccupancyStatus = "ended"
)

var validOccupancyStatuses = []OccupancyStatus{
	OccupancyStatusActive,
	OccupancyStatusEnded,
}

// String implements fmt.Stringer.
func (o OccupancyStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OccupancyStatus.
func (o OccupancyStatus) IsValid() bool {
	for _, candidate := range validOccupancyStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOccupancyStatus converts raw input into an OccupancyStatus.
func ParseOccupancyStatus(value string) (OccupancyStatus, error) {
	for _, candidate := range validOccupancyStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid occupancy status %q", value)
}
