package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateCharge     OutboxAggregateType = "charge"
	AggregatePayment    OutboxAggregateType = "payment"
	AggregateAllocation OutboxAggregateType = "allocation"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateCharge,
	AggregatePayment,
	AggregateAllocation,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventChargeCreated       OutboxEventType = "charge_created"
	EventChargeUpdated       OutboxEventType = "charge_updated"
	EventChargeCanceled      OutboxEventType = "charge_canceled"
	EventChargeStatusChanged OutboxEventType = "charge_status_changed"
	EventPaymentSubmitted    OutboxEventType = "payment_submitted"
	EventPaymentApproved     OutboxEventType = "payment_approved"
	EventPaymentRejected     OutboxEventType = "payment_rejected"
	EventAllocationCreated   OutboxEventType = "allocation_created"
	EventAllocationDeleted   OutboxEventType = "allocation_deleted"
)

var validOutboxEventTypes = []OutboxEventType{
	EventChargeCreated,
	EventChargeUpdated,
	EventChargeCanceled,
	EventChargeStatusChanged,
	EventPaymentSubmitted,
	EventPaymentApproved,
	EventPaymentRejected,
	EventAllocationCreated,
	EventAllocationDeleted,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}

// OutboxDLQErrorReason classifies why an event was dead-lettered.
type OutboxDLQErrorReason string

const (
	DLQReasonMaxAttempts  OutboxDLQErrorReason = "max_attempts_exceeded"
	DLQReasonNonRetryable OutboxDLQErrorReason = "non_retryable"
	DLQReasonUnknownEvent OutboxDLQErrorReason = "unknown_event_type"
)
