package registry

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mariagaitan/condoflow-backend/pkg/config"
	"github.com/mariagaitan/condoflow-backend/pkg/db/models"
	"github.com/mariagaitan/condoflow-backend/pkg/enums"
	"github.com/mariagaitan/condoflow-backend/pkg/outbox"
	"github.com/mariagaitan/condoflow-backend/pkg/outbox/payloads"
)

func testRegistry(t *testing.T) *EventRegistry {
	t.Helper()
	reg, err := NewEventRegistry(config.PubSubConfig{LedgerTopic: "ledger-events"})
	require.NoError(t, err)
	return reg
}

func envelopeJSON(t *testing.T, data any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	env := outbox.PayloadEnvelope{
		Version:    1,
		EventID:    uuid.NewString(),
		OccurredAt: time.Now(),
		Data:       raw,
	}
	out, err := json.Marshal(env)
	require.NoError(t, err)
	return out
}

func TestResolveChargeStatusChanged(t *testing.T) {
	reg := testRegistry(t)
	chargeID := uuid.New()

	row := models.OutboxEvent{
		EventType:     enums.EventChargeStatusChanged,
		AggregateType: enums.AggregateCharge,
		AggregateID:   chargeID,
		Payload: envelopeJSON(t, payloads.ChargeStatusChangedEvent{
			ChargeID:       chargeID,
			PreviousStatus: enums.ChargeStatusPending,
			NewStatus:      enums.ChargeStatusPartial,
			AllocatedCents: 2500,
		}),
	}

	resolved, err := reg.Resolve(row)
	require.NoError(t, err)
	assert.Equal(t, "ledger-events", resolved.Descriptor.Topic)

	payload, ok := resolved.Payload.(*payloads.ChargeStatusChangedEvent)
	require.True(t, ok)
	assert.Equal(t, chargeID, payload.ChargeID)
	assert.Equal(t, enums.ChargeStatusPartial, payload.NewStatus)
}

func TestResolveRejectsUnknownEventType(t *testing.T) {
	reg := testRegistry(t)

	_, err := reg.Resolve(models.OutboxEvent{
		EventType:     enums.OutboxEventType("unit_exploded"),
		AggregateType: enums.AggregateCharge,
		AggregateID:   uuid.New(),
	})
	require.Error(t, err)
	var nre NonRetryableError
	assert.ErrorAs(t, err, &nre)
}

func TestResolveRejectsAggregateMismatch(t *testing.T) {
	reg := testRegistry(t)

	_, err := reg.Resolve(models.OutboxEvent{
		EventType:     enums.EventPaymentApproved,
		AggregateType: enums.AggregateCharge,
		AggregateID:   uuid.New(),
	})
	require.Error(t, err)
	var nre NonRetryableError
	assert.ErrorAs(t, err, &nre)
}

func TestResolveRejectsEmptyPayload(t *testing.T) {
	reg := testRegistry(t)

	env, err := json.Marshal(outbox.PayloadEnvelope{Version: 1, EventID: uuid.NewString(), Data: json.RawMessage("null")})
	require.NoError(t, err)

	_, err = reg.Resolve(models.OutboxEvent{
		EventType:     enums.EventAllocationCreated,
		AggregateType: enums.AggregateAllocation,
		AggregateID:   uuid.New(),
		Payload:       env,
	})
	require.Error(t, err)
	var nre NonRetryableError
	assert.ErrorAs(t, err, &nre)
}
