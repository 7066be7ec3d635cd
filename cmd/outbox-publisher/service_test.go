package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/mariagaitan/condoflow-backend/pkg/config"
	"github.com/mariagaitan/condoflow-backend/pkg/db/models"
	"github.com/mariagaitan/condoflow-backend/pkg/enums"
	"github.com/mariagaitan/condoflow-backend/pkg/logger"
	"github.com/mariagaitan/condoflow-backend/pkg/outbox/registry"
)

type fakeRepo struct {
	events    []models.OutboxEvent
	published []uuid.UUID
	failed    []uuid.UUID
	dlq       []models.OutboxDLQ
}

func (f *fakeRepo) FetchUnpublished(limit int) ([]models.OutboxEvent, error) {
	if limit < len(f.events) {
		return f.events[:limit], nil
	}
	return f.events, nil
}

func (f *fakeRepo) MarkPublished(id uuid.UUID) error {
	f.published = append(f.published, id)
	return nil
}

func (f *fakeRepo) MarkFailed(id uuid.UUID, _ error) error {
	f.failed = append(f.failed, id)
	return nil
}

func (f *fakeRepo) MoveToDLQ(_ models.OutboxEvent, row models.OutboxDLQ) error {
	f.dlq = append(f.dlq, row)
	return nil
}

type fakeResult struct {
	err error
}

func (r fakeResult) Get(context.Context) (string, error) {
	return "server-id", r.err
}

type fakePublisher struct {
	messages []*gcppubsub.Message
	err      error
}

func (p *fakePublisher) Publish(_ context.Context, msg *gcppubsub.Message) publishResult {
	p.messages = append(p.messages, msg)
	return fakeResult{err: p.err}
}

func testConfig() *config.Config {
	return &config.Config{
		PubSub: config.PubSubConfig{LedgerTopic: "ledger-events"},
		Outbox: config.OutboxConfig{
			PollInterval: 10 * time.Millisecond,
			BatchSize:    10,
			MaxAttempts:  3,
		},
	}
}

func paymentEvent(t *testing.T, attempts int) models.OutboxEvent {
	t.Helper()
	data, err := json.Marshal(map[string]any{"payment_id": uuid.NewString()})
	require.NoError(t, err)
	payload, err := json.Marshal(map[string]any{
		"version":    1,
		"eventId":    uuid.NewString(),
		"occurredAt": time.Now().UTC(),
		"data":       json.RawMessage(data),
	})
	require.NoError(t, err)
	return models.OutboxEvent{
		ID:            uuid.New(),
		TenantID:      uuid.New(),
		EventType:     enums.EventPaymentSubmitted,
		AggregateType: enums.AggregatePayment,
		AggregateID:   uuid.New(),
		Payload:       payload,
		CreatedAt:     time.Now().UTC(),
		AttemptCount:  attempts,
	}
}

func newTestService(t *testing.T, repo *fakeRepo, pub publisher) *Service {
	t.Helper()
	cfg := testConfig()
	reg, err := registry.NewEventRegistry(cfg.PubSub)
	require.NoError(t, err)
	svc, err := NewService(ServiceParams{
		Config:           cfg,
		Logger:           logger.New("test"),
		Repository:       repo,
		Registry:         reg,
		PublisherFactory: func(string) publisher { return pub },
	})
	require.NoError(t, err)
	return svc
}

func TestProcessBatchPublishesAndMarks(t *testing.T) {
	event := paymentEvent(t, 0)
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	pub := &fakePublisher{}
	svc := newTestService(t, repo, pub)

	processed, err := svc.processBatch(context.Background())
	require.NoError(t, err)
	require.True(t, processed)

	require.Equal(t, []uuid.UUID{event.ID}, repo.published)
	require.Empty(t, repo.failed)
	require.Empty(t, repo.dlq)

	require.Len(t, pub.messages, 1)
	msg := pub.messages[0]
	require.Equal(t, string(enums.EventPaymentSubmitted), msg.Attributes["event_type"])
	require.Equal(t, event.TenantID.String(), msg.Attributes["tenant_id"])
	require.Equal(t, event.AggregateID.String(), msg.Attributes["aggregate_id"])
}

func TestProcessBatchEmptyQueue(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo, &fakePublisher{})

	processed, err := svc.processBatch(context.Background())
	require.NoError(t, err)
	require.False(t, processed)
}

func TestRetryableFailureIncrementsAttempt(t *testing.T) {
	event := paymentEvent(t, 0)
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	pub := &fakePublisher{err: errors.New("broker unavailable")}
	svc := newTestService(t, repo, pub)

	processed, err := svc.processBatch(context.Background())
	require.NoError(t, err)
	require.True(t, processed)

	require.Equal(t, []uuid.UUID{event.ID}, repo.failed)
	require.Empty(t, repo.published)
	require.Empty(t, repo.dlq)
}

func TestMaxAttemptsDeadLetters(t *testing.T) {
	event := paymentEvent(t, 2) // next failure is attempt 3 of 3
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	pub := &fakePublisher{err: errors.New("broker unavailable")}
	svc := newTestService(t, repo, pub)

	_, err := svc.processBatch(context.Background())
	require.NoError(t, err)

	require.Len(t, repo.dlq, 1)
	require.Equal(t, enums.DLQReasonMaxAttempts, repo.dlq[0].ErrorReason)
	require.Equal(t, event.ID, repo.dlq[0].EventID)
	require.Equal(t, event.TenantID, repo.dlq[0].TenantID)
	require.Empty(t, repo.failed)
}

func TestMalformedPayloadDeadLetters(t *testing.T) {
	event := paymentEvent(t, 0)
	event.Payload = json.RawMessage(`{"version":1,"eventId":"x","data":null}`)
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	svc := newTestService(t, repo, &fakePublisher{})

	_, err := svc.processBatch(context.Background())
	require.NoError(t, err)

	require.Len(t, repo.dlq, 1)
	require.Equal(t, enums.DLQReasonNonRetryable, repo.dlq[0].ErrorReason)
	require.Empty(t, repo.published)
}

func TestUnknownEventTypeDeadLetters(t *testing.T) {
	event := paymentEvent(t, 0)
	event.EventType = enums.OutboxEventType("mystery.event")
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	svc := newTestService(t, repo, &fakePublisher{})

	_, err := svc.processBatch(context.Background())
	require.NoError(t, err)

	require.Len(t, repo.dlq, 1)
	require.Equal(t, enums.DLQReasonNonRetryable, repo.dlq[0].ErrorReason)
}
