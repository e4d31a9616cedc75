package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/spbu-ds-practicum-2025/example-project/services/transaction-processor/internal/domain"
)

func newTestResult() *domain.BatchResult {
	return &domain.BatchResult{
		RunID:      uuid.MustParse("6f1c2d3e-4b5a-4c7d-8e9f-0a1b2c3d4e5f"),
		StartedAt:  time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2025, 3, 1, 12, 0, 5, 0, time.UTC),
		Events: []domain.Event{
			{TransactionID: "T1", Status: domain.EventStatusApproved, Message: domain.ApprovedMessage},
			{TransactionID: "T2", Status: domain.EventStatusDeclined, Message: "Not enough balance to withdraw 200 - balance is too low at 150"},
		},
	}
}

func TestNewTransactionProcessedEvent(t *testing.T) {
	result := newTestResult()

	event := NewTransactionProcessedEvent(result, 1)

	if event.EventType != "transaction.processed" {
		t.Errorf("expected eventType transaction.processed, got %s", event.EventType)
	}
	if event.RunID != result.RunID.String() {
		t.Errorf("expected runId %s, got %s", result.RunID, event.RunID)
	}
	if event.Sequence != 1 || event.TransactionID != "T2" || event.Status != "DECLINED" {
		t.Errorf("unexpected event %+v", event)
	}
	if event.Message != result.Events[1].Message {
		t.Errorf("expected message %q, got %q", result.Events[1].Message, event.Message)
	}
	if event.EventTimestamp != "2025-03-01T12:00:05Z" {
		t.Errorf("expected eventTimestamp 2025-03-01T12:00:05Z, got %s", event.EventTimestamp)
	}

	again := NewTransactionProcessedEvent(result, 1)
	if again.EventID != event.EventID {
		t.Error("expected the event id to be stable for the same run and position")
	}
	if other := NewTransactionProcessedEvent(result, 0); other.EventID == event.EventID {
		t.Error("expected different positions to get different event ids")
	}
	if _, err := uuid.Parse(event.EventID); err != nil {
		t.Errorf("expected event id to be a uuid: %v", err)
	}
}

func TestMarshalEvents(t *testing.T) {
	bodies, err := marshalEvents(newTestResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bodies) != 2 {
		t.Fatalf("expected 2 bodies, got %d", len(bodies))
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(bodies[0], &decoded); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	for _, key := range []string{"eventId", "eventType", "eventTimestamp", "runId", "sequence", "transactionId", "status", "message"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("expected key %s in %s", key, bodies[0])
		}
	}
	if decoded["status"] != "APPROVED" || decoded["message"] != "OK" {
		t.Errorf("unexpected body %s", bodies[0])
	}
}
