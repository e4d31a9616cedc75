// Package events publishes batch outcomes to message brokers.
package events

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/spbu-ds-practicum-2025/example-project/services/transaction-processor/internal/domain"
)

// EventTypeTransactionProcessed is the type of every outcome message
const EventTypeTransactionProcessed = "transaction.processed"

// TransactionProcessedEvent is the message published for one outcome.
type TransactionProcessedEvent struct {
	EventID        string `json:"eventId"`
	EventType      string `json:"eventType"`
	EventTimestamp string `json:"eventTimestamp"`
	RunID          string `json:"runId"`
	Sequence       int    `json:"sequence"`
	TransactionID  string `json:"transactionId"`
	Status         string `json:"status"`
	Message        string `json:"message"`
}

// NewTransactionProcessedEvent builds the message for the event at position seq.
// The event id is derived from the run id and the position, so republishing a
// run yields the same ids.
func NewTransactionProcessedEvent(result *domain.BatchResult, seq int) TransactionProcessedEvent {
	e := result.Events[seq]
	return TransactionProcessedEvent{
		EventID:        uuid.NewSHA1(result.RunID, []byte(strconv.Itoa(seq))).String(),
		EventType:      EventTypeTransactionProcessed,
		EventTimestamp: result.FinishedAt.UTC().Format(time.RFC3339),
		RunID:          result.RunID.String(),
		Sequence:       seq,
		TransactionID:  e.TransactionID,
		Status:         string(e.Status),
		Message:        e.Message,
	}
}

// marshalEvents encodes every outcome of the run in processing order.
func marshalEvents(result *domain.BatchResult) ([][]byte, error) {
	bodies := make([][]byte, 0, len(result.Events))
	for i := range result.Events {
		body, err := json.Marshal(NewTransactionProcessedEvent(result, i))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal event %d: %w", i, err)
		}
		bodies = append(bodies, body)
	}
	return bodies, nil
}
