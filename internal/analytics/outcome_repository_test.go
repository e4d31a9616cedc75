package analytics

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/spbu-ds-practicum-2025/example-project/services/transaction-processor/internal/domain"
)

func TestOutcomeRepository_EmptyRunIsNoop(t *testing.T) {
	// No client: an empty run must not touch the connection
	repo := NewOutcomeRepository(nil)

	if err := repo.Export(context.Background(), &domain.BatchResult{RunID: uuid.New()}); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if repo.Name() != "clickhouse" {
		t.Errorf("expected name clickhouse, got %s", repo.Name())
	}
}

func TestClient_CloseWithoutConnection(t *testing.T) {
	c := &Client{}
	if err := c.Close(); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}
