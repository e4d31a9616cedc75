package analytics

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/spbu-ds-practicum-2025/example-project/services/transaction-processor/internal/domain"
)

// OutcomeRepository writes one row per outcome into ClickHouse.
// It implements domain.ResultSink.
type OutcomeRepository struct {
	client *Client
}

// NewOutcomeRepository creates a new outcome repository
func NewOutcomeRepository(client *Client) *OutcomeRepository {
	return &OutcomeRepository{client: client}
}

// Name identifies the sink in logs.
func (r *OutcomeRepository) Name() string {
	return "clickhouse"
}

// Export inserts every event of the run in a single batch.
func (r *OutcomeRepository) Export(ctx context.Context, result *domain.BatchResult) error {
	if len(result.Events) == 0 {
		return nil
	}

	batch, err := r.client.Conn().PrepareBatch(ctx, "INSERT INTO transaction_outcomes")
	if err != nil {
		return fmt.Errorf("failed to prepare outcome batch: %w", err)
	}

	for i, e := range result.Events {
		err := batch.Append(
			result.RunID,
			uint32(i),
			e.TransactionID,
			string(e.Status),
			e.Message,
			result.FinishedAt,
		)
		if err != nil {
			_ = batch.Abort()
			return fmt.Errorf("failed to append outcome %s: %w", e.TransactionID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send outcome batch for run %s: %w", result.RunID, err)
	}

	return nil
}

// CountByStatus returns how many outcomes of each status a run stored.
func (r *OutcomeRepository) CountByStatus(ctx context.Context, runID uuid.UUID) (map[domain.EventStatus]uint64, error) {
	query := `
		SELECT toString(status), count()
		FROM transaction_outcomes
		WHERE run_id = ?
		GROUP BY status
	`

	rows, err := r.client.Conn().Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outcomes for run %s: %w", runID, err)
	}
	defer rows.Close()

	counts := make(map[domain.EventStatus]uint64)
	for rows.Next() {
		var (
			status string
			total  uint64
		)
		if err := rows.Scan(&status, &total); err != nil {
			return nil, fmt.Errorf("failed to scan outcome count: %w", err)
		}
		counts[domain.EventStatus(status)] = total
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate outcome counts: %w", err)
	}

	return counts, nil
}
