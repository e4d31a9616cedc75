package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spbu-ds-practicum-2025/example-project/services/transaction-processor/internal/domain"
)

// ErrRunNotFound is returned when no run is stored under the given id
var ErrRunNotFound = errors.New("batch run not found")

// ResultRepository stores finished batch results in PostgreSQL.
// It implements domain.ResultSink.
type ResultRepository struct {
	pool      *pgxpool.Pool
	txManager domain.TransactionManager
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool, txManager domain.TransactionManager) *ResultRepository {
	return &ResultRepository{
		pool:      pool,
		txManager: txManager,
	}
}

// Name identifies the sink in logs.
func (r *ResultRepository) Name() string {
	return "postgres"
}

// Export writes the run, the final balances, the outcomes and the failures in a
// single database transaction.
func (r *ResultRepository) Export(ctx context.Context, result *domain.BatchResult) error {
	return r.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := r.createRun(ctx, result); err != nil {
			return err
		}
		if err := r.copyBalances(ctx, result); err != nil {
			return err
		}
		if err := r.copyOutcomes(ctx, result); err != nil {
			return err
		}
		return r.copyFailures(ctx, result)
	})
}

func (r *ResultRepository) createRun(ctx context.Context, result *domain.BatchResult) error {
	query := `
		INSERT INTO batch_runs (id, started_at, finished_at, approved, declined, failed)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	summary := result.Summary()
	_, err := conn(ctx, r.pool).Exec(ctx, query,
		result.RunID,
		result.StartedAt,
		result.FinishedAt,
		summary.Approved,
		summary.Declined,
		summary.Failed,
	)
	if err != nil {
		return fmt.Errorf("failed to create batch run %s: %w", result.RunID, err)
	}

	return nil
}

func (r *ResultRepository) copyBalances(ctx context.Context, result *domain.BatchResult) error {
	users := result.Users
	_, err := conn(ctx, r.pool).CopyFrom(ctx,
		pgx.Identifier{"batch_balances"},
		[]string{"run_id", "position", "user_id", "balance"},
		pgx.CopyFromSlice(len(users), func(i int) ([]any, error) {
			balance, err := toNumeric(users[i].Balance)
			if err != nil {
				return nil, fmt.Errorf("user %s: %w", users[i].ID, err)
			}
			return []any{result.RunID, int32(i), users[i].ID, balance}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy balances: %w", err)
	}

	return nil
}

func (r *ResultRepository) copyOutcomes(ctx context.Context, result *domain.BatchResult) error {
	events := result.Events
	_, err := conn(ctx, r.pool).CopyFrom(ctx,
		pgx.Identifier{"batch_outcomes"},
		[]string{"run_id", "sequence", "transaction_id", "status", "message"},
		pgx.CopyFromSlice(len(events), func(i int) ([]any, error) {
			e := events[i]
			return []any{result.RunID, int32(i), e.TransactionID, string(e.Status), e.Message}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy outcomes: %w", err)
	}

	return nil
}

func (r *ResultRepository) copyFailures(ctx context.Context, result *domain.BatchResult) error {
	if len(result.Failures) == 0 {
		return nil
	}

	failures := result.Failures
	_, err := conn(ctx, r.pool).CopyFrom(ctx,
		pgx.Identifier{"batch_failures"},
		[]string{"run_id", "transaction_id", "error"},
		pgx.CopyFromSlice(len(failures), func(i int) ([]any, error) {
			return []any{result.RunID, failures[i].TransactionID, failures[i].Err.Error()}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy failures: %w", err)
	}

	return nil
}

// GetSummary retrieves the outcome counts stored for a run.
func (r *ResultRepository) GetSummary(ctx context.Context, runID uuid.UUID) (domain.Summary, error) {
	query := `
		SELECT approved, declined, failed
		FROM batch_runs
		WHERE id = $1
	`

	var summary domain.Summary
	err := conn(ctx, r.pool).QueryRow(ctx, query, runID).Scan(
		&summary.Approved,
		&summary.Declined,
		&summary.Failed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Summary{}, ErrRunNotFound
		}
		return domain.Summary{}, fmt.Errorf("failed to get batch run %s: %w", runID, err)
	}

	return summary, nil
}

// ListOutcomes retrieves the events stored for a run, in processing order.
func (r *ResultRepository) ListOutcomes(ctx context.Context, runID uuid.UUID) ([]domain.Event, error) {
	query := `
		SELECT transaction_id, status, message
		FROM batch_outcomes
		WHERE run_id = $1
		ORDER BY sequence
	`

	rows, err := conn(ctx, r.pool).Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outcomes of run %s: %w", runID, err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var (
			e      domain.Event
			status string
		)
		if err := rows.Scan(&e.TransactionID, &status, &e.Message); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		e.Status = domain.EventStatus(status)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate outcomes: %w", err)
	}

	return events, nil
}

// ListBalances retrieves the final balances stored for a run, keyed by user id.
func (r *ResultRepository) ListBalances(ctx context.Context, runID uuid.UUID) (map[string]string, error) {
	query := `
		SELECT user_id, balance::text
		FROM batch_balances
		WHERE run_id = $1
		ORDER BY position
	`

	rows, err := conn(ctx, r.pool).Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query balances of run %s: %w", runID, err)
	}
	defer rows.Close()

	balances := make(map[string]string)
	for rows.Next() {
		var userID, balance string
		if err := rows.Scan(&userID, &balance); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances[userID] = balance
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balances: %w", err)
	}

	return balances, nil
}

// toNumeric converts an amount without going through float64.
func toNumeric(a domain.Amount) (pgtype.Numeric, error) {
	var n pgtype.Numeric
	if err := n.Scan(a.String()); err != nil {
		return pgtype.Numeric{}, fmt.Errorf("failed to convert amount %s: %w", a, err)
	}
	return n, nil
}
