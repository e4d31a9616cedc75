package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// migrations create the result store tables. Each statement is idempotent.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS batch_runs (
		id UUID PRIMARY KEY,
		started_at TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ NOT NULL,
		approved INTEGER NOT NULL,
		declined INTEGER NOT NULL,
		failed INTEGER NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS batch_balances (
		run_id UUID NOT NULL REFERENCES batch_runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		user_id TEXT NOT NULL,
		balance NUMERIC NOT NULL,
		PRIMARY KEY (run_id, position)
	);`,
	`CREATE TABLE IF NOT EXISTS batch_outcomes (
		run_id UUID NOT NULL REFERENCES batch_runs(id) ON DELETE CASCADE,
		sequence INTEGER NOT NULL,
		transaction_id TEXT NOT NULL,
		status VARCHAR(16) NOT NULL,
		message TEXT NOT NULL,
		PRIMARY KEY (run_id, sequence)
	);
	CREATE INDEX IF NOT EXISTS idx_batch_outcomes_transaction_id ON batch_outcomes(transaction_id);`,
	`CREATE TABLE IF NOT EXISTS batch_failures (
		run_id UUID NOT NULL REFERENCES batch_runs(id) ON DELETE CASCADE,
		transaction_id TEXT NOT NULL,
		error TEXT NOT NULL
	);`,
}

// Migrate creates the result store schema.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, migration := range migrations {
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("failed to run migration %d: %w", i+1, err)
		}
	}
	return nil
}
