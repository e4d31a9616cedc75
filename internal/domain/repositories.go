package domain

import "context"

// ResultSink delivers a finished batch result to an external system.
// Sinks run after the batch has completed; they never influence its outcome.
type ResultSink interface {
	// Name identifies the sink in logs.
	Name() string

	// Export stores or publishes the result.
	Export(ctx context.Context, result *BatchResult) error
}

// TransactionManager defines the interface for managing database transactions.
// This abstraction allows callers to group several writes atomically
// without being coupled to a specific database implementation.
type TransactionManager interface {
	// WithTransaction executes the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// Otherwise, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
