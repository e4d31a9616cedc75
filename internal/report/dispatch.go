// Package report hands a finished batch result to the configured sinks.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spbu-ds-practicum-2025/example-project/services/transaction-processor/internal/domain"
)

// Dispatch exports result to every sink in order. A failing sink does not stop
// the others; all failures are returned joined.
func Dispatch(ctx context.Context, logger *zap.Logger, result *domain.BatchResult, sinks ...domain.ResultSink) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	var errs []error
	for _, sink := range sinks {
		start := time.Now()
		log := logger.With(
			zap.String("sink", sink.Name()),
			zap.String("run_id", result.RunID.String()),
		)

		if err := sink.Export(ctx, result); err != nil {
			log.Error("failed to export batch result", zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
			continue
		}

		log.Info("batch result exported",
			zap.Int("events", len(result.Events)),
			zap.Duration("elapsed", time.Since(start)),
		)
	}

	return errors.Join(errs...)
}
