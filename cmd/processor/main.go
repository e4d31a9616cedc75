package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spbu-ds-practicum-2025/example-project/services/transaction-processor/internal/analytics"
	"github.com/spbu-ds-practicum-2025/example-project/services/transaction-processor/internal/config"
	"github.com/spbu-ds-practicum-2025/example-project/services/transaction-processor/internal/csvfile"
	"github.com/spbu-ds-practicum-2025/example-project/services/transaction-processor/internal/db"
	"github.com/spbu-ds-practicum-2025/example-project/services/transaction-processor/internal/domain"
	"github.com/spbu-ds-practicum-2025/example-project/services/transaction-processor/internal/events"
	"github.com/spbu-ds-practicum-2025/example-project/services/transaction-processor/internal/logging"
	"github.com/spbu-ds-practicum-2025/example-project/services/transaction-processor/internal/report"
)

// Exit codes
const (
	exitOK          = 0
	exitFatal       = 1 // unreadable input or unwritable output
	exitUsage       = 2
	exitSinkFailure = 3 // outputs written, but at least one sink failed
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(exitFatal)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], cfg, logger)
	stop()

	_ = logger.Sync()
	os.Exit(code)
}

// run executes one batch and returns the process exit code.
func run(ctx context.Context, args []string, cfg *config.Config, logger *zap.Logger) int {
	paths, err := config.ParseArgs(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	users, err := csvfile.ReadUsers(paths.Users)
	if err != nil {
		logger.Error("failed to load users", zap.Error(err))
		return exitFatal
	}
	bins, err := csvfile.ReadBinMappings(paths.BinMappings)
	if err != nil {
		logger.Error("failed to load bin mappings", zap.Error(err))
		return exitFatal
	}
	transactions, skipped, err := csvfile.ReadTransactions(paths.Transactions)
	if err != nil {
		logger.Error("failed to load transactions", zap.Error(err))
		return exitFatal
	}
	for _, rowErr := range skipped {
		logger.Warn("skipping malformed transaction row",
			zap.String("path", rowErr.Path),
			zap.Int("line", rowErr.Line),
			zap.Error(rowErr.Err),
		)
	}

	logger.Info("input loaded",
		zap.Int("users", len(users)),
		zap.Int("bin_mappings", len(bins)),
		zap.Int("transactions", len(transactions)),
		zap.Int("skipped_rows", len(skipped)),
	)

	processor := domain.NewProcessor(domain.NewUsers(users), bins, logger)
	result := processor.Run(transactions)

	if err := csvfile.WriteBalances(paths.Balances, result.Users); err != nil {
		logger.Error("failed to write balances", zap.Error(err))
		return exitFatal
	}
	if err := csvfile.WriteEvents(paths.Events, result.Events); err != nil {
		logger.Error("failed to write events", zap.Error(err))
		return exitFatal
	}

	if err := exportResult(ctx, cfg, logger, result); err != nil {
		logger.Error("batch result was not delivered to every sink", zap.Error(err))
		return exitSinkFailure
	}

	return exitOK
}

// exportResult connects to every enabled sink and dispatches the result.
// A sink that cannot be reached counts as a failed export.
func exportResult(ctx context.Context, cfg *config.Config, logger *zap.Logger, result *domain.BatchResult) error {
	var (
		sinks   []domain.ResultSink
		closers []func()
		errs    []error
	)
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	if cfg.Postgres.Enabled() {
		pool, err := db.NewPool(ctx, cfg.Postgres)
		if err == nil {
			closers = append(closers, pool.Close)
			err = db.Migrate(ctx, pool.Pool)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("postgres: %w", err))
		} else {
			txManager := db.NewTransactionManager(pool.Pool, logger)
			sinks = append(sinks, db.NewResultRepository(pool.Pool, txManager))
		}
	}

	if cfg.ClickHouse.Enabled() {
		client, err := analytics.NewClient(ctx, cfg.ClickHouse)
		if err == nil {
			closers = append(closers, func() { client.Close() })
			err = client.CreateSchema(ctx)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("clickhouse: %w", err))
		} else {
			sinks = append(sinks, analytics.NewOutcomeRepository(client))
		}
	}

	if cfg.RabbitMQ.Enabled() {
		publisher, err := events.NewRabbitMQPublisher(cfg.RabbitMQ)
		if err != nil {
			errs = append(errs, fmt.Errorf("rabbitmq: %w", err))
		} else {
			closers = append(closers, func() { publisher.Close() })
			sinks = append(sinks, publisher)
		}
	}

	if cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		closers = append(closers, func() { client.Close() })
		sinks = append(sinks, events.NewRedisPublisher(client, cfg.Redis.Stream))
	}

	for _, err := range errs {
		logger.Error("failed to connect to result sink", zap.Error(err))
	}

	if err := report.Dispatch(ctx, logger, result, sinks...); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
