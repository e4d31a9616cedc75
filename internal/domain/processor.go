package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrInsufficientFunds is returned when a withdrawal would make the balance negative
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrUnknownTransactionType is returned when a transaction type has no ledger effect
	ErrUnknownTransactionType = errors.New("unknown transaction type")

	// ErrPanic wraps a panic recovered while processing a single transaction
	ErrPanic = errors.New("panic while processing transaction")
)

// Failure is a transaction that could not be processed for structural reasons.
// It produces no event.
type Failure struct {
	TransactionID string
	Err           error
}

// BatchResult is everything a run produced.
type BatchResult struct {
	RunID      uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time
	Events     []Event   // One per processed transaction, in processing order
	Failures   []Failure // Transactions isolated because of structural failures
	Users      []*User   // Users in input order, with final balances
}

// Summary counts the outcomes of a run.
type Summary struct {
	Approved int
	Declined int
	Failed   int
}

// Summary returns the outcome counts of the run.
func (r *BatchResult) Summary() Summary {
	var s Summary
	for _, e := range r.Events {
		switch e.Status {
		case EventStatusApproved:
			s.Approved++
		case EventStatusDeclined:
			s.Declined++
		}
	}
	s.Failed = len(r.Failures)
	return s
}

// Processor runs a batch of transactions against the reference data.
// It owns the users and the account registry for the lifetime of a run.
// Every Run starts from the opening balances the users had when the
// Processor was created.
type Processor struct {
	users    *Users
	opening  []Amount
	bins     BinTable
	registry *AccountRegistry
	logger   *zap.Logger
	now      func() time.Time
}

// NewProcessor creates a new instance of Processor.
// Pass nil for logger if nothing should be logged.
func NewProcessor(users *Users, bins BinTable, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	opening := make([]Amount, 0, users.Len())
	for _, u := range users.All() {
		opening = append(opening, u.Balance)
	}
	return &Processor{
		users:    users,
		opening:  opening,
		bins:     bins,
		registry: NewAccountRegistry(),
		logger:   logger,
		now:      time.Now,
	}
}

// Registry exposes the account ownership registry of the current run.
func (p *Processor) Registry() *AccountRegistry {
	return p.registry
}

// Run processes transactions strictly in input order, exactly once each.
//
// For each transaction:
// 1. Run the rule chain; a decline appends its event and ends processing
// 2. Apply the approved transaction to the ledger, which appends the approval
//
// A structural failure is recorded and logged, and processing continues with the
// next transaction. The users in a result are shared with the Processor and are
// reset by the next Run.
func (p *Processor) Run(transactions []Transaction) *BatchResult {
	p.registry.Reset()
	for i, u := range p.users.All() {
		u.reset(p.opening[i])
	}

	events := NewEventLog()
	chain := NewRuleChain(p.users, p.bins, p.registry)
	ledger := NewLedger(p.registry, events)

	result := &BatchResult{
		RunID:     uuid.New(),
		StartedAt: p.now().UTC(),
	}
	logger := p.logger.With(zap.String("run_id", result.RunID.String()))

	for _, tx := range transactions {
		if err := p.process(chain, ledger, events, tx); err != nil {
			logger.Error("transaction failed",
				zap.String("transaction_id", tx.ID),
				zap.Error(err),
			)
			result.Failures = append(result.Failures, Failure{TransactionID: tx.ID, Err: err})
		}
	}

	result.FinishedAt = p.now().UTC()
	result.Events = events.Events()
	result.Users = p.users.All()

	summary := result.Summary()
	logger.Info("batch processed",
		zap.Int("transactions", len(transactions)),
		zap.Int("approved", summary.Approved),
		zap.Int("declined", summary.Declined),
		zap.Int("failed", summary.Failed),
		zap.Int("bound_accounts", p.registry.Len()),
		zap.Duration("elapsed", result.FinishedAt.Sub(result.StartedAt)),
	)

	return result
}

// process handles one transaction and converts a panic into an error so a single
// bad row never aborts the batch.
func (p *Processor) process(chain *RuleChain, ledger *Ledger, events *EventLog, tx Transaction) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transaction %s: %w: %v", tx.ID, ErrPanic, r)
		}
	}()

	res, err := chain.Validate(tx, events)
	if err != nil {
		return err
	}
	if res == nil {
		p.logger.Debug("transaction declined", zap.String("transaction_id", tx.ID))
		return nil
	}

	return ledger.Apply(res)
}
