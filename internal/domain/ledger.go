package domain

import "fmt"

// Ledger applies validated transactions to user balances.
type Ledger struct {
	registry *AccountRegistry
	events   *EventLog
}

// NewLedger creates a Ledger that records ownership in registry and approvals in events.
func NewLedger(registry *AccountRegistry, events *EventLog) *Ledger {
	return &Ledger{
		registry: registry,
		events:   events,
	}
}

// Apply mutates the owning user in place, binds the account number to the user
// and appends the APPROVED event.
func (l *Ledger) Apply(res *Resolution) error {
	tx := res.Transaction

	switch tx.Type {
	case TransactionTypeDeposit:
		res.User.Credit(res.Amount, tx.AccountNumber)
	case TransactionTypeWithdraw:
		if !res.User.HasSufficientFunds(res.Amount) {
			return fmt.Errorf("transaction %s: %w", tx.ID, ErrInsufficientFunds)
		}
		res.User.Debit(res.Amount)
	default:
		return fmt.Errorf("transaction %s: %w: %s", tx.ID, ErrUnknownTransactionType, tx.Type)
	}

	l.registry.Bind(tx.AccountNumber, res.User.ID)
	l.events.Approve(tx.ID)
	return nil
}
