package domain

import (
	"fmt"
)

// Resolution is a transaction that passed every check, with the records it refers
// to attached.
type Resolution struct {
	Transaction Transaction
	Amount      Amount
	User        *User
	Bin         *BinMapping // Only set for CARD payments
}

// RuleChain decides whether a transaction may be applied.
//
// Checks run in a fixed order and the first failing check short-circuits the rest.
// A failing check appends exactly one DECLINED event to the log. An error from a
// check is a structural failure: no event is appended for it.
type RuleChain struct {
	users    *Users
	bins     BinTable
	registry *AccountRegistry
}

// NewRuleChain creates a RuleChain over the given reference data and registry.
func NewRuleChain(users *Users, bins BinTable, registry *AccountRegistry) *RuleChain {
	return &RuleChain{
		users:    users,
		bins:     bins,
		registry: registry,
	}
}

// evaluation is the state shared by the checks of a single transaction.
type evaluation struct {
	chain  *RuleChain
	events *EventLog
	res    *Resolution
}

// check returns a decline reason, or "" when the transaction passes.
type check func(ev *evaluation) (string, error)

var orderedChecks = []check{
	checkTransactionIDUnique,
	checkUserValid,
	checkAccountAvailable,
	checkAmountValid,
	checkPaymentMethod,
}

// Validate runs every check against tx. It returns the resolution when the
// transaction is valid, or nil when it was declined.
func (c *RuleChain) Validate(tx Transaction, events *EventLog) (*Resolution, error) {
	ev := &evaluation{
		chain:  c,
		events: events,
		res:    &Resolution{Transaction: tx},
	}

	for _, fn := range orderedChecks {
		reason, err := fn(ev)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", tx.ID, err)
		}
		if reason != "" {
			events.Decline(tx.ID, reason)
			return nil, nil
		}
	}

	return ev.res, nil
}

func checkTransactionIDUnique(ev *evaluation) (string, error) {
	id := ev.res.Transaction.ID
	if ev.events.Contains(id) {
		return fmt.Sprintf("Transaction %s already processed (id non-unique)", id), nil
	}
	return "", nil
}

func checkUserValid(ev *evaluation) (string, error) {
	tx := ev.res.Transaction
	user, ok := ev.chain.users.Get(tx.UserID)
	if !ok || user.Frozen {
		return fmt.Sprintf("User %s not found in Users", tx.UserID), nil
	}
	ev.res.User = user
	return "", nil
}

func checkAccountAvailable(ev *evaluation) (string, error) {
	tx := ev.res.Transaction
	if !ev.chain.registry.IsAvailable(tx.AccountNumber, tx.UserID) {
		return fmt.Sprintf("Account %s is in use by other user", tx.AccountNumber), nil
	}
	return "", nil
}

func checkAmountValid(ev *evaluation) (string, error) {
	tx := ev.res.Transaction
	amount, ok := tx.Amount()
	if !ok {
		return fmt.Sprintf("Invalid amount %s", tx.RawAmount), nil
	}
	if !amount.IsPositive() {
		return fmt.Sprintf("Invalid amount %s", amount), nil
	}
	ev.res.Amount = amount

	user := ev.res.User
	switch tx.Type {
	case TransactionTypeDeposit:
		return checkLimits(amount, user.DepositMin, user.DepositMax, "deposit"), nil

	case TransactionTypeWithdraw:
		if reason := checkLimits(amount, user.WithdrawMin, user.WithdrawMax, "withdraw"); reason != "" {
			return reason, nil
		}
		if !user.HasSufficientFunds(amount) {
			return fmt.Sprintf("Not enough balance to withdraw %s - balance is too low at %s", amount, user.Balance), nil
		}
		if !user.HasDepositedFrom(tx.AccountNumber) {
			return fmt.Sprintf("Cannot withdraw with a new account %s", tx.AccountNumber), nil
		}
		return "", nil

	default:
		return fmt.Sprintf("Invalid transaction type %s", tx.Type), nil
	}
}

// checkLimits checks the upper bound first, then the lower one.
func checkLimits(amount, lower, upper Amount, direction string) string {
	if amount.GreaterThan(upper) {
		return fmt.Sprintf("Amount %s is over the %s limit of %s", amount, direction, upper)
	}
	if amount.LessThan(lower) {
		return fmt.Sprintf("Amount %s is under the %s limit of %s", amount, direction, lower)
	}
	return ""
}

func checkPaymentMethod(ev *evaluation) (string, error) {
	switch ev.res.Transaction.Method {
	case PaymentMethodTransfer:
		return checkTransfer(ev), nil
	case PaymentMethodCard:
		return checkCard(ev)
	default:
		return fmt.Sprintf("Invalid payment method %s", ev.res.Transaction.Method), nil
	}
}

func checkTransfer(ev *evaluation) string {
	tx := ev.res.Transaction
	if !ValidIBAN(tx.AccountNumber) {
		return fmt.Sprintf("Invalid iban %s", tx.AccountNumber)
	}

	accountCountry := AccountCountry(tx.AccountNumber)
	if accountCountry != ev.res.User.Country {
		return fmt.Sprintf("Invalid account country %s; expected %s", accountCountry, ev.res.User.Country)
	}
	return ""
}

func checkCard(ev *evaluation) (string, error) {
	tx := ev.res.Transaction
	bin, ok := ev.chain.bins.Match(tx.AccountNumber)
	if !ok {
		return fmt.Sprintf("Unable to find card type for account %s", tx.AccountNumber), nil
	}
	if bin.Type != CardTypeDebit {
		return fmt.Sprintf("Only DC cards allowed; got %s", bin.Type), nil
	}
	ev.res.Bin = bin

	user := ev.res.User
	userISO3, err := ISO3Country(user.Country)
	if err != nil {
		return "", fmt.Errorf("user %s: %w", user.ID, err)
	}
	if !SameCountry(bin.Country, user.Country) {
		return fmt.Sprintf("Invalid country %s; expected %s (%s)", bin.Country, user.Country, userISO3), nil
	}
	return "", nil
}
