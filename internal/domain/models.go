package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// TransactionType is the direction of a transaction.
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "DEPOSIT"
	TransactionTypeWithdraw TransactionType = "WITHDRAW"
)

// PaymentMethod is how the funds move.
type PaymentMethod string

const (
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodCard     PaymentMethod = "CARD"
)

// CardTypeDebit is the only card type accepted for CARD payments.
const CardTypeDebit = "DC"

// EventStatus is the outcome of a processed transaction.
type EventStatus string

const (
	// EventStatusApproved indicates the transaction was applied to the balance
	EventStatusApproved EventStatus = "APPROVED"

	// EventStatusDeclined indicates a business rule rejected the transaction
	EventStatusDeclined EventStatus = "DECLINED"
)

// ApprovedMessage is the message carried by every approval event.
const ApprovedMessage = "OK"

// User holds the account holder, their balance and their per-direction limits.
// A User is mutated in place by every approved transaction.
type User struct {
	ID          string // Unique identifier of the user
	Name        string // Display name
	Balance     Amount // Current balance
	Country     string // ISO 3166-1 alpha-2 country code
	Frozen      bool   // Frozen users cannot transact
	DepositMin  Amount
	DepositMax  Amount
	WithdrawMin Amount
	WithdrawMax Amount

	// successfulDeposits records account numbers with at least one approved deposit.
	successfulDeposits map[string]struct{}
}

// NewUser creates a User with no deposit history.
func NewUser(id, name string, balance Amount, country string, frozen bool, depositMin, depositMax, withdrawMin, withdrawMax Amount) *User {
	return &User{
		ID:                 id,
		Name:               name,
		Balance:            balance,
		Country:            country,
		Frozen:             frozen,
		DepositMin:         depositMin,
		DepositMax:         depositMax,
		WithdrawMin:        withdrawMin,
		WithdrawMax:        withdrawMax,
		successfulDeposits: make(map[string]struct{}),
	}
}

// Credit adds amount to the balance and marks accountNumber as deposited from.
func (u *User) Credit(amount Amount, accountNumber string) {
	u.Balance = u.Balance.Add(amount)
	if u.successfulDeposits == nil {
		u.successfulDeposits = make(map[string]struct{})
	}
	u.successfulDeposits[accountNumber] = struct{}{}
}

// Debit subtracts amount from the balance.
// Callers must check HasSufficientFunds first; the balance is never clamped.
func (u *User) Debit(amount Amount) {
	u.Balance = u.Balance.Sub(amount)
}

// HasSufficientFunds checks if the balance covers the given amount.
func (u *User) HasSufficientFunds(amount Amount) bool {
	return u.Balance.Cmp(amount) >= 0
}

// HasDepositedFrom reports whether a deposit from accountNumber was ever approved.
func (u *User) HasDepositedFrom(accountNumber string) bool {
	_, ok := u.successfulDeposits[accountNumber]
	return ok
}

// reset puts the user back to balance with no deposit history.
func (u *User) reset(balance Amount) {
	u.Balance = balance
	u.successfulDeposits = make(map[string]struct{})
}

// Transaction is one row of the input batch.
type Transaction struct {
	ID            string
	UserID        string
	Type          TransactionType
	RawAmount     string // Amount exactly as read
	Method        PaymentMethod
	AccountNumber string

	amount      Amount
	amountValid bool
}

// NewTransaction creates a Transaction, parsing the amount once.
// An unparsable amount is kept and later declined by the amount check.
func NewTransaction(id, userID string, txType TransactionType, rawAmount string, method PaymentMethod, accountNumber string) Transaction {
	tx := Transaction{
		ID:            id,
		UserID:        userID,
		Type:          txType,
		RawAmount:     rawAmount,
		Method:        method,
		AccountNumber: accountNumber,
	}
	if a, err := ParseAmount(rawAmount); err == nil {
		tx.amount = a
		tx.amountValid = true
	}
	return tx
}

// Amount returns the parsed amount and whether parsing succeeded.
func (t Transaction) Amount() (Amount, bool) {
	return t.amount, t.amountValid
}

// BinMapping classifies card numbers by their leading digits.
type BinMapping struct {
	Name      string
	RangeFrom string
	RangeTo   string
	Type      string // Card type, e.g. "DC" or "CC"
	Country   string // Issuing country, usually ISO 3166-1 alpha-3

	prefixLen int
	from, to  uint64
}

// NewBinMapping creates a BinMapping. Both bounds must be numeric and of equal length.
func NewBinMapping(name, rangeFrom, rangeTo, cardType, country string) (BinMapping, error) {
	if len(rangeFrom) == 0 || len(rangeFrom) != len(rangeTo) {
		return BinMapping{}, fmt.Errorf("bin range %q..%q: bounds must be non-empty and of equal length", rangeFrom, rangeTo)
	}

	from, err := strconv.ParseUint(rangeFrom, 10, 64)
	if err != nil {
		return BinMapping{}, fmt.Errorf("bin range start %q: %w", rangeFrom, err)
	}
	to, err := strconv.ParseUint(rangeTo, 10, 64)
	if err != nil {
		return BinMapping{}, fmt.Errorf("bin range end %q: %w", rangeTo, err)
	}

	return BinMapping{
		Name:      name,
		RangeFrom: rangeFrom,
		RangeTo:   rangeTo,
		Type:      cardType,
		Country:   country,
		prefixLen: len(rangeFrom),
		from:      from,
		to:        to,
	}, nil
}

// Contains reports whether the leading digits of accountNumber fall inside the range.
// Numbers that are too short or carry non-digits in the prefix never match.
func (b BinMapping) Contains(accountNumber string) bool {
	if b.prefixLen == 0 || len(accountNumber) < b.prefixLen {
		return false
	}

	prefix := accountNumber[:b.prefixLen]
	if strings.TrimLeft(prefix, "0123456789") != "" {
		return false
	}

	n, err := strconv.ParseUint(prefix, 10, 64)
	if err != nil {
		return false
	}
	return n >= b.from && n <= b.to
}

// Event is the outcome record of one processed transaction.
type Event struct {
	TransactionID string
	Status        EventStatus
	Message       string
}
