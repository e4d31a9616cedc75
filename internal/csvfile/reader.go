// Package csvfile reads the batch input files and writes the two output files.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spbu-ds-practicum-2025/example-project/services/transaction-processor/internal/domain"
)

const (
	userFields        = 9
	transactionFields = 6
	binFields         = 5
)

var (
	// ErrFieldCount is returned for a row with the wrong number of fields
	ErrFieldCount = errors.New("wrong number of fields")

	// ErrInvalidFlag is returned when a 0/1 flag holds anything else
	ErrInvalidFlag = errors.New("invalid flag")
)

// RowError describes a single input row that could not be used.
type RowError struct {
	Path string
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// ReadUsers loads the users file. Any malformed row fails the whole read.
func ReadUsers(path string) ([]*domain.User, error) {
	var users []*domain.User

	err := readRows(path, userFields, func(line int, f []string, rowErr error) error {
		if rowErr != nil {
			return &RowError{Path: path, Line: line, Err: rowErr}
		}
		user, err := parseUser(f)
		if err != nil {
			return &RowError{Path: path, Line: line, Err: err}
		}
		users = append(users, user)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return users, nil
}

func parseUser(f []string) (*domain.User, error) {
	amounts := make([]domain.Amount, 0, 5)
	for _, i := range []int{2, 5, 6, 7, 8} {
		a, err := domain.ParseAmount(f[i])
		if err != nil {
			return nil, err
		}
		amounts = append(amounts, a)
	}

	var frozen bool
	switch f[4] {
	case "0":
		frozen = false
	case "1":
		frozen = true
	default:
		return nil, fmt.Errorf("frozen %q: %w", f[4], ErrInvalidFlag)
	}

	return domain.NewUser(f[0], f[1], amounts[0], f[3], frozen,
		amounts[1], amounts[2], amounts[3], amounts[4]), nil
}

// ReadBinMappings loads the BIN table. Any malformed row fails the whole read.
func ReadBinMappings(path string) (domain.BinTable, error) {
	var bins domain.BinTable

	err := readRows(path, binFields, func(line int, f []string, rowErr error) error {
		if rowErr != nil {
			return &RowError{Path: path, Line: line, Err: rowErr}
		}
		bin, err := domain.NewBinMapping(f[0], f[1], f[2], f[3], f[4])
		if err != nil {
			return &RowError{Path: path, Line: line, Err: err}
		}
		bins = append(bins, bin)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return bins, nil
}

// ReadTransactions loads the transactions file.
// Rows with the wrong number of fields are skipped and returned as row errors;
// only an unreadable file fails the read.
func ReadTransactions(path string) ([]domain.Transaction, []*RowError, error) {
	var (
		txs     []domain.Transaction
		skipped []*RowError
	)

	err := readRows(path, transactionFields, func(line int, f []string, rowErr error) error {
		if rowErr != nil {
			skipped = append(skipped, &RowError{Path: path, Line: line, Err: rowErr})
			return nil
		}
		txs = append(txs, domain.NewTransaction(
			f[0],
			f[1],
			domain.TransactionType(f[2]),
			f[3],
			domain.PaymentMethod(f[4]),
			f[5],
		))
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return txs, skipped, nil
}

// readRows calls fn for every row after the header. rowErr is set for rows that
// do not have exactly fields fields; fn decides whether that is fatal.
func readRows(path string, fields int, fn func(line int, f []string, rowErr error) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.ReuseRecord = true

	if _, err := r.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		line, _ := r.FieldPos(0)

		if len(record) != fields {
			rowErr := fmt.Errorf("%w: expected %d, got %d", ErrFieldCount, fields, len(record))
			if err := fn(line, nil, rowErr); err != nil {
				return err
			}
			continue
		}

		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		if err := fn(line, record, nil); err != nil {
			return err
		}
	}
}
