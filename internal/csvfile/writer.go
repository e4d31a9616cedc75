package csvfile

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/spbu-ds-practicum-2025/example-project/services/transaction-processor/internal/domain"
)

var (
	balancesHeader = []string{"user_id", "balance"}
	eventsHeader   = []string{"transaction_id", "status", "message"}
)

// WriteBalances writes one row per user with the final balance, in the given order.
func WriteBalances(path string, users []*domain.User) error {
	return writeFile(path, balancesHeader, func(w *csv.Writer) error {
		for _, u := range users {
			if err := w.Write([]string{u.ID, u.Balance.String()}); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteEvents writes one row per event, in processing order.
func WriteEvents(path string, events []domain.Event) error {
	return writeFile(path, eventsHeader, func(w *csv.Writer) error {
		for _, e := range events {
			if err := w.Write([]string{e.TransactionID, string(e.Status), e.Message}); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeFile(path string, header []string, rows func(w *csv.Writer) error) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := rows(w); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
