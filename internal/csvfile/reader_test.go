package csvfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spbu-ds-practicum-2025/example-project/services/transaction-processor/internal/domain"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestReadUsers(t *testing.T) {
	path := writeTemp(t, "users.csv",
		"userId,username,balance,country,frozen,depositMin,depositMax,withdrawMin,withdrawMax\n"+
			"1,alice,100.00,EE,0,10,500,10,300\n"+
			"2,bob,0,LT,1,1,1000,1,1000\n")

	users, err := ReadUsers(path)
	if err != nil {
		t.Fatalf("ReadUsers: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}

	alice := users[0]
	if alice.ID != "1" || alice.Name != "alice" || alice.Country != "EE" || alice.Frozen {
		t.Errorf("unexpected user %+v", alice)
	}
	if alice.Balance.String() != "100.00" {
		t.Errorf("expected balance 100.00, got %s", alice.Balance)
	}
	if alice.DepositMax.String() != "500" || alice.WithdrawMin.String() != "10" {
		t.Errorf("unexpected limits %+v", alice)
	}
	if !users[1].Frozen {
		t.Error("expected bob to be frozen")
	}
}

func TestReadUsers_MalformedRowIsFatal(t *testing.T) {
	tests := []struct {
		name    string
		row     string
		wantErr error
	}{
		{name: "missing field", row: "1,alice,100,EE,0,10,500,10\n", wantErr: ErrFieldCount},
		{name: "bad flag", row: "1,alice,100,EE,yes,10,500,10,300\n", wantErr: ErrInvalidFlag},
		{name: "bad balance", row: "1,alice,lots,EE,0,10,500,10,300\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTemp(t, "users.csv", "header\n"+tt.row)

			_, err := ReadUsers(path)
			if err == nil {
				t.Fatal("expected error")
			}

			var rowErr *RowError
			if !errors.As(err, &rowErr) {
				t.Fatalf("expected *RowError, got %T", err)
			}
			if rowErr.Line != 2 {
				t.Errorf("expected line 2, got %d", rowErr.Line)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestReadUsers_MissingFile(t *testing.T) {
	_, err := ReadUsers(filepath.Join(t.TempDir(), "missing.csv"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestReadBinMappings(t *testing.T) {
	path := writeTemp(t, "bins.csv",
		"name,rangeFrom,rangeTo,type,country\n"+
			"Visa,4000000000,4099999999,DC,EST\n"+
			"Master,5100000000,5199999999,CC,LTU\n")

	bins, err := ReadBinMappings(path)
	if err != nil {
		t.Fatalf("ReadBinMappings: %v", err)
	}
	if len(bins) != 2 {
		t.Fatalf("expected 2 mappings, got %d", len(bins))
	}
	bin, ok := bins.Match("5105105105105100")
	if !ok || bin.Name != "Master" || bin.Type != "CC" || bin.Country != "LTU" {
		t.Errorf("unexpected match %+v", bin)
	}

	path = writeTemp(t, "bad.csv", "header\nVisa,400,40999,DC,EST\n")
	if _, err := ReadBinMappings(path); err == nil {
		t.Error("expected error for unequal range bounds")
	}
}

func TestReadTransactions_SkipsMalformedRows(t *testing.T) {
	path := writeTemp(t, "transactions.csv",
		"transactionId,userId,type,amount,method,accountNumber\n"+
			"t1,1,DEPOSIT,50.00,TRANSFER,EE382200221020145685\n"+
			"t2,1,DEPOSIT,50.00\n"+
			"t3,1,WITHDRAW,abc,CARD,4011111111111111\n")

	txs, skipped, err := ReadTransactions(path)
	if err != nil {
		t.Fatalf("ReadTransactions: %v", err)
	}

	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	if txs[0].ID != "t1" || txs[0].Type != domain.TransactionTypeDeposit || txs[0].Method != domain.PaymentMethodTransfer {
		t.Errorf("unexpected transaction %+v", txs[0])
	}
	if _, ok := txs[1].Amount(); ok || txs[1].RawAmount != "abc" {
		t.Errorf("expected unparsable amount to be kept, got %+v", txs[1])
	}

	if len(skipped) != 1 {
		t.Fatalf("expected 1 skipped row, got %d", len(skipped))
	}
	if skipped[0].Line != 3 || !errors.Is(skipped[0], ErrFieldCount) {
		t.Errorf("unexpected row error %v", skipped[0])
	}
}

func TestReadTransactions_TrimsFields(t *testing.T) {
	path := writeTemp(t, "transactions.csv",
		"transactionId,userId,type,amount,method,accountNumber\n"+
			" t1 , 1 ,DEPOSIT, 50.00 ,TRANSFER, EE382200221020145685 \n")

	txs, _, err := ReadTransactions(path)
	if err != nil {
		t.Fatalf("ReadTransactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(txs))
	}

	tx := txs[0]
	if tx.ID != "t1" || tx.UserID != "1" || tx.AccountNumber != "EE382200221020145685" {
		t.Errorf("expected trimmed fields, got %+v", tx)
	}
	if amount, ok := tx.Amount(); !ok || amount.String() != "50.00" {
		t.Errorf("expected amount 50.00, got %+v", tx)
	}
}

func TestReadTransactions_EmptyFile(t *testing.T) {
	txs, skipped, err := ReadTransactions(writeTemp(t, "empty.csv", ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txs) != 0 || len(skipped) != 0 {
		t.Errorf("expected nothing, got %d transactions and %d skipped", len(txs), len(skipped))
	}
}
