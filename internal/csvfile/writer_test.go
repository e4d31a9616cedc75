package csvfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spbu-ds-practicum-2025/example-project/services/transaction-processor/internal/domain"
)

func TestWriteBalances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balances.csv")
	users := []*domain.User{
		domain.NewUser("2", "bob", domain.MustParseAmount("150.00"), "EE", false,
			domain.ZeroAmount, domain.ZeroAmount, domain.ZeroAmount, domain.ZeroAmount),
		domain.NewUser("1", "alice", domain.MustParseAmount("-0.5"), "LT", false,
			domain.ZeroAmount, domain.ZeroAmount, domain.ZeroAmount, domain.ZeroAmount),
	}

	if err := WriteBalances(path, users); err != nil {
		t.Fatalf("WriteBalances: %v", err)
	}

	want := "user_id,balance\n2,150.00\n1,-0.5\n"
	if got := readFile(t, path); got != want {
		t.Errorf("expected\n%s\ngot\n%s", want, got)
	}
}

func TestWriteEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.csv")
	events := []domain.Event{
		{TransactionID: "t1", Status: domain.EventStatusApproved, Message: domain.ApprovedMessage},
		{TransactionID: "t2", Status: domain.EventStatusDeclined, Message: "Invalid account country LT; expected EE"},
		{TransactionID: "t3", Status: domain.EventStatusDeclined, Message: "Amount 1,000 is over"},
	}

	if err := WriteEvents(path, events); err != nil {
		t.Fatalf("WriteEvents: %v", err)
	}

	want := "transaction_id,status,message\n" +
		"t1,APPROVED,OK\n" +
		"t2,DECLINED,Invalid account country LT; expected EE\n" +
		"t3,DECLINED,\"Amount 1,000 is over\"\n"
	if got := readFile(t, path); got != want {
		t.Errorf("expected\n%s\ngot\n%s", want, got)
	}
}

func TestWriteEvents_UnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "events.csv")
	if err := WriteEvents(path, nil); err == nil {
		t.Error("expected error for unwritable path")
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}
