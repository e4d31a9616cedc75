package domain

import "testing"

const (
	ibanEE = "EE382200221020145685"
	ibanLT = "LT601010012345678901"
	ibanDE = "DE89370400440532013000"
)

func newTestUser(id, country, balance string, frozen bool) *User {
	return NewUser(id, "user-"+id, MustParseAmount(balance), country, frozen,
		MustParseAmount("10"), MustParseAmount("500"),
		MustParseAmount("10"), MustParseAmount("300"),
	)
}

func newTestBins(t *testing.T) BinTable {
	t.Helper()

	rows := [][5]string{
		{"Visa EE debit", "4000000000", "4099999999", "DC", "EST"},
		{"Visa EE credit", "4100000000", "4199999999", "CC", "EST"},
		{"Visa LT debit", "4200000000", "4299999999", "DC", "LTU"},
	}

	bins := make(BinTable, 0, len(rows))
	for _, r := range rows {
		b, err := NewBinMapping(r[0], r[1], r[2], r[3], r[4])
		if err != nil {
			t.Fatalf("NewBinMapping(%v): %v", r, err)
		}
		bins = append(bins, b)
	}
	return bins
}

func deposit(id, userID, amount string, method PaymentMethod, account string) Transaction {
	return NewTransaction(id, userID, TransactionTypeDeposit, amount, method, account)
}

func withdraw(id, userID, amount string, method PaymentMethod, account string) Transaction {
	return NewTransaction(id, userID, TransactionTypeWithdraw, amount, method, account)
}
