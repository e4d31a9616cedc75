package domain

import "testing"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "integer", input: "100", want: "100"},
		{name: "keeps scale", input: "100.00", want: "100.00"},
		{name: "negative", input: "-3.5", want: "-3.5"},
		{name: "surrounding spaces", input: " 7.25 ", want: "7.25"},
		{name: "empty", input: "", wantErr: true},
		{name: "letters", input: "abc", wantErr: true},
		{name: "two dots", input: "1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %s", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestAmountArithmetic(t *testing.T) {
	tests := []struct {
		name string
		got  Amount
		want string
	}{
		{name: "add keeps widest scale", got: MustParseAmount("100.00").Add(MustParseAmount("50")), want: "150.00"},
		{name: "add is exact", got: MustParseAmount("0.1").Add(MustParseAmount("0.2")), want: "0.3"},
		{name: "sub", got: MustParseAmount("150").Sub(MustParseAmount("30.5")), want: "119.5"},
		{name: "sub below zero", got: MustParseAmount("150").Sub(MustParseAmount("200")), want: "-50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got.String() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, tt.got)
			}
		})
	}
}

func TestAmountRepeatedAdditionDoesNotDrift(t *testing.T) {
	total := ZeroAmount
	tenth := MustParseAmount("0.1")
	for i := 0; i < 1000; i++ {
		total = total.Add(tenth)
	}
	if !total.Equal(MustParseAmount("100")) {
		t.Errorf("expected 100, got %s", total)
	}
	for i := 0; i < 1000; i++ {
		total = total.Sub(tenth)
	}
	if total.String() != "0.0" {
		t.Errorf("expected 0.0, got %s", total)
	}
}

func TestAmountComparisons(t *testing.T) {
	a := MustParseAmount("10.50")
	b := MustParseAmount("10.5")
	c := MustParseAmount("11")

	if !a.Equal(b) || a.Cmp(b) != 0 {
		t.Errorf("expected %s == %s", a, b)
	}
	if !a.LessThan(c) || a.Cmp(c) >= 0 {
		t.Errorf("expected %s < %s", a, c)
	}
	if !c.GreaterThan(a) {
		t.Errorf("expected %s > %s", c, a)
	}
	if !a.IsPositive() || ZeroAmount.IsPositive() || MustParseAmount("-1").IsPositive() {
		t.Error("IsPositive returned an unexpected result")
	}
}
