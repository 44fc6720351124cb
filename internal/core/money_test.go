package core

import (
	"encoding/json"
	"math"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"29.50", 2950, true},
		{"29,5", 2950, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"0", 0, true},
		{"-1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestMoneyTimesAndString(t *testing.T) {
	rate := Money{Cents: 2950}
	if got := rate.Times(3); got.Cents != 8850 {
		t.Fatalf("Times(3) = %d, want 8850", got.Cents)
	}
	if got := rate.Times(3).String(); got != "88.50" {
		t.Fatalf("String() = %q, want 88.50", got)
	}
	if got := (Money{}).Times(5).String(); got != "0.00" {
		t.Fatalf("zero String() = %q", got)
	}
	if got := rate.Add(Money{Cents: 50}).Dollars(); got != 30.0 {
		t.Fatalf("Add/Dollars = %v", got)
	}
}

func TestMoneySaturates(t *testing.T) {
	rate := Money{Cents: 2950}
	if got := rate.Times(math.MaxInt64 / 1000); got.Cents != math.MaxInt64 {
		t.Fatalf("Times overflow = %d, want MaxInt64", got.Cents)
	}
	if got := rate.Times(-(math.MaxInt64 / 1000)); got.Cents != math.MinInt64 {
		t.Fatalf("Times negative overflow = %d, want MinInt64", got.Cents)
	}
	if got := (Money{Cents: math.MaxInt64 - 10}).Add(Money{Cents: 100}); got.Cents != math.MaxInt64 {
		t.Fatalf("Add overflow = %d, want MaxInt64", got.Cents)
	}
	if got := (Money{Cents: math.MinInt64 + 10}).Add(Money{Cents: -100}); got.Cents != math.MinInt64 {
		t.Fatalf("Add underflow = %d, want MinInt64", got.Cents)
	}
	if got := rate.Times(3).Add(Money{Cents: -850}); got.Cents != 8000 {
		t.Fatalf("in-range arithmetic = %d, want 8000", got.Cents)
	}
}

func TestMoneyJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Revenue Money `json:"revenue"`
	}{Money{Cents: 8850}})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"revenue":88.50}` {
		t.Fatalf("marshal = %s", b)
	}

	var got struct {
		Revenue Money `json:"revenue"`
	}
	if err := json.Unmarshal([]byte(`{"revenue":"29.5"}`), &got); err != nil {
		t.Fatal(err)
	}
	if got.Revenue.Cents != 2950 {
		t.Fatalf("unmarshal = %d", got.Revenue.Cents)
	}
	if err := json.Unmarshal([]byte(`{"revenue":"abc"}`), &got); err == nil {
		t.Fatal("expected error for non-numeric amount")
	}
}
