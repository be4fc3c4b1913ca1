package distributions

import (
	"testing"

	"github.com/shopspring/decimal"
)

func pct(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestSplitSixtyForty(t *testing.T) {
	partners := []Partner{
		{ID: "a", Name: "Pat", SharePercentage: pct(60), Active: true},
		{ID: "b", Name: "Quinn", SharePercentage: pct(40), Active: true},
	}
	shares, err := Split(decimal.NewFromInt(10000), partners)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(shares) != 2 {
		t.Fatalf("got %d shares, want 2", len(shares))
	}
	if !shares[0].Amount.Equal(decimal.NewFromInt(6000)) {
		t.Fatalf("first share = %s, want 6000", shares[0].Amount)
	}
	if !shares[1].Amount.Equal(decimal.NewFromInt(4000)) {
		t.Fatalf("second share = %s, want 4000", shares[1].Amount)
	}
}

func TestSplitNoRoundingLeakage(t *testing.T) {
	partners := []Partner{
		{ID: "a", Name: "A", SharePercentage: decimal.RequireFromString("33.33"), Active: true},
		{ID: "b", Name: "B", SharePercentage: decimal.RequireFromString("33.33"), Active: true},
		{ID: "c", Name: "C", SharePercentage: decimal.RequireFromString("33.34"), Active: true},
	}
	amount := decimal.RequireFromString("1000.01")
	shares, err := Split(amount, partners)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s.Amount)
	}
	if !sum.Equal(amount) {
		t.Fatalf("shares sum to %s, want exactly %s", sum, amount)
	}
}

func TestSplitRejectsSharesNotTotalingHundred(t *testing.T) {
	partners := []Partner{
		{ID: "a", Name: "A", SharePercentage: pct(50), Active: true},
		{ID: "b", Name: "B", SharePercentage: pct(40), Active: true},
	}
	if _, err := Split(decimal.NewFromInt(100), partners); err == nil {
		t.Fatal("expected error for shares totaling 90%")
	}
}

func TestSplitIgnoresInactivePartners(t *testing.T) {
	partners := []Partner{
		{ID: "a", Name: "A", SharePercentage: pct(100), Active: true},
		{ID: "b", Name: "B", SharePercentage: pct(25), Active: false},
	}
	shares, err := Split(decimal.NewFromInt(500), partners)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if len(shares) != 1 || !shares[0].Amount.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("shares = %+v, want single 500 share", shares)
	}
}

func TestSplitNoActivePartners(t *testing.T) {
	if _, err := Split(decimal.NewFromInt(100), nil); err == nil {
		t.Fatal("expected error with no partners")
	}
}
