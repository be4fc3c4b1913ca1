package rates

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.0001
}

func TestToUSDIdentity(t *testing.T) {
	c := NewStatic(map[string]float64{"USD": 1.0, "INR": 83.0})
	for _, x := range []float64{0, 1, -250.75, 99999.99} {
		got, err := c.ToUSD(x, "USD")
		if err != nil {
			t.Fatalf("ToUSD(%v, USD): %v", x, err)
		}
		if got != x {
			t.Fatalf("ToUSD(%v, USD) = %v, want identity", x, got)
		}
	}
}

func TestToUSDPerUSDConvention(t *testing.T) {
	c := NewStatic(map[string]float64{"INR": 83.0})
	got, err := c.ToUSD(8300, "INR")
	if err != nil {
		t.Fatalf("ToUSD: %v", err)
	}
	if !almostEqual(got, 100) {
		t.Fatalf("8300 INR at 83/USD = %v, want 100", got)
	}
}

func TestToUSDNegativeAmountForReversal(t *testing.T) {
	c := NewStatic(map[string]float64{"EUR": 0.92})
	got, err := c.ToUSD(-92, "EUR")
	if err != nil {
		t.Fatalf("ToUSD: %v", err)
	}
	if !almostEqual(got, -100) {
		t.Fatalf("-92 EUR = %v, want -100", got)
	}
}

func TestToUSDUnknownCurrencyFailsLoudly(t *testing.T) {
	c := NewStatic(map[string]float64{"USD": 1.0})
	_, err := c.ToUSD(100, "XXX")
	if err == nil {
		t.Fatal("expected error for unknown currency")
	}
	var invalid *ErrInvalidCurrency
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidCurrency, got %T", err)
	}
	if invalid.Code != "XXX" {
		t.Fatalf("error code = %q, want XXX", invalid.Code)
	}
}

func TestToUSDMissingRateFallsBackToParity(t *testing.T) {
	// SGD is supported but absent from this table: degrade to rate 1.0.
	c := NewStatic(map[string]float64{"USD": 1.0})
	got, err := c.ToUSD(500, "SGD")
	if err != nil {
		t.Fatalf("ToUSD: %v", err)
	}
	if got != 500 {
		t.Fatalf("missing-rate fallback = %v, want 500", got)
	}
}

func TestToUSDOrSameSwallowsUnknownCurrency(t *testing.T) {
	c := NewStatic(map[string]float64{"USD": 1.0})
	if got := c.ToUSDOrSame(42, "???"); got != 42 {
		t.Fatalf("ToUSDOrSame = %v, want 42", got)
	}
}

func TestNewSeedsFallbackTable(t *testing.T) {
	c := New("")
	got, err := c.ToUSD(83, "INR")
	if err != nil {
		t.Fatalf("ToUSD: %v", err)
	}
	if !almostEqual(got, 1) {
		t.Fatalf("seeded INR rate gave %v, want 1", got)
	}
	if !c.RefreshedAt().IsZero() {
		t.Fatal("fresh cache should report zero refresh time")
	}
}
