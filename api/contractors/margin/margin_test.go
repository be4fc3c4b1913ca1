package margin

import (
	"math"
	"testing"

	"OpsLedger/api/fx/rates"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

func TestComputeMultiCurrency(t *testing.T) {
	fx := rates.NewStatic(map[string]float64{"INR": 83.0})
	got, err := Compute(8000, "INR", 300, fx)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !almostEqual(got.InternalRateUSD, 96.39) {
		t.Fatalf("internal rate = %v, want ~96.39", got.InternalRateUSD)
	}
	if !almostEqual(got.MarginUSD, 203.61) {
		t.Fatalf("margin = %v, want ~203.61", got.MarginUSD)
	}
	if !almostEqual(got.MarginPercent, 67.87) {
		t.Fatalf("margin %% = %v, want ~67.87", got.MarginPercent)
	}
}

func TestComputeZeroExternalRateGuard(t *testing.T) {
	fx := rates.NewStatic(map[string]float64{"USD": 1.0})
	got, err := Compute(100, "USD", 0, fx)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if got.MarginPercent != 0 {
		t.Fatalf("margin %% = %v, want 0 (not NaN/Inf)", got.MarginPercent)
	}
	if math.IsNaN(got.MarginPercent) || math.IsInf(got.MarginPercent, 0) {
		t.Fatal("margin percent must never be NaN or Inf")
	}
	if got.MarginUSD != -100 {
		t.Fatalf("margin USD = %v, want -100", got.MarginUSD)
	}
}

func TestComputeUnknownCurrencySurfacesError(t *testing.T) {
	fx := rates.NewStatic(nil)
	if _, err := Compute(100, "ZZZ", 200, fx); err == nil {
		t.Fatal("expected error for unknown currency")
	}
}

func TestFromFrozenDoesNotTouchConverter(t *testing.T) {
	// Stored records use their locked USD rate verbatim.
	got := FromFrozen(120, 200)
	if got.MarginUSD != 80 {
		t.Fatalf("margin = %v, want 80", got.MarginUSD)
	}
	if !almostEqual(got.MarginPercent, 40) {
		t.Fatalf("margin %% = %v, want 40", got.MarginPercent)
	}
}
