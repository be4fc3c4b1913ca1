package margin

// Converter turns an amount in a source currency into USD. Satisfied by
// *rates.Cache.
type Converter interface {
	ToUSD(amount float64, currency string) (float64, error)
}

// Result is the USD-normalized margin for one assignment or timesheet.
type Result struct {
	InternalRateUSD float64 `json:"internal_rate_usd"`
	MarginUSD       float64 `json:"margin_usd"`
	MarginPercent   float64 `json:"margin_percent"`
}

// Compute derives the margin between an internal cost rate (any supported
// currency) and an external bill rate (always USD). Used for live form
// previews with current rates; persisted records carry their own frozen
// internal_day_rate_usd and must be displayed from that field, never
// re-converted here.
func Compute(internalRate float64, internalCurrency string, externalRateUSD float64, fx Converter) (Result, error) {
	internalUSD, err := fx.ToUSD(internalRate, internalCurrency)
	if err != nil {
		return Result{}, err
	}
	return FromFrozen(internalUSD, externalRateUSD), nil
}

// FromFrozen computes margin figures from an already-normalized internal
// USD rate, e.g. the rate locked on a stored assignment.
func FromFrozen(internalRateUSD, externalRateUSD float64) Result {
	marginUSD := externalRateUSD - internalRateUSD
	marginPercent := 0.0
	if externalRateUSD > 0 {
		marginPercent = marginUSD / externalRateUSD * 100
	}
	return Result{
		InternalRateUSD: internalRateUSD,
		MarginUSD:       marginUSD,
		MarginPercent:   marginPercent,
	}
}
