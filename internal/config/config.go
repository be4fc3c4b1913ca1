package config

const (
	DefaultTimeZone = "UTC"

	// External rate source returning {"rates": {"INR": 83.1, ...}} expressed
	// as foreign-currency units per 1 USD.
	DefaultRateURL      = "https://open.er-api.com/v6/latest/USD"
	DefaultRateSchedule = "0 7 * * *"

	// Billing roller advances next_billing_date on active subscriptions.
	DefaultBillingSchedule = "30 0 * * *"

	// Working-days assumption used by the contractor forecast projector.
	WorkingDaysPerMonth = 21.0

	// Sentinel returned for cash runway when burn rate is zero.
	InfiniteRunway = 999.0
)
