package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Rates are stored as foreign-currency units per 1 USD, so the USD value
// of an amount is amount / rate. This matches the convention of the
// external rate source.

// Supported currency codes. Anything else is a data-entry error and is
// rejected loudly at the boundary.
var supported = map[string]bool{
	"USD": true,
	"INR": true,
	"EUR": true,
	"GBP": true,
	"CAD": true,
	"AUD": true,
	"SGD": true,
}

// Fallback rates used to seed the cache so conversion works before the
// first successful refresh.
var fallbackPerUSD = map[string]float64{
	"USD": 1.0,
	"INR": 83.0,
	"EUR": 0.92,
	"GBP": 0.79,
	"CAD": 1.36,
	"AUD": 1.52,
	"SGD": 1.34,
}

// ErrInvalidCurrency reports a currency code outside the supported set.
type ErrInvalidCurrency struct {
	Code string
}

func (e *ErrInvalidCurrency) Error() string {
	return fmt.Sprintf("invalid currency code: %q", e.Code)
}

// Cache holds the session rate table. Reads are concurrent-safe; writes
// only happen on Refresh.
type Cache struct {
	mu        sync.RWMutex
	perUSD    map[string]float64
	sourceURL string
	refreshed time.Time
	client    *http.Client
}

// New returns a cache seeded with the static fallback table. Callers are
// expected to Refresh once at startup and then on schedule.
func New(sourceURL string) *Cache {
	seed := make(map[string]float64, len(fallbackPerUSD))
	for k, v := range fallbackPerUSD {
		seed[k] = v
	}
	return &Cache{
		perUSD:    seed,
		sourceURL: sourceURL,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// NewStatic returns a cache with a fixed rate table and no source URL.
// Used for previews against uncommitted rates and in tests.
func NewStatic(perUSD map[string]float64) *Cache {
	seed := make(map[string]float64, len(perUSD))
	for k, v := range perUSD {
		seed[k] = v
	}
	return &Cache{perUSD: seed}
}

// Refresh replaces the rate table from the configured source. The source
// responds with {"rates": {"INR": 83.1, ...}} keyed per 1 USD. Unsupported
// codes in the response are ignored; a failed refresh leaves the previous
// table in place.
func (c *Cache) Refresh(ctx context.Context) error {
	if c.sourceURL == "" {
		return fmt.Errorf("rate refresh: no source URL configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.sourceURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("rate refresh: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rate refresh: source returned %d", resp.StatusCode)
	}
	var body struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("rate refresh: decode: %w", err)
	}
	if len(body.Rates) == 0 {
		return fmt.Errorf("rate refresh: empty rate table")
	}

	next := map[string]float64{"USD": 1.0}
	for code, rate := range body.Rates {
		if supported[code] && rate > 0 {
			next[code] = rate
		}
	}

	c.mu.Lock()
	c.perUSD = next
	c.refreshed = time.Now()
	c.mu.Unlock()
	return nil
}

// RefreshedAt reports when the table was last replaced from the source.
// Zero if the cache is still on seed rates.
func (c *Cache) RefreshedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshed
}

// Snapshot returns a copy of the current rate table.
func (c *Cache) Snapshot() map[string]float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]float64, len(c.perUSD))
	for k, v := range c.perUSD {
		out[k] = v
	}
	return out
}

// ToUSD converts an amount in the given currency to USD. Unknown currency
// codes fail with ErrInvalidCurrency. A supported code with no cached rate
// degrades to rate 1.0 so a momentarily missing rate never blocks a
// report; this is a documented approximation, not a correctness guarantee.
func (c *Cache) ToUSD(amount float64, currency string) (float64, error) {
	if !supported[currency] {
		return 0, &ErrInvalidCurrency{Code: currency}
	}
	if currency == "USD" {
		return amount, nil
	}
	c.mu.RLock()
	rate := c.perUSD[currency]
	c.mu.RUnlock()
	if rate <= 0 {
		return amount, nil
	}
	return amount / rate, nil
}

// ToUSDOrSame is the lenient form used inside aggregations: any lookup
// failure returns the amount unchanged instead of an error, so one bad
// record cannot abort a whole report pass.
func (c *Cache) ToUSDOrSame(amount float64, currency string) float64 {
	usd, err := c.ToUSD(amount, currency)
	if err != nil {
		return amount
	}
	return usd
}

// IsSupported reports whether the code belongs to the supported set.
func IsSupported(code string) bool {
	return supported[code]
}
