package jobs

import (
	"context"
	"fmt"
	"time"

	"OpsLedger/internal/config"
	"OpsLedger/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
)

type BillingRollerConfig struct {
	Schedule string
	TimeZone string
}

func NewDefaultBillingRollerConfig() *BillingRollerConfig {
	return &BillingRollerConfig{
		Schedule: config.DefaultBillingSchedule,
		TimeZone: config.DefaultTimeZone,
	}
}

// RunBillingRoller advances next_billing_date on active subscriptions whose
// billing date has passed, by one month or one year per the cycle. Repeated
// intervals in the UPDATE handle rows that were overdue by several cycles.
func RunBillingRoller(cfg *BillingRollerConfig, pool *pgxpool.Pool) error {
	if cfg.Schedule == "" {
		cfg.Schedule = config.DefaultBillingSchedule
	}
	if cfg.TimeZone == "" {
		cfg.TimeZone = config.DefaultTimeZone
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return fmt.Errorf("invalid timezone for billing roller: %v", err)
	}

	roll := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		tag, err := pool.Exec(ctx, `
			UPDATE subscriptions
			SET next_billing_date = next_billing_date +
				(CASE WHEN billing_cycle = 'annual' THEN INTERVAL '1 year' ELSE INTERVAL '1 month' END) *
				GREATEST(1, CEIL(
					CASE WHEN billing_cycle = 'annual'
						THEN EXTRACT(EPOCH FROM (CURRENT_DATE - next_billing_date)) / 31536000.0
						ELSE EXTRACT(EPOCH FROM (CURRENT_DATE - next_billing_date)) / 2592000.0
					END))
			WHERE status = 'active' AND next_billing_date < CURRENT_DATE`)
		if err != nil {
			logger.GlobalLogger.LogAudit(fmt.Sprintf("Billing roll failed: %v", err))
			return
		}
		if n := tag.RowsAffected(); n > 0 {
			logger.GlobalLogger.LogAudit(fmt.Sprintf("Billing roll advanced %d subscriptions", n))
		}
	}

	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(cfg.Schedule, roll); err != nil {
		return fmt.Errorf("invalid billing roll schedule %q: %v", cfg.Schedule, err)
	}
	c.Start()
	return nil
}
