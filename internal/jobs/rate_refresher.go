package jobs

import (
	"context"
	"fmt"
	"time"

	"OpsLedger/api/fx/rates"
	"OpsLedger/internal/config"
	"OpsLedger/internal/logger"

	"github.com/robfig/cron/v3"
)

type RateRefresherConfig struct {
	Schedule string
	TimeZone string
}

func NewDefaultRateRefresherConfig() *RateRefresherConfig {
	return &RateRefresherConfig{
		Schedule: config.DefaultRateSchedule,
		TimeZone: config.DefaultTimeZone,
	}
}

// RunRateRefresher refreshes the FX table once at startup and then on the
// configured schedule. A failed refresh keeps the previous table, so the
// job only logs and retries at the next tick.
func RunRateRefresher(cfg *RateRefresherConfig, cache *rates.Cache) error {
	if cfg.Schedule == "" {
		cfg.Schedule = config.DefaultRateSchedule
	}
	if cfg.TimeZone == "" {
		cfg.TimeZone = config.DefaultTimeZone
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return fmt.Errorf("invalid timezone for rate refresher: %v", err)
	}

	refresh := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := cache.Refresh(ctx); err != nil {
			logger.GlobalLogger.LogAudit(fmt.Sprintf("Rate refresh failed, keeping previous table: %v", err))
			return
		}
		logger.GlobalLogger.LogAudit(fmt.Sprintf("Rate table refreshed at %s", cache.RefreshedAt().In(loc)))
	}

	go refresh()

	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(cfg.Schedule, refresh); err != nil {
		return fmt.Errorf("invalid rate refresh schedule %q: %v", cfg.Schedule, err)
	}
	c.Start()
	return nil
}
