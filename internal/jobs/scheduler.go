package jobs

import (
	"fmt"
	"log"

	"OpsLedger/api/fx/rates"
	"OpsLedger/internal/logger"
	"OpsLedger/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CronService struct {
	config map[string]interface{}
	db     *pgxpool.Pool
	cache  *rates.Cache
}

func NewCronService(cfg map[string]interface{}, db *pgxpool.Pool, cache *rates.Cache) serviceiface.Service {
	return &CronService{
		config: cfg,
		db:     db,
		cache:  cache,
	}
}

func (s *CronService) Name() string {
	return "cron"
}

func (s *CronService) Start() error {
	log.Println("Starting cron service...")

	rateCfg := NewDefaultRateRefresherConfig()
	if s.config != nil {
		if schedule, ok := s.config["rate_refresh_schedule"].(string); ok && schedule != "" {
			rateCfg.Schedule = schedule
		}
		if tz, ok := s.config["time_zone"].(string); ok && tz != "" {
			rateCfg.TimeZone = tz
		}
	}
	if err := RunRateRefresher(rateCfg, s.cache); err != nil {
		return fmt.Errorf("failed to start rate refresher: %v", err)
	}
	logger.GlobalLogger.LogAudit("Cron service started with rate refresher")

	billingCfg := NewDefaultBillingRollerConfig()
	if s.config != nil {
		if schedule, ok := s.config["billing_roll_schedule"].(string); ok && schedule != "" {
			billingCfg.Schedule = schedule
		}
		if tz, ok := s.config["time_zone"].(string); ok && tz != "" {
			billingCfg.TimeZone = tz
		}
	}
	if err := RunBillingRoller(billingCfg, s.db); err != nil {
		return fmt.Errorf("failed to start billing roller: %v", err)
	}
	logger.GlobalLogger.LogAudit("Billing roller scheduled")

	return nil
}

func (s *CronService) Stop() error {
	log.Println("Cron service stopped.")
	return nil
}
