package finance

import (
	"OpsLedger/api/fx/rates"
	"OpsLedger/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
)

type FinanceService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
	fx     *rates.Cache
}

func NewFinanceService(cfg map[string]interface{}, pool *pgxpool.Pool, fx *rates.Cache) serviceiface.Service {
	return &FinanceService{config: cfg, pool: pool, fx: fx}
}

func (s *FinanceService) Name() string {
	return "finance"
}

func (s *FinanceService) Start() error {
	go StartFinanceService(s.pool, s.fx)
	return nil
}

func (s *FinanceService) Stop() error {
	return nil
}
