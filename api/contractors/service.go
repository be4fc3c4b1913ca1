package contractors

import (
	"OpsLedger/api/fx/rates"
	"OpsLedger/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ContractorService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
	fx     *rates.Cache
}

func NewContractorService(cfg map[string]interface{}, pool *pgxpool.Pool, fx *rates.Cache) serviceiface.Service {
	return &ContractorService{config: cfg, pool: pool, fx: fx}
}

func (s *ContractorService) Name() string {
	return "contractors"
}

func (s *ContractorService) Start() error {
	go StartContractorService(s.pool, s.fx)
	return nil
}

func (s *ContractorService) Stop() error {
	return nil
}
