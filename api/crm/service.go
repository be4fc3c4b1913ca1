package crm

import (
	"OpsLedger/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CRMService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
}

func NewCRMService(cfg map[string]interface{}, pool *pgxpool.Pool) serviceiface.Service {
	return &CRMService{config: cfg, pool: pool}
}

func (s *CRMService) Name() string {
	return "crm"
}

func (s *CRMService) Start() error {
	go StartCRMService(s.pool)
	return nil
}

func (s *CRMService) Stop() error {
	return nil
}
