package recruitment

import (
	"OpsLedger/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
)

type RecruitmentService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
}

func NewRecruitmentService(cfg map[string]interface{}, pool *pgxpool.Pool) serviceiface.Service {
	return &RecruitmentService{config: cfg, pool: pool}
}

func (s *RecruitmentService) Name() string {
	return "recruitment"
}

func (s *RecruitmentService) Start() error {
	go StartRecruitmentService(s.pool)
	return nil
}

func (s *RecruitmentService) Stop() error {
	return nil
}
