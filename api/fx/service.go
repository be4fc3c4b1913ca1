package fx

import (
	"OpsLedger/api/fx/rates"
	"OpsLedger/internal/serviceiface"
)

type FXService struct {
	config map[string]interface{}
	cache  *rates.Cache
}

func NewFXService(cfg map[string]interface{}, cache *rates.Cache) serviceiface.Service {
	return &FXService{config: cfg, cache: cache}
}

func (s *FXService) Name() string {
	return "fx"
}

func (s *FXService) Start() error {
	go StartFXService(s.cache)
	return nil
}

func (s *FXService) Stop() error {
	return nil
}
