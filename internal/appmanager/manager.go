package appmanager

import (
	"database/sql"
	"fmt"
	"os"
	"sort"
	"sync"

	"OpsLedger/api"
	"OpsLedger/api/auth"
	"OpsLedger/api/contractors"
	"OpsLedger/api/crm"
	"OpsLedger/api/finance"
	"OpsLedger/api/fx"
	"OpsLedger/api/fx/rates"
	"OpsLedger/api/recruitment"
	"OpsLedger/api/uam"
	"OpsLedger/internal/config"
	"OpsLedger/internal/jobs"
	"OpsLedger/internal/logger"
	"OpsLedger/internal/resource"
	"OpsLedger/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
	"gopkg.in/yaml.v3"
)

var AuthDB *sql.DB
var db *sql.DB
var pgxPool *pgxpool.Pool
var rateCache *rates.Cache

func SetDB(database *sql.DB) {
	db = database
	AuthDB = database
}

func SetPgxPool(pool *pgxpool.Pool) {
	pgxPool = pool
}

func SetRateCache(cache *rates.Cache) {
	rateCache = cache
}

// GetDB returns the database connection
func GetDB() *sql.DB {
	return db
}

// GetPgxPool returns the pgx pool connection
func GetPgxPool() *pgxpool.Pool {
	return pgxPool
}

func GetRateCache() *rates.Cache {
	if rateCache == nil {
		rateCache = rates.New(config.DefaultRateURL)
	}
	return rateCache
}

var serviceConstructors = map[string]func(map[string]interface{}) serviceiface.Service{
	"logger": func(cfg map[string]interface{}) serviceiface.Service {
		return logger.NewLoggerService(cfg)
	},
	"resourcemanager": func(cfg map[string]interface{}) serviceiface.Service {
		svc := resource.NewResourceManagerService(cfg)
		if rm, ok := svc.(*resource.ResourceManager); ok {
			rm.AddResource("authdb", db)
			rm.AddResource("pgxpool", pgxPool)
			rm.AddResource("ratecache", GetRateCache())
		}
		return svc
	},
	"fx": func(cfg map[string]interface{}) serviceiface.Service {
		return fx.NewFXService(cfg, GetRateCache())
	},
	"contractors": func(cfg map[string]interface{}) serviceiface.Service {
		return contractors.NewContractorService(cfg, pgxPool, GetRateCache())
	},
	"uam": func(cfg map[string]interface{}) serviceiface.Service {
		return uam.NewUAMService(cfg, db)
	},
	"finance": func(cfg map[string]interface{}) serviceiface.Service {
		return finance.NewFinanceService(cfg, pgxPool, GetRateCache())
	},
	"crm": func(cfg map[string]interface{}) serviceiface.Service {
		return crm.NewCRMService(cfg, pgxPool)
	},
	"recruitment": func(cfg map[string]interface{}) serviceiface.Service {
		return recruitment.NewRecruitmentService(cfg, pgxPool)
	},
	"jobs": func(cfg map[string]interface{}) serviceiface.Service {
		return jobs.NewCronService(cfg, pgxPool, GetRateCache())
	},
	"gateway": func(cfg map[string]interface{}) serviceiface.Service {
		return api.NewGatewayService(cfg)
	},
	"auth": func(cfg map[string]interface{}) serviceiface.Service {
		maxUsers := 100
		if cfg != nil {
			if v, ok := cfg["max_users"]; ok && v != nil {
				switch t := v.(type) {
				case int:
					maxUsers = t
				case int64:
					maxUsers = int(t)
				case float64:
					maxUsers = int(t)
				}
			}
		}
		return auth.NewAuthService(AuthDB, maxUsers)
	},
}

// ------------------- MANAGER -------------------

type AppManager struct {
	services []serviceiface.Service
	mu       sync.Mutex
}

func NewAppManager() *AppManager {
	return &AppManager{
		services: make([]serviceiface.Service, 0),
	}
}

func (am *AppManager) RegisterService(s serviceiface.Service) {
	am.mu.Lock()
	defer am.mu.Unlock()
	am.services = append(am.services, s)
}

func (am *AppManager) StartAll() error {
	am.mu.Lock()
	defer am.mu.Unlock()
	for _, service := range am.services {
		fmt.Println("Starting service:", service.Name())
		if err := service.Start(); err != nil {
			return fmt.Errorf("failed to start service %s: %w", service.Name(), err)
		}
	}
	return nil
}

func (am *AppManager) StopAll() error {
	am.mu.Lock()
	defer am.mu.Unlock()
	for i := len(am.services) - 1; i >= 0; i-- {
		svc := am.services[i]
		if err := svc.Stop(); err != nil {
			return fmt.Errorf("failed to stop service %s: %w", svc.Name(), err)
		}
	}
	return nil
}

// ------------------- YAML CONFIG -------------------

type ServiceSequencer struct {
	Services []ServiceConfig `yaml:"services"`
}

type ServiceConfig struct {
	Name       string                 `yaml:"name"`
	StartOrder int                    `yaml:"start_order"`
	Config     map[string]interface{} `yaml:"config"`
}

func LoadServiceSequence(path string) ([]ServiceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var seq ServiceSequencer
	if err := yaml.Unmarshal(data, &seq); err != nil {
		return nil, err
	}

	// sort by start_order
	sort.Slice(seq.Services, func(i, j int) bool {
		return seq.Services[i].StartOrder < seq.Services[j].StartOrder
	})

	return seq.Services, nil
}

func (am *AppManager) AutoRegisterServices(configs []ServiceConfig) {
	for _, svc := range configs {
		if constructor, ok := serviceConstructors[svc.Name]; ok {
			service := constructor(svc.Config)
			am.RegisterService(service)
			if svc.Name == "auth" {
				if realAuthSvc, ok := service.(*auth.AuthService); ok {
					api.SetAuthService(realAuthSvc)
					auth.SetGlobalAuthService(realAuthSvc)
				}
			}
		}
	}

	for _, svc := range am.services {
		if l, ok := svc.(*logger.LoggerService); ok {
			logger.SetGlobalLogger(l)
			break
		}
	}
}

func (am *AppManager) GetServiceByName(name string) serviceiface.Service {
	for _, svc := range am.services {
		if svc.Name() == name {
			return svc
		}
	}
	return nil
}
