package config

import (
	"github.com/ruslanbektulqinov01/e-commerce/pkg/config"
	pkgdb "github.com/ruslanbektulqinov01/e-commerce/pkg/db"
)

type ServiceConfig struct {
	config.Config
}

func Load() ServiceConfig {
	cfg := config.Load()

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustOneOf(cfg.DBDriver, "DB_DRIVER", pkgdb.DriverPostgres, pkgdb.DriverSQLite)

	if cfg.OrderEventsTopic == "" {
		cfg.OrderEventsTopic = "order_events"
	}
	return ServiceConfig{Config: cfg}
}

func (c ServiceConfig) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
