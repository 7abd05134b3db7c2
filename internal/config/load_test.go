package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URL", "file:orders.db")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("ORDER_RATE_LIMIT", "2.5")

	cfg := Load()
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, []byte("s3cret"), cfg.JWTAccessSecret)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "order_events", cfg.OrderEventsTopic)
	assert.Equal(t, 2.5, cfg.OrderRateLimit)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.True(t, cfg.EventsEnabled())
}

func TestLoad_NoBrokersDisablesEvents(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/orders")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("KAFKA_BROKERS", "")

	cfg := Load()
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.False(t, cfg.EventsEnabled())
}
