package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())

	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Equal(t, 300*time.Millisecond, cfg.Store.ReadLatency)
	assert.Equal(t, 500*time.Millisecond, cfg.Store.WriteLatency)
	assert.Equal(t, "INR", cfg.Billing.Currency)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Kafka.Enabled())
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "Postgres")
	v.Set("STORE_READ_LATENCY", "0")
	v.Set("BILLING_DRAFT_TTL", "45m")
	v.Set("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	v.Set("REDIS_ADDR", "localhost:6379")
	v.Set("DB_PORT", "6543")

	cfg, err := fromViper(v)

	require.NoError(t, err)
	assert.Equal(t, StorePostgres, cfg.Store.Driver)
	assert.Zero(t, cfg.Store.ReadLatency)
	assert.Equal(t, 45*time.Minute, cfg.Billing.DraftTTL)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 6543, cfg.DB.Port)
}

func TestFromViper_DriverDesconocido(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "mongo")

	_, err := fromViper(v)

	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "lab", Password: "p@ss:word", DBName: "lab_billing", SSLMode: "disable"}
	assert.Equal(t, "postgres://lab:p%40ss%3Aword@db:5432/lab_billing?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
