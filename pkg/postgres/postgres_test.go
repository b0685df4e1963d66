package postgres

import (
	"testing"

	"fintrack/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDatabaseConfig() *config.DatabaseConfig {
	return &config.DatabaseConfig{
		Host:     "db.internal",
		Port:     "5433",
		User:     "fintrack",
		Password: "secret",
		DBName:   "ledger",
		SSLMode:  "disable",
		MaxConns: 8,
	}
}

func TestPoolConfig(t *testing.T) {
	poolConfig, err := PoolConfig(testDatabaseConfig())
	require.NoError(t, err)

	assert.Equal(t, int32(8), poolConfig.MaxConns)
	assert.Equal(t, int32(2), poolConfig.MinConns)
	assert.Equal(t, maxConnIdleTime, poolConfig.MaxConnIdleTime)

	conn := poolConfig.ConnConfig
	assert.Equal(t, "db.internal", conn.Host)
	assert.Equal(t, uint16(5433), conn.Port)
	assert.Equal(t, "ledger", conn.Database)
	assert.Equal(t, "fintrack", conn.User)
	assert.Equal(t, "UTC", conn.RuntimeParams["timezone"])
	assert.Equal(t, applicationName, conn.RuntimeParams["application_name"])
}

func TestPoolConfig_MinConnsNeverExceedsMax(t *testing.T) {
	cfg := testDatabaseConfig()
	cfg.MaxConns = 1

	poolConfig, err := PoolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(1), poolConfig.MinConns)
}

func TestPoolConfig_RejectsBadPort(t *testing.T) {
	cfg := testDatabaseConfig()
	cfg.Port = "not-a-port"

	_, err := PoolConfig(cfg)
	assert.Error(t, err)
}
