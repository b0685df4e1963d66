package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Server:   ServerConfig{Port: "3001", BodyLimitMB: 10},
		Database: DatabaseConfig{Host: "localhost", Port: "5432", User: "postgres", Password: "secret", DBName: "fintrack", SSLMode: "disable", MaxConns: 10},
		Storage:  StorageConfig{Backend: StorageBackendPostgres},
		Logger:   LoggerConfig{Level: "info", Format: "json"},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		edit    func(c *Config)
		wantErr string
	}{
		{name: "valid", edit: func(c *Config) {}},
		{name: "memory backend needs no database", edit: func(c *Config) {
			c.Storage.Backend = StorageBackendMemory
			c.Database = DatabaseConfig{}
		}},
		{name: "bad port", edit: func(c *Config) { c.Server.Port = "http" }, wantErr: "SERVER_PORT"},
		{name: "port out of range", edit: func(c *Config) { c.Server.Port = "70000" }, wantErr: "SERVER_PORT"},
		{name: "body limit", edit: func(c *Config) { c.Server.BodyLimitMB = 0 }, wantErr: "SERVER_BODY_LIMIT_MB"},
		{name: "unknown backend", edit: func(c *Config) { c.Storage.Backend = "mongo" }, wantErr: "STORAGE_BACKEND"},
		{name: "missing db name", edit: func(c *Config) { c.Database.DBName = "" }, wantErr: "DB_NAME"},
		{name: "max conns", edit: func(c *Config) { c.Database.MaxConns = 0 }, wantErr: "DB_MAX_CONNS"},
		{name: "log format", edit: func(c *Config) { c.Logger.Format = "xml" }, wantErr: "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.edit(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_ValidateReportsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = ""
	cfg.Logger.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVER_PORT")
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}

func TestDatabaseConfig_URL(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: "5432", User: "app", Password: "p@ss/word", DBName: "fintrack", SSLMode: "disable"}
	assert.Equal(t, "pgx5://app:p%40ss%2Fword@db:5432/fintrack?sslmode=disable", cfg.URL())
	assert.Equal(t, "host=db port=5432 user=app password=p@ss/word dbname=fintrack sslmode=disable", cfg.DSN())
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "MEMORY")
	t.Setenv("SERVER_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageBackendMemory, cfg.Storage.Backend)
	assert.Equal(t, "3001", cfg.Server.Port)
	assert.Equal(t, "http://localhost:3000", cfg.Server.AllowOrigins)
	assert.Equal(t, "data/settings.json", cfg.Settings.FilePath)
}
