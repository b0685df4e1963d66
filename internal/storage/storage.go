// Package storage opens the transaction store selected by configuration.
package storage

import (
	"context"
	"fmt"

	"fintrack/internal/repository"
	"fintrack/internal/service"
	"fintrack/pkg/config"
	"fintrack/pkg/postgres"

	"go.uber.org/zap"
)

type Backend struct {
	Store service.TransactionStore
	close func()
}

func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Open connects to the configured backend. For PostgreSQL, pending migrations
// are applied first when DB_AUTO_MIGRATE is enabled.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendMemory:
		logger.Warn("Using in-memory storage, data will not survive a restart")
		return &Backend{Store: repository.NewMemoryTransactionRepository(logger)}, nil

	case config.StorageBackendPostgres:
		if cfg.Database.AutoMigrate {
			if err := postgres.RunMigrations(&cfg.Database, logger); err != nil {
				return nil, err
			}
		}

		db, err := postgres.NewPool(ctx, &cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Store: repository.NewTransactionRepository(db, logger),
			close: db.Close,
		}, nil
	}

	return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}
