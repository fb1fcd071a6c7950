package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/MediDispenser_Go/internal/config"
	"github.com/osse101/MediDispenser_Go/internal/database"
	"github.com/osse101/MediDispenser_Go/internal/database/memory"
	"github.com/osse101/MediDispenser_Go/internal/database/postgres"
	"github.com/osse101/MediDispenser_Go/internal/repository"
)

// Store bundles the repositories of one backend with its health check and
// shutdown hook.
type Store struct {
	Inventory   repository.Inventory
	DispenseLog repository.DispenseLog
	Pinger      database.Pool
}

// Close releases the backend's connections
func (s *Store) Close() {
	s.Pinger.Close()
}

// InitializeStore opens the backend selected by STORE_BACKEND. The postgres
// backend is migrated to the latest schema before use.
func InitializeStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.StoreBackend {
	case config.StoreBackendMemory:
		slog.Warn(LogMsgStoreMemory)
		store := memory.NewStore()
		return &Store{Inventory: store, DispenseLog: store, Pinger: store}, nil

	case config.StoreBackendPostgres:
		pool, err := database.NewPool(ctx, database.PoolConfig{
			ConnString:      cfg.GetDBConnString(),
			MaxConns:        cfg.DBMaxConns,
			MaxConnIdleTime: cfg.DBMaxConnIdleTime,
			MaxConnLifetime: cfg.DBMaxConnLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDB, err)
		}
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrateDB, err)
		}
		slog.Info(LogMsgStorePostgres, "host", cfg.DBHost, "db", cfg.DBName)
		return &Store{
			Inventory:   postgres.NewInventoryRepository(pool),
			DispenseLog: postgres.NewDispenseLogRepository(pool),
			Pinger:      pool,
		}, nil

	default:
		return nil, fmt.Errorf("%s %q", ErrMsgUnknownBackend, cfg.StoreBackend)
	}
}
