package database

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool is the part of a connection pool the readiness probe and shutdown need
type Pool interface {
	Ping(ctx context.Context) error
	Close()
}

// PoolConfig sizes and labels a connection pool
type PoolConfig struct {
	ConnString      string
	MaxConns        int
	MaxConnIdleTime time.Duration
	MaxConnLifetime time.Duration

	// ApplicationName shows up in pg_stat_activity; defaults to DefaultApplicationName
	ApplicationName string
}

// NewPool opens a pgx pool and pings it once. Every session runs in UTC so
// created_at and configured_at compare cleanly against event instants.
func NewPool(ctx context.Context, pc PoolConfig) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(pc.ConnString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToParseConnString, err)
	}

	maxConns := pc.MaxConns
	if maxConns > math.MaxInt32 {
		maxConns = math.MaxInt32
	}
	if maxConns < DefaultMinConnections {
		maxConns = DefaultMinConnections
	}
	config.MaxConns = int32(maxConns)
	config.MinConns = DefaultMinConnections
	config.MaxConnLifetime = pc.MaxConnLifetime
	config.MaxConnIdleTime = pc.MaxConnIdleTime

	appName := pc.ApplicationName
	if appName == "" {
		appName = DefaultApplicationName
	}
	config.ConnConfig.RuntimeParams["application_name"] = appName
	config.ConnConfig.RuntimeParams["timezone"] = SessionTimeZone

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCreatePool, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToPingDatabase, err)
	}

	slog.Default().Info(LogMsgSuccessfullyConnectedToDatabase,
		"application_name", appName,
		"max_conns", config.MaxConns)
	return pool, nil
}
