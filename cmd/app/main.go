package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/MediDispenser_Go/internal/auth"
	"github.com/osse101/MediDispenser_Go/internal/bootstrap"
	"github.com/osse101/MediDispenser_Go/internal/config"
	"github.com/osse101/MediDispenser_Go/internal/dispense"
	"github.com/osse101/MediDispenser_Go/internal/dispenselog"
	"github.com/osse101/MediDispenser_Go/internal/inventory"
	"github.com/osse101/MediDispenser_Go/internal/schedule"
	"github.com/osse101/MediDispenser_Go/internal/scheduler"
	"github.com/osse101/MediDispenser_Go/internal/server"
	"github.com/osse101/MediDispenser_Go/internal/worker"
)

const (
	shutdownTimeout = 15 * time.Second
	jobQueueSize    = 16
)

func main() {
	if err := run(); err != nil {
		slog.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	warnings, err := config.ValidateEnvWithWarnings(cfg.StoreBackend)
	if err != nil {
		return fmt.Errorf("invalid environment: %w", err)
	}
	for _, w := range warnings {
		slog.Warn(w)
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.InitializeStore(ctx, cfg)
	if err != nil {
		return err
	}

	alarmCache := schedule.NewAlarmCache(cfg.AlarmCacheSize, cfg.AlarmCacheTTL)
	inventoryService := inventory.NewService(store.Inventory, alarmCache)
	alarmService := schedule.NewAlarmService(inventoryService, alarmCache)
	executor := dispense.NewExecutor(store.Inventory, inventoryService)
	logService := dispenselog.NewService(store.DispenseLog)

	// Missed-dose sweeper
	pool := worker.NewPool(cfg.WorkerCount, jobQueueSize)
	pool.Start()
	sweep := dispense.NewSkipSweepJob(store.Inventory, executor, cfg.SkipGracePeriod, loc)
	sched := scheduler.New(pool)
	if cfg.SkipSweepInterval > 0 {
		sched.Schedule(cfg.SkipSweepInterval, sweep)
		pool.TryEnqueue(sweep)
	}

	srv := server.NewServer(server.Deps{
		Port:            cfg.Port,
		DeviceRateLimit: cfg.DeviceRateLimit,
		TrustedProxies:  cfg.TrustedProxies,
		Tokens:          auth.NewTokenService(cfg.JWTSecret),
		Store:           store.Pinger,
		Inventory:       inventoryService,
		Alarms:          alarmService,
		Dispenser:       executor,
		Logs:            logService,
		Clock:           func() time.Time { return time.Now().In(loc) },
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-serverErr:
		if runErr != nil {
			runErr = fmt.Errorf("server failed: %w", runErr)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:     srv,
		Scheduler:  sched,
		WorkerPool: pool,
		Store:      store,
	})
	return runErr
}
