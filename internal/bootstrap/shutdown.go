package bootstrap

import (
	"context"
	"log/slog"
)

type stopper interface {
	Stop()
}

type serverStopper interface {
	Stop(ctx context.Context) error
}

// ShutdownComponents holds all components that need graceful shutdown.
// Nil fields are skipped.
type ShutdownComponents struct {
	Server     serverStopper
	Scheduler  stopper
	WorkerPool stopper
	Store      *Store
}

// GracefulShutdown stops components in dependency order:
// 1. HTTP server (stop accepting new requests, drain in-flight ones)
// 2. Scheduler, then worker pool (no new sweeps, cancel the running one)
// 3. Store (close connections last so drained requests can finish)
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	slog.Info(LogMsgStoppingBackground)
	if components.Scheduler != nil {
		components.Scheduler.Stop()
	}
	if components.WorkerPool != nil {
		components.WorkerPool.Stop()
	}

	if components.Store != nil {
		slog.Info(LogMsgClosingStore)
		components.Store.Close()
	}

	slog.Info(LogMsgServerStopped)
}
