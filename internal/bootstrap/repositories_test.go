package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MediDispenser_Go/internal/config"
)

func TestInitializeStore_Memory(t *testing.T) {
	ctx := context.Background()
	store, err := InitializeStore(ctx, &config.Config{StoreBackend: config.StoreBackendMemory})
	require.NoError(t, err)

	require.NoError(t, store.Pinger.Ping(ctx))

	inv, err := store.Inventory.EnsureInventory(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", inv.User)

	logs, err := store.DispenseLog.ListLogs(ctx, "a@example.com", 10)
	require.NoError(t, err)
	assert.Empty(t, logs)

	store.Close()
	assert.Error(t, store.Pinger.Ping(ctx))
}

func TestInitializeStore_UnknownBackend(t *testing.T) {
	_, err := InitializeStore(context.Background(), &config.Config{StoreBackend: "mongo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mongo")
}

type recordingStopper struct {
	name  string
	order *[]string
}

func (r recordingStopper) Stop() { *r.order = append(*r.order, r.name) }

type recordingServer struct {
	order *[]string
}

func (r recordingServer) Stop(ctx context.Context) error {
	*r.order = append(*r.order, "server")
	return nil
}

func TestGracefulShutdown_Order(t *testing.T) {
	var order []string
	GracefulShutdown(context.Background(), ShutdownComponents{
		Server:     recordingServer{order: &order},
		Scheduler:  recordingStopper{name: "scheduler", order: &order},
		WorkerPool: recordingStopper{name: "pool", order: &order},
	})

	assert.Equal(t, []string{"server", "scheduler", "pool"}, order)
}
