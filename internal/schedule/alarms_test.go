package schedule

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MediDispenser_Go/internal/database/memory"
	"github.com/osse101/MediDispenser_Go/internal/domain"
	"github.com/osse101/MediDispenser_Go/internal/inventory"
)

type countingReader struct {
	mu    sync.Mutex
	inner InventoryReader
	calls int
}

func (r *countingReader) Peek(ctx context.Context, user string) (*domain.Inventory, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	return r.inner.Peek(ctx, user)
}

func TestAlarms_DedupAndSort(t *testing.T) {
	inv := domain.NewInventory("alice@example.com")
	inv.Slots[0] = domain.Slot{SlotNumber: 1, MedicineName: "A", TotalTablets: 1, TabletsLeft: 1,
		Schedules: []domain.Schedule{{Time: "20:00", Dosage: 1}, {Time: "08:00", Dosage: 1}}}
	inv.Slots[1] = domain.Slot{SlotNumber: 2, MedicineName: "B", TotalTablets: 1, TabletsLeft: 1,
		Schedules: []domain.Schedule{{Time: "08:00", Dosage: 1}}}

	assert.Equal(t, []string{"08:00", "20:00"}, Alarms(inv))
}

func TestAlarms_EmptyInventory(t *testing.T) {
	alarms := Alarms(domain.NewInventory("x@example.com"))

	assert.NotNil(t, alarms)
	assert.Empty(t, alarms)
}

func TestListAlarms_CachesAndInvalidates(t *testing.T) {
	ctx := context.Background()
	cache := NewAlarmCache(10, time.Minute)
	inv := inventory.NewService(memory.NewStore(), cache)
	reader := &countingReader{inner: inv}
	svc := NewAlarmService(reader, cache)

	_, err := inv.ReplaceSlot(ctx, "alice@example.com", 1, domain.Slot{
		MedicineName: "A", TotalTablets: 10, TabletsLeft: 10,
		Schedules: []domain.Schedule{{Time: "08:00", Dosage: 1}, {Time: "20:00", Dosage: 1}, {Time: "08:00", Dosage: 2}},
	}, nil)
	require.NoError(t, err)

	alarms, err := svc.ListAlarms(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00", "20:00"}, alarms)

	alarms, err = svc.ListAlarms(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"08:00", "20:00"}, alarms)
	assert.Equal(t, 1, reader.calls, "second lookup should be served from cache")

	_, err = inv.ClearSlot(ctx, "alice@example.com", 1, nil)
	require.NoError(t, err)

	alarms, err = svc.ListAlarms(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Empty(t, alarms)
	assert.Equal(t, 2, reader.calls)
}

func TestListAlarms_UnknownUser(t *testing.T) {
	store := memory.NewStore()
	svc := NewAlarmService(inventory.NewService(store, nil), nil)

	alarms, err := svc.ListAlarms(context.Background(), "nobody@example.com")

	require.NoError(t, err)
	assert.Empty(t, alarms)
	stored, err := store.GetInventory(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestListAlarms_StoreUnavailable(t *testing.T) {
	store := memory.NewStore()
	store.Close()
	svc := NewAlarmService(inventory.NewService(store, nil), NewAlarmCache(10, time.Minute))

	_, err := svc.ListAlarms(context.Background(), "alice@example.com")

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestAlarmCache_StaleSetDropped(t *testing.T) {
	cache := NewAlarmCache(10, time.Minute)

	_, epoch, ok := cache.Get("alice@example.com")
	require.False(t, ok)

	cache.Invalidate("alice@example.com")
	cache.Set("alice@example.com", []string{"08:00"}, epoch)

	_, _, ok = cache.Get("alice@example.com")
	assert.False(t, ok)
	assert.Zero(t, cache.Len())
}

func TestAlarmCache_ReturnsCopies(t *testing.T) {
	cache := NewAlarmCache(10, time.Minute)
	_, epoch, _ := cache.Get("u@example.com")
	cache.Set("u@example.com", []string{"08:00"}, epoch)

	got, _, ok := cache.Get("u@example.com")
	require.True(t, ok)
	got[0] = "99:99"

	again, _, _ := cache.Get("u@example.com")
	assert.Equal(t, []string{"08:00"}, again)
}
