package postgres

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MediDispenser_Go/internal/dispense"
	"github.com/osse101/MediDispenser_Go/internal/domain"
	"github.com/osse101/MediDispenser_Go/internal/inventory"
	"github.com/osse101/MediDispenser_Go/internal/repository"
)

const integrationUser = "patient@example.com"

func aspirin(n int) domain.Slot {
	return domain.Slot{
		SlotNumber:   n,
		MedicineName: "Aspirin",
		TotalTablets: 30,
		TabletsLeft:  30,
		Schedules:    []domain.Schedule{{Time: "07:30", Dosage: 2}},
	}
}

// inTx runs fn in a committed transaction holding the user lock
func inTx(t *testing.T, repo *InventoryRepository, fn func(tx repository.InventoryTx)) {
	t.Helper()
	ctx := context.Background()
	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.LockUser(ctx, integrationUser))
	fn(tx)
	require.NoError(t, tx.Commit(ctx))
}

func TestInventoryRepository_Provisioning(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()
	repo := NewInventoryRepository(pool)

	inv, err := repo.GetInventory(ctx, integrationUser)
	require.NoError(t, err)
	assert.Nil(t, inv, "unknown user is not provisioned by reads")

	inv, err = repo.EnsureInventory(ctx, integrationUser)
	require.NoError(t, err)
	require.NotNil(t, inv)
	for i, s := range inv.Slots {
		assert.Equal(t, i+1, s.SlotNumber)
		assert.False(t, s.IsConfigured())
		assert.NotNil(t, s.Schedules)
	}

	// Racing provisioners settle on one inventory
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.EnsureInventory(ctx, "racer@example.com")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var slots int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM inventory_slots WHERE user_email = $1`, "racer@example.com").Scan(&slots))
	assert.Equal(t, domain.SlotCount, slots)
}

func TestInventoryRepository_ReplaceAndStock(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()
	repo := NewInventoryRepository(pool)

	inTx(t, repo, func(tx repository.InventoryTx) {
		_, err := tx.GetInventoryForUpdate(ctx, integrationUser)
		require.NoError(t, err)
		v, err := tx.ReplaceSlot(ctx, integrationUser, aspirin(3))
		require.NoError(t, err)
		assert.Equal(t, int64(1), v)
		v, err = tx.UpdateStock(ctx, integrationUser, 3, 12)
		require.NoError(t, err)
		assert.Equal(t, int64(2), v)
	})

	inv, err := repo.GetInventory(ctx, integrationUser)
	require.NoError(t, err)
	slot := inv.Slot(3)
	assert.Equal(t, "Aspirin", slot.MedicineName)
	assert.Equal(t, 12, slot.TabletsLeft)
	assert.Equal(t, []domain.Schedule{{Time: "07:30", Dosage: 2}}, slot.Schedules)
	assert.Equal(t, int64(2), inv.Version)

	configured, err := repo.ListConfiguredSlots(ctx)
	require.NoError(t, err)
	require.Len(t, configured, 1)
	assert.Equal(t, integrationUser, configured[0].User)
	assert.Equal(t, 3, configured[0].Slot.SlotNumber)
	assert.False(t, configured[0].ConfiguredAt.IsZero())
}

func TestInventoryRepository_StockAboveCapacityRejected(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()
	repo := NewInventoryRepository(pool)

	inTx(t, repo, func(tx repository.InventoryTx) {
		_, err := tx.GetInventoryForUpdate(ctx, integrationUser)
		require.NoError(t, err)
		_, err = tx.ReplaceSlot(ctx, integrationUser, aspirin(1))
		require.NoError(t, err)
	})

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	_, err = tx.UpdateStock(ctx, integrationUser, 1, 31)
	assert.ErrorIs(t, err, domain.ErrInvalidStock)
}

func TestInventoryRepository_ClaimsAreUnique(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()
	repo := NewInventoryRepository(pool)
	logs := NewDispenseLogRepository(pool)

	key := domain.DispenseKey{User: integrationUser, SlotNumber: 1, ScheduleTime: "07:30", Date: "2026-03-14"}
	entry := func(status domain.LogStatus) *domain.LogEntry {
		return &domain.LogEntry{
			User: key.User, SlotNumber: key.SlotNumber, MedicineName: "Aspirin", Dosage: 2,
			ScheduleTime: key.ScheduleTime, EventDate: key.Date, Status: status,
		}
	}

	inTx(t, repo, func(tx repository.InventoryTx) {
		claimed, err := tx.IsClaimed(ctx, key)
		require.NoError(t, err)
		assert.False(t, claimed)

		e := entry(domain.LogStatusTaken)
		ok, err := tx.AppendLog(ctx, e)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NotZero(t, e.ID)
		assert.False(t, e.Timestamp.IsZero())

		claimed, err = tx.IsClaimed(ctx, key)
		require.NoError(t, err)
		assert.True(t, claimed)
	})

	inTx(t, repo, func(tx repository.InventoryTx) {
		ok, err := tx.AppendLog(ctx, entry(domain.LogStatusSkipped))
		require.NoError(t, err)
		assert.False(t, ok, "any status claims the event")
	})

	entries, err := logs.ListLogs(ctx, integrationUser, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, domain.LogStatusTaken, entries[0].Status)
	assert.Equal(t, "2026-03-14", entries[0].EventDate)
	assert.Equal(t, "07:30", entries[0].ScheduleTime)
}

func TestDispenseLogRepository_NewestFirstWithLimit(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()
	repo := NewInventoryRepository(pool)
	logs := NewDispenseLogRepository(pool)

	dates := []string{"2026-03-12", "2026-03-13", "2026-03-14"}
	inTx(t, repo, func(tx repository.InventoryTx) {
		for _, d := range dates {
			ok, err := tx.AppendLog(ctx, &domain.LogEntry{
				User: integrationUser, SlotNumber: 2, MedicineName: "Vitamin D", Dosage: 1,
				ScheduleTime: "08:00", EventDate: d, Status: domain.LogStatusTaken,
			})
			require.NoError(t, err)
			require.True(t, ok)
		}
	})

	entries, err := logs.ListLogs(ctx, integrationUser, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "2026-03-14", entries[0].EventDate)
	assert.Equal(t, "2026-03-13", entries[1].EventDate)

	entries, err = logs.ListLogs(ctx, "nobody@example.com", 10)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

// TestExecutor_ConcurrentDispenseAgainstPostgres exercises the advisory lock
// and unique claim index together
func TestExecutor_ConcurrentDispenseAgainstPostgres(t *testing.T) {
	pool := requireDB(t)
	ctx := context.Background()
	repo := NewInventoryRepository(pool)

	invSvc := inventory.NewService(repo, nil)
	_, err := invSvc.ReplaceSlot(ctx, integrationUser, 1, aspirin(1), nil)
	require.NoError(t, err)

	executor := dispense.NewExecutor(repo, invSvc)
	instant := mustInstant(t, "2026-03-14", "07:30")

	var wg sync.WaitGroup
	outcomes := make(chan domain.Outcome, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := executor.Dispense(ctx, integrationUser, 1, 2, "07:30", instant)
			assert.NoError(t, err)
			outcomes <- out
		}()
	}
	wg.Wait()
	close(outcomes)

	dispensed := 0
	for out := range outcomes {
		if out.Kind == domain.OutcomeDispensed {
			dispensed++
			assert.Equal(t, 28, out.Remaining)
		} else {
			assert.Equal(t, domain.OutcomeAlreadyHandled, out.Kind)
		}
	}
	assert.Equal(t, 1, dispensed)

	inv, err := repo.GetInventory(ctx, integrationUser)
	require.NoError(t, err)
	assert.Equal(t, 28, inv.Slot(1).TabletsLeft)
}
