package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MediDispenser_Go/internal/domain"
)

const testUser = "alice@example.com"

func TestEnsureInventory_ProvisionsOnce(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	inv, err := s.GetInventory(ctx, testUser)
	require.NoError(t, err)
	assert.Nil(t, inv, "read must not provision")

	inv, err = s.EnsureInventory(ctx, testUser)
	require.NoError(t, err)
	require.NotNil(t, inv)
	for i, slot := range inv.Slots {
		assert.Equal(t, i+1, slot.SlotNumber)
	}

	again, err := s.EnsureInventory(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, inv.Version, again.Version)
}

func TestTx_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, err := s.EnsureInventory(ctx, testUser)
	require.NoError(t, err)

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.LockUser(ctx, testUser))
	_, err = tx.ReplaceSlot(ctx, testUser, domain.Slot{SlotNumber: 1, MedicineName: "A", TotalTablets: 5, TabletsLeft: 5})
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(ctx))

	inv, err := s.GetInventory(ctx, testUser)
	require.NoError(t, err)
	assert.False(t, inv.Slots[0].IsConfigured())
	assert.EqualError(t, tx.Rollback(ctx), domain.ErrMsgTxClosed)
}

func TestTx_CommitAppliesWritesAndClaims(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 1, 2, 7, 30, 0, 0, time.UTC)
	s := NewStore().WithClock(func() time.Time { return fixed })

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.LockUser(ctx, testUser))
	_, err = tx.GetInventoryForUpdate(ctx, testUser)
	require.NoError(t, err)
	version, err := tx.ReplaceSlot(ctx, testUser, domain.Slot{SlotNumber: 2, MedicineName: "B", TotalTablets: 10, TabletsLeft: 10,
		Schedules: []domain.Schedule{{Time: "07:30", Dosage: 1}}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	version, err = tx.UpdateStock(ctx, testUser, 2, 9)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	entry := &domain.LogEntry{User: testUser, SlotNumber: 2, MedicineName: "B", Dosage: 1,
		ScheduleTime: "07:30", EventDate: "2026-01-02", Status: domain.LogStatusTaken}
	ok, err := tx.AppendLog(ctx, entry)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1), entry.ID)
	assert.Equal(t, fixed, entry.Timestamp)

	dup := *entry
	ok, err = tx.AppendLog(ctx, &dup)
	require.NoError(t, err)
	assert.False(t, ok, "same event key cannot be claimed twice")

	require.NoError(t, tx.Commit(ctx))

	inv, err := s.GetInventory(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, 9, inv.Slots[1].TabletsLeft)
	assert.Equal(t, int64(2), inv.Version)

	logs, err := s.ListLogs(ctx, testUser, 200)
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	configured, err := s.ListConfiguredSlots(ctx)
	require.NoError(t, err)
	require.Len(t, configured, 1)
	assert.Equal(t, fixed, configured[0].ConfiguredAt)
	assert.Equal(t, 2, configured[0].Slot.SlotNumber)

	tx2, err := s.BeginTx(ctx)
	require.NoError(t, err)
	defer tx2.Rollback(ctx)
	claimed, err := tx2.IsClaimed(ctx, domain.DispenseKey{User: testUser, SlotNumber: 2, ScheduleTime: "07:30", Date: "2026-01-02"})
	require.NoError(t, err)
	assert.True(t, claimed)
}

func TestUpdateStock_RejectsOutOfRange(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	tx, err := s.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	_, err = tx.UpdateStock(ctx, testUser, 1, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidStock)

	_, err = tx.UpdateStock(ctx, testUser, 9, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidSlotNumber)
}

func TestListLogs_NewestFirstAndLimited(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	for i := 0; i < 5; i++ {
		tx, err := s.BeginTx(ctx)
		require.NoError(t, err)
		_, err = tx.AppendLog(ctx, &domain.LogEntry{User: testUser, SlotNumber: 1, MedicineName: "A", Dosage: 1,
			ScheduleTime: "08:00", EventDate: time.Date(2026, 1, i+1, 0, 0, 0, 0, time.UTC).Format(domain.DateLayout),
			Status: domain.LogStatusTaken})
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))
	}

	logs, err := s.ListLogs(ctx, testUser, 3)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, int64(5), logs[0].ID)
	assert.Equal(t, int64(3), logs[2].ID)

	other, err := s.ListLogs(ctx, "bob@example.com", 200)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestClosedStore_ReportsUnavailable(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	s.Close()

	_, err := s.GetInventory(ctx, testUser)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	_, err = s.BeginTx(ctx)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.ErrorIs(t, s.Ping(ctx), domain.ErrStoreUnavailable)
}
