package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/MediDispenser_Go/internal/domain"
	"github.com/osse101/MediDispenser_Go/internal/repository"
)

// InventoryRepository implements repository.Inventory for PostgreSQL
type InventoryRepository struct {
	db *pgxpool.Pool
}

// NewInventoryRepository creates a new InventoryRepository
func NewInventoryRepository(db *pgxpool.Pool) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// GetInventory reads without locking
func (r *InventoryRepository) GetInventory(ctx context.Context, user string) (*domain.Inventory, error) {
	return getInventoryInternal(ctx, r.db, user, false)
}

// EnsureInventory provisions on first access. Concurrent callers converge on
// the same rows through ON CONFLICT DO NOTHING.
func (r *InventoryRepository) EnsureInventory(ctx context.Context, user string) (*domain.Inventory, error) {
	inv, err := getInventoryInternal(ctx, r.db, user, false)
	if err != nil {
		return nil, err
	}
	if inv != nil {
		return inv, nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, storeError(ErrMsgProvisionFailed, err)
	}
	defer SafeRollback(ctx, tx)

	if err := provision(ctx, tx, user); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, storeError(ErrMsgProvisionFailed, err)
	}

	return getInventoryInternal(ctx, r.db, user, false)
}

// ListConfiguredSlots returns slots that carry a medicine and schedules
func (r *InventoryRepository) ListConfiguredSlots(ctx context.Context) ([]repository.ConfiguredSlot, error) {
	rows, err := r.db.Query(ctx, SQLSelectConfiguredSlots)
	if err != nil {
		return nil, storeError(ErrMsgListSlotsFailed, err)
	}
	defer rows.Close()

	var out []repository.ConfiguredSlot
	for rows.Next() {
		var c repository.ConfiguredSlot
		if err := rows.Scan(&c.User, &c.Slot.SlotNumber, &c.Slot.MedicineName,
			&c.Slot.TotalTablets, &c.Slot.TabletsLeft, &c.Slot.Schedules, &c.ConfiguredAt); err != nil {
			return nil, storeError(ErrMsgListSlotsFailed, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(ErrMsgListSlotsFailed, err)
	}
	return out, nil
}

// BeginTx starts a unit of work
func (r *InventoryRepository) BeginTx(ctx context.Context) (repository.InventoryTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, storeError(ErrMsgBeginTransactionFailed, err)
	}
	return &inventoryTx{tx: tx}, nil
}

// inventoryTx implements repository.InventoryTx over a pgx transaction
type inventoryTx struct {
	tx pgx.Tx
}

func (t *inventoryTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return storeError(ErrMsgCommitTransactionFailed, err)
	}
	return nil
}

func (t *inventoryTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// LockUser takes a transaction-scoped advisory lock. Advisory locks work
// even before the user's rows exist, unlike SELECT FOR UPDATE.
func (t *inventoryTx) LockUser(ctx context.Context, user string) error {
	if _, err := t.tx.Exec(ctx, SQLAdvisoryLock, hashUserLock(LockScopeInventory, user)); err != nil {
		return storeError(ErrMsgAcquireLockFailed, err)
	}
	return nil
}

func (t *inventoryTx) GetInventoryForUpdate(ctx context.Context, user string) (*domain.Inventory, error) {
	if err := provision(ctx, t.tx, user); err != nil {
		return nil, err
	}
	return getInventoryInternal(ctx, t.tx, user, true)
}

func (t *inventoryTx) ReplaceSlot(ctx context.Context, user string, slot domain.Slot) (int64, error) {
	slot = slot.Normalized(slot.SlotNumber)
	tag, err := t.tx.Exec(ctx, SQLReplaceSlot, user, slot.SlotNumber,
		slot.MedicineName, slot.TotalTablets, slot.TabletsLeft, slot.Schedules)
	if err != nil {
		return 0, storeError(ErrMsgReplaceSlotFailed, err)
	}
	if tag.RowsAffected() == 0 {
		return 0, fmt.Errorf("%w: %s: slot %d", domain.ErrStoreUnavailable, ErrMsgSlotRowMissing, slot.SlotNumber)
	}
	return t.bumpVersion(ctx, user)
}

func (t *inventoryTx) UpdateStock(ctx context.Context, user string, slotNumber, tabletsLeft int) (int64, error) {
	tag, err := t.tx.Exec(ctx, SQLUpdateStock, user, slotNumber, tabletsLeft)
	if err != nil {
		return 0, storeError(ErrMsgUpdateStockFailed, err)
	}
	if tag.RowsAffected() == 0 {
		return 0, fmt.Errorf("%w: %s: slot %d", domain.ErrStoreUnavailable, ErrMsgSlotRowMissing, slotNumber)
	}
	return t.bumpVersion(ctx, user)
}

func (t *inventoryTx) bumpVersion(ctx context.Context, user string) (int64, error) {
	var version int64
	if err := t.tx.QueryRow(ctx, SQLBumpVersion, user).Scan(&version); err != nil {
		return 0, storeError(ErrMsgBumpVersionFailed, err)
	}
	return version, nil
}

func (t *inventoryTx) IsClaimed(ctx context.Context, key domain.DispenseKey) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx, SQLClaimExists, key.User, key.SlotNumber, key.ScheduleTime, key.Date).Scan(&exists)
	if err != nil {
		return false, storeError(ErrMsgClaimCheckFailed, err)
	}
	return exists, nil
}

func (t *inventoryTx) AppendLog(ctx context.Context, entry *domain.LogEntry) (bool, error) {
	err := t.tx.QueryRow(ctx, SQLInsertLog,
		entry.User, entry.SlotNumber, entry.MedicineName, entry.Dosage,
		entry.ScheduleTime, entry.EventDate, string(entry.Status),
	).Scan(&entry.ID, &entry.Timestamp)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// ON CONFLICT DO NOTHING returned nothing: already claimed
			return false, nil
		}
		return false, storeError(ErrMsgAppendLogFailed, err)
	}
	return true, nil
}
