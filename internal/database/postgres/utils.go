package postgres

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/osse101/MediDispenser_Go/internal/domain"
	"github.com/osse101/MediDispenser_Go/internal/logger"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SafeRollback rolls back a transaction and logs any error that isn't ErrTxClosed
func SafeRollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		logger.FromContext(ctx).Error("Failed to rollback transaction", "error", err)
	}
}

// hashUserLock creates a consistent int64 hash from scope + user for advisory locking
func hashUserLock(scope, user string) int64 {
	h := sha256.Sum256([]byte(scope + HashSeparator + user))
	// Use first 8 bytes as int64, masking MSB to ensure positive value
	return int64(binary.BigEndian.Uint64(h[:8]) & HashMaskPositiveInt64)
}

// storeError classifies a driver error into the domain taxonomy.
// Aborted transactions become ErrConflict, CHECK violations ErrInvalidStock,
// everything else ErrStoreUnavailable.
func storeError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case PgErrorCodeSerializationFailure, PgErrorCodeDeadlockDetected:
			return fmt.Errorf("%w: %s: %w", domain.ErrConflict, op, err)
		case PgErrorCodeCheckViolation:
			return fmt.Errorf("%w: %s: %w", domain.ErrInvalidStock, op, err)
		}
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrStoreUnavailable, op, err)
}

// provision inserts the inventory header and any missing slot rows
func provision(ctx context.Context, q querier, user string) error {
	if _, err := q.Exec(ctx, SQLInsertInventory, user); err != nil {
		return storeError(ErrMsgProvisionFailed, err)
	}
	if _, err := q.Exec(ctx, SQLInsertEmptySlots, user, domain.SlotCount); err != nil {
		return storeError(ErrMsgProvisionFailed, err)
	}
	return nil
}

// getInventoryInternal loads an inventory, locking its rows when forUpdate is set.
// Returns nil, nil when the user has no inventory.
func getInventoryInternal(ctx context.Context, q querier, user string, forUpdate bool) (*domain.Inventory, error) {
	headerSQL, slotsSQL := SQLSelectInventory, SQLSelectSlots
	if forUpdate {
		headerSQL += SQLForUpdate
		slotsSQL += SQLForUpdate
	}

	inv := domain.NewInventory(user)
	err := q.QueryRow(ctx, headerSQL, user).Scan(&inv.Version, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeError(ErrMsgGetInventoryFailed, err)
	}

	rows, err := q.Query(ctx, slotsSQL, user)
	if err != nil {
		return nil, storeError(ErrMsgGetSlotsFailed, err)
	}
	defer rows.Close()

	for rows.Next() {
		var s domain.Slot
		if err := rows.Scan(&s.SlotNumber, &s.MedicineName, &s.TotalTablets, &s.TabletsLeft, &s.Schedules); err != nil {
			return nil, storeError(ErrMsgGetSlotsFailed, err)
		}
		if p := inv.Slot(s.SlotNumber); p != nil {
			*p = s.Normalized(s.SlotNumber)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(ErrMsgGetSlotsFailed, err)
	}
	return inv, nil
}
