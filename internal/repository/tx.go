package repository

import (
	"context"

	"github.com/osse101/MediDispenser_Go/internal/domain"
	"github.com/osse101/MediDispenser_Go/internal/logger"
)

const (
	LogMsgBeginTxFailed  = "Failed to begin transaction"
	LogMsgCommitFailed   = "Failed to commit transaction"
	LogMsgRollbackFailed = "Failed to rollback transaction"
	LogMsgLockUserFailed = "Failed to acquire user lock"
)

// Tx defines the interface for transactional operations
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxBeginner opens inventory units of work
type TxBeginner interface {
	BeginTx(ctx context.Context) (InventoryTx, error)
}

// WithUserLock runs fn in one transaction that holds user's mutation lock.
// An error from fn rolls back and is returned unchanged.
func WithUserLock(ctx context.Context, repo TxBeginner, user string, fn func(tx InventoryTx) error) error {
	log := logger.FromContext(ctx)

	tx, err := repo.BeginTx(ctx)
	if err != nil {
		log.Error(LogMsgBeginTxFailed, "error", err)
		return err
	}
	defer SafeRollback(ctx, tx)

	if err := tx.LockUser(ctx, user); err != nil {
		log.Error(LogMsgLockUserFailed, "error", err)
		return err
	}

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		log.Error(LogMsgCommitFailed, "error", err)
		return err
	}
	return nil
}

// SafeRollback rolls back a transaction and logs any error
func SafeRollback(ctx context.Context, tx Tx) {
	if err := tx.Rollback(ctx); err != nil {
		// Rollback after Commit is expected
		if err.Error() != domain.ErrMsgTxClosed {
			logger.FromContext(ctx).Error(LogMsgRollbackFailed, "error", err)
		}
	}
}
