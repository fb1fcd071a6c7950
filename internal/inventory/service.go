// Package inventory owns the per-user slot array: provisioning, slot
// replacement and clearing. Every mutation runs under the user's lock.
package inventory

import (
	"context"
	"fmt"

	"github.com/osse101/MediDispenser_Go/internal/domain"
	"github.com/osse101/MediDispenser_Go/internal/logger"
	"github.com/osse101/MediDispenser_Go/internal/metrics"
	"github.com/osse101/MediDispenser_Go/internal/repository"
)

// Service defines the slot inventory operations
type Service interface {
	// GetOrCreate returns the user's inventory, provisioning eight empty slots on first use
	GetOrCreate(ctx context.Context, user string) (*domain.Inventory, error)

	// Peek returns the stored inventory without provisioning. Unknown users get
	// an empty, unsaved inventory.
	Peek(ctx context.Context, user string) (*domain.Inventory, error)

	// ReplaceSlot overwrites slot n. A non-nil expectedVersion must match the
	// current version or ErrConflict is returned.
	ReplaceSlot(ctx context.Context, user string, n int, slot domain.Slot, expectedVersion *int64) (*domain.Inventory, error)

	// ClearSlot resets slot n to its empty defaults
	ClearSlot(ctx context.Context, user string, n int, expectedVersion *int64) (*domain.Inventory, error)
}

// ChangeNotifier is told about every committed mutation
type ChangeNotifier interface {
	Invalidate(user string)
}

type service struct {
	repo     repository.Inventory
	notifier ChangeNotifier
}

// NewService creates an inventory service. notifier may be nil.
func NewService(repo repository.Inventory, notifier ChangeNotifier) Service {
	return &service{repo: repo, notifier: notifier}
}

func (s *service) GetOrCreate(ctx context.Context, user string) (*domain.Inventory, error) {
	user, err := domain.NormalizeUser(user)
	if err != nil {
		return nil, err
	}

	inv, err := s.repo.GetInventory(ctx, user)
	if err != nil {
		return nil, err
	}
	if inv != nil {
		return inv, nil
	}

	logger.FromContext(ctx).Info(LogMsgProvisioning, "user", user)
	return s.repo.EnsureInventory(ctx, user)
}

func (s *service) Peek(ctx context.Context, user string) (*domain.Inventory, error) {
	user, err := domain.NormalizeUser(user)
	if err != nil {
		return nil, err
	}

	inv, err := s.repo.GetInventory(ctx, user)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return domain.NewInventory(user), nil
	}
	return inv, nil
}

func (s *service) ReplaceSlot(ctx context.Context, user string, n int, slot domain.Slot, expectedVersion *int64) (*domain.Inventory, error) {
	if err := domain.ValidateSlotNumber(n); err != nil {
		return nil, err
	}
	slot = slot.Normalized(n)
	if err := slot.Validate(); err != nil {
		return nil, err
	}

	return s.mutate(ctx, user, metrics.OperationReplace, expectedVersion, func(tx repository.InventoryTx, user string) error {
		_, err := tx.ReplaceSlot(ctx, user, slot)
		return err
	})
}

func (s *service) ClearSlot(ctx context.Context, user string, n int, expectedVersion *int64) (*domain.Inventory, error) {
	if err := domain.ValidateSlotNumber(n); err != nil {
		return nil, err
	}

	return s.mutate(ctx, user, metrics.OperationClear, expectedVersion, func(tx repository.InventoryTx, user string) error {
		_, err := tx.ReplaceSlot(ctx, user, domain.EmptySlot(n))
		return err
	})
}

// mutate locks the user, checks the expected version, applies write and
// returns the committed inventory
func (s *service) mutate(ctx context.Context, user, operation string, expectedVersion *int64, write func(tx repository.InventoryTx, user string) error) (*domain.Inventory, error) {
	user, err := domain.NormalizeUser(user)
	if err != nil {
		return nil, err
	}
	log := logger.FromContext(logger.WithUser(ctx, user))

	var result *domain.Inventory
	err = repository.WithUserLock(ctx, s.repo, user, func(tx repository.InventoryTx) error {
		current, err := tx.GetInventoryForUpdate(ctx, user)
		if err != nil {
			return err
		}
		if expectedVersion != nil && *expectedVersion != current.Version {
			return fmt.Errorf("%w: expected version %d, current %d", domain.ErrConflict, *expectedVersion, current.Version)
		}

		if err := write(tx, user); err != nil {
			return err
		}

		result, err = tx.GetInventoryForUpdate(ctx, user)
		return err
	})
	if err != nil {
		log.Warn(LogMsgMutationFailed, "operation", operation, "error", err)
		return nil, err
	}

	metrics.SlotMutations.WithLabelValues(operation).Inc()
	if s.notifier != nil {
		s.notifier.Invalidate(user)
	}
	log.Info(LogMsgMutationCommitted, "operation", operation, "version", result.Version)
	return result, nil
}
