// Package mocks holds testify mocks of the repository interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/MediDispenser_Go/internal/domain"
	"github.com/osse101/MediDispenser_Go/internal/repository"
)

// MockInventoryRepository is a mock implementation of repository.Inventory
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) GetInventory(ctx context.Context, user string) (*domain.Inventory, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) EnsureInventory(ctx context.Context, user string) (*domain.Inventory, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Inventory), args.Error(1)
}

func (m *MockInventoryRepository) ListConfiguredSlots(ctx context.Context) ([]repository.ConfiguredSlot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.ConfiguredSlot), args.Error(1)
}

func (m *MockInventoryRepository) BeginTx(ctx context.Context) (repository.InventoryTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.InventoryTx), args.Error(1)
}

// MockInventoryTx is a mock implementation of repository.InventoryTx
type MockInventoryTx struct {
	mock.Mock
}

func (m *MockInventoryTx) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockInventoryTx) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockInventoryTx) LockUser(ctx context.Context, user string) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockInventoryTx) GetInventoryForUpdate(ctx context.Context, user string) (*domain.Inventory, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Inventory), args.Error(1)
}

func (m *MockInventoryTx) ReplaceSlot(ctx context.Context, user string, slot domain.Slot) (int64, error) {
	args := m.Called(ctx, user, slot)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInventoryTx) UpdateStock(ctx context.Context, user string, slotNumber, tabletsLeft int) (int64, error) {
	args := m.Called(ctx, user, slotNumber, tabletsLeft)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInventoryTx) IsClaimed(ctx context.Context, key domain.DispenseKey) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockInventoryTx) AppendLog(ctx context.Context, entry *domain.LogEntry) (bool, error) {
	args := m.Called(ctx, entry)
	return args.Bool(0), args.Error(1)
}

// MockDispenseLogRepository is a mock implementation of repository.DispenseLog
type MockDispenseLogRepository struct {
	mock.Mock
}

func (m *MockDispenseLogRepository) ListLogs(ctx context.Context, user string, limit int) ([]domain.LogEntry, error) {
	args := m.Called(ctx, user, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LogEntry), args.Error(1)
}
