package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/MediDispenser_Go/internal/domain"
)

// MockInventoryService is a mock implementation of inventory.Service
type MockInventoryService struct {
	mock.Mock
}

func (m *MockInventoryService) GetOrCreate(ctx context.Context, user string) (*domain.Inventory, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Inventory), args.Error(1)
}

func (m *MockInventoryService) Peek(ctx context.Context, user string) (*domain.Inventory, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Inventory), args.Error(1)
}

func (m *MockInventoryService) ReplaceSlot(ctx context.Context, user string, n int, slot domain.Slot, expectedVersion *int64) (*domain.Inventory, error) {
	args := m.Called(ctx, user, n, slot, expectedVersion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Inventory), args.Error(1)
}

func (m *MockInventoryService) ClearSlot(ctx context.Context, user string, n int, expectedVersion *int64) (*domain.Inventory, error) {
	args := m.Called(ctx, user, n, expectedVersion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Inventory), args.Error(1)
}

// MockAlarmLister is a mock implementation of handler.AlarmLister
type MockAlarmLister struct {
	mock.Mock
}

func (m *MockAlarmLister) ListAlarms(ctx context.Context, user string) ([]string, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockDispenser is a mock implementation of handler.Dispenser
type MockDispenser struct {
	mock.Mock
}

func (m *MockDispenser) DispenseDue(ctx context.Context, user string, instant time.Time) ([]domain.DispensedItem, error) {
	args := m.Called(ctx, user, instant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DispensedItem), args.Error(1)
}

func (m *MockDispenser) MarkSkipped(ctx context.Context, user string, slotNumber int, scheduleTime, date string) (bool, error) {
	args := m.Called(ctx, user, slotNumber, scheduleTime, date)
	return args.Bool(0), args.Error(1)
}

// MockLogService is a mock implementation of dispenselog.Service
type MockLogService struct {
	mock.Mock
}

func (m *MockLogService) Query(ctx context.Context, user string, limit int) ([]domain.LogEntry, error) {
	args := m.Called(ctx, user, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LogEntry), args.Error(1)
}

// MockPinger is a mock implementation of handler.Pinger
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
