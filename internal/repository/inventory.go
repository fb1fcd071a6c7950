package repository

import (
	"context"
	"time"

	"github.com/osse101/MediDispenser_Go/internal/domain"
)

// Inventory defines the interface for slot persistence.
// Slots are addressed individually by (user, slot_number); no method
// rewrites the whole slot array.
type Inventory interface {
	// GetInventory returns nil, nil when the user has never been provisioned
	GetInventory(ctx context.Context, user string) (*domain.Inventory, error)

	// EnsureInventory provisions the empty slots if absent. Safe to race.
	EnsureInventory(ctx context.Context, user string) (*domain.Inventory, error)

	// ListConfiguredSlots returns every slot with a medicine and at least one schedule
	ListConfiguredSlots(ctx context.Context) ([]ConfiguredSlot, error)

	BeginTx(ctx context.Context) (InventoryTx, error)
}

// InventoryTx is a unit of work holding the per-user mutation lock once LockUser returns.
type InventoryTx interface {
	Tx

	// LockUser serialises all mutations for user until the transaction ends
	LockUser(ctx context.Context, user string) error

	// GetInventoryForUpdate provisions if needed and returns the locked inventory
	GetInventoryForUpdate(ctx context.Context, user string) (*domain.Inventory, error)

	// ReplaceSlot overwrites one slot's contents, marks it reconfigured and
	// returns the new inventory version
	ReplaceSlot(ctx context.Context, user string, slot domain.Slot) (int64, error)

	// UpdateStock sets tablets_left for one slot and returns the new inventory version
	UpdateStock(ctx context.Context, user string, slotNumber, tabletsLeft int) (int64, error)

	// IsClaimed reports whether a log entry already exists for the event key
	IsClaimed(ctx context.Context, key domain.DispenseKey) (bool, error)

	// AppendLog inserts entry and fills its ID and Timestamp. It returns false
	// without writing when the event key is already claimed.
	AppendLog(ctx context.Context, entry *domain.LogEntry) (bool, error)
}

// DispenseLog defines read access to the dispense history
type DispenseLog interface {
	// ListLogs returns the newest entries first
	ListLogs(ctx context.Context, user string, limit int) ([]domain.LogEntry, error)
}

// ConfiguredSlot is a projection used by the missed-dose sweeper
type ConfiguredSlot struct {
	User         string
	Slot         domain.Slot
	ConfiguredAt time.Time
}
