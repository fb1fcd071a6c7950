// Package memory is a process-local store with the same locking and claim
// semantics as the PostgreSQL repositories. It backs STORE_BACKEND=memory
// and the service tests.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/osse101/MediDispenser_Go/internal/concurrency"
	"github.com/osse101/MediDispenser_Go/internal/domain"
	"github.com/osse101/MediDispenser_Go/internal/repository"
)

var errClosed = fmt.Errorf("%w: memory store closed", domain.ErrStoreUnavailable)

type record struct {
	inv          domain.Inventory
	configuredAt [domain.SlotCount]time.Time
}

func (r *record) clone() *record {
	out := &record{inv: r.inv, configuredAt: r.configuredAt}
	for i := range out.inv.Slots {
		out.inv.Slots[i] = r.inv.Slots[i].Normalized(i + 1)
	}
	return out
}

func (r *record) inventory() *domain.Inventory {
	inv := r.clone().inv
	return &inv
}

// Store implements repository.Inventory and repository.DispenseLog
type Store struct {
	mu          sync.RWMutex
	locks       *concurrency.LockManager
	inventories map[string]*record
	logs        []domain.LogEntry
	claims      map[domain.DispenseKey]struct{}
	nextID      int64
	closed      bool

	now func() time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		locks:       concurrency.NewLockManager(),
		inventories: make(map[string]*record),
		claims:      make(map[domain.DispenseKey]struct{}),
		now:         time.Now,
	}
}

// WithClock overrides the timestamp source
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Ping reports whether the store is open
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errClosed
	}
	return nil
}

// Close makes every further call fail with ErrStoreUnavailable
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Store) GetInventory(_ context.Context, user string) (*domain.Inventory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed
	}
	rec, ok := s.inventories[user]
	if !ok {
		return nil, nil
	}
	return rec.inventory(), nil
}

func (s *Store) EnsureInventory(_ context.Context, user string) (*domain.Inventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errClosed
	}
	return s.provisionLocked(user).inventory(), nil
}

func (s *Store) provisionLocked(user string) *record {
	rec, ok := s.inventories[user]
	if !ok {
		rec = &record{inv: *domain.NewInventory(user)}
		rec.inv.UpdatedAt = s.now()
		s.inventories[user] = rec
	}
	return rec
}

func (s *Store) ListConfiguredSlots(_ context.Context) ([]repository.ConfiguredSlot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed
	}

	users := make([]string, 0, len(s.inventories))
	for u := range s.inventories {
		users = append(users, u)
	}
	sort.Strings(users)

	var out []repository.ConfiguredSlot
	for _, u := range users {
		rec := s.inventories[u]
		for i, slot := range rec.inv.Slots {
			if !slot.IsConfigured() || len(slot.Schedules) == 0 {
				continue
			}
			out = append(out, repository.ConfiguredSlot{
				User:         u,
				Slot:         slot.Normalized(i + 1),
				ConfiguredAt: rec.configuredAt[i],
			})
		}
	}
	return out, nil
}

// ListLogs returns the newest entries first
func (s *Store) ListLogs(_ context.Context, user string, limit int) ([]domain.LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed
	}

	out := []domain.LogEntry{}
	for i := len(s.logs) - 1; i >= 0 && len(out) < limit; i-- {
		if s.logs[i].User == user {
			out = append(out, s.logs[i])
		}
	}
	return out, nil
}

func (s *Store) BeginTx(ctx context.Context) (repository.InventoryTx, error) {
	if err := s.Ping(ctx); err != nil {
		return nil, err
	}
	return &tx{
		s:      s,
		held:   make(map[string]func()),
		staged: make(map[string]*record),
		claims: make(map[domain.DispenseKey]struct{}),
	}, nil
}

// tx stages writes and applies them atomically on Commit
type tx struct {
	s      *Store
	held   map[string]func()
	staged map[string]*record
	logs   []domain.LogEntry
	claims map[domain.DispenseKey]struct{}
	done   bool
}

func (t *tx) release() {
	for _, unlock := range t.held {
		unlock()
	}
	t.held = nil
	t.done = true
}

func (t *tx) Commit(_ context.Context) error {
	if t.done {
		return errors.New(domain.ErrMsgTxClosed)
	}
	defer t.release()

	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.s.closed {
		return errClosed
	}
	for user, rec := range t.staged {
		t.s.inventories[user] = rec
	}
	for k := range t.claims {
		t.s.claims[k] = struct{}{}
	}
	t.s.logs = append(t.s.logs, t.logs...)
	return nil
}

func (t *tx) Rollback(_ context.Context) error {
	if t.done {
		return errors.New(domain.ErrMsgTxClosed)
	}
	t.release()
	return nil
}

func (t *tx) LockUser(_ context.Context, user string) error {
	if t.done {
		return errors.New(domain.ErrMsgTxClosed)
	}
	if _, ok := t.held[user]; ok {
		return nil
	}
	t.held[user] = t.s.locks.Lock(user)
	return nil
}

// stage returns the transaction's private copy of user's record, provisioning it
func (t *tx) stage(user string) (*record, error) {
	if rec, ok := t.staged[user]; ok {
		return rec, nil
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	if t.s.closed {
		return nil, errClosed
	}
	rec, ok := t.s.inventories[user]
	if ok {
		rec = rec.clone()
	} else {
		rec = &record{inv: *domain.NewInventory(user)}
		rec.inv.UpdatedAt = t.s.now()
	}
	t.staged[user] = rec
	return rec, nil
}

func (t *tx) GetInventoryForUpdate(_ context.Context, user string) (*domain.Inventory, error) {
	rec, err := t.stage(user)
	if err != nil {
		return nil, err
	}
	return rec.inventory(), nil
}

func (t *tx) ReplaceSlot(_ context.Context, user string, slot domain.Slot) (int64, error) {
	if err := domain.ValidateSlotNumber(slot.SlotNumber); err != nil {
		return 0, err
	}
	if err := slot.Validate(); err != nil {
		return 0, err
	}
	rec, err := t.stage(user)
	if err != nil {
		return 0, err
	}
	now := t.s.now()
	rec.inv.Slots[slot.SlotNumber-1] = slot.Normalized(slot.SlotNumber)
	rec.configuredAt[slot.SlotNumber-1] = now
	rec.inv.Version++
	rec.inv.UpdatedAt = now
	return rec.inv.Version, nil
}

func (t *tx) UpdateStock(_ context.Context, user string, slotNumber, tabletsLeft int) (int64, error) {
	if err := domain.ValidateSlotNumber(slotNumber); err != nil {
		return 0, err
	}
	rec, err := t.stage(user)
	if err != nil {
		return 0, err
	}
	slot := &rec.inv.Slots[slotNumber-1]
	if tabletsLeft < 0 || tabletsLeft > slot.TotalTablets {
		return 0, fmt.Errorf("%w: tablets_left %d outside 0..%d", domain.ErrInvalidStock, tabletsLeft, slot.TotalTablets)
	}
	slot.TabletsLeft = tabletsLeft
	rec.inv.Version++
	rec.inv.UpdatedAt = t.s.now()
	return rec.inv.Version, nil
}

func (t *tx) IsClaimed(_ context.Context, key domain.DispenseKey) (bool, error) {
	if _, ok := t.claims[key]; ok {
		return true, nil
	}
	t.s.mu.RLock()
	defer t.s.mu.RUnlock()
	if t.s.closed {
		return false, errClosed
	}
	_, ok := t.s.claims[key]
	return ok, nil
}

func (t *tx) AppendLog(ctx context.Context, entry *domain.LogEntry) (bool, error) {
	key := domain.DispenseKey{
		User:         entry.User,
		SlotNumber:   entry.SlotNumber,
		ScheduleTime: entry.ScheduleTime,
		Date:         entry.EventDate,
	}
	claimed, err := t.IsClaimed(ctx, key)
	if err != nil {
		return false, err
	}
	if claimed {
		return false, nil
	}

	t.s.mu.Lock()
	t.s.nextID++
	entry.ID = t.s.nextID
	t.s.mu.Unlock()
	entry.Timestamp = t.s.now()

	t.claims[key] = struct{}{}
	t.logs = append(t.logs, *entry)
	return true, nil
}
