package schedule

import (
	"context"
	"sort"

	"github.com/osse101/MediDispenser_Go/internal/domain"
)

// InventoryReader is the read side of the slot inventory
type InventoryReader interface {
	Peek(ctx context.Context, user string) (*domain.Inventory, error)
}

// AlarmService answers the device's alarm query
type AlarmService struct {
	inventory InventoryReader
	cache     *AlarmCache
}

// NewAlarmService creates an alarm service. cache may be nil.
func NewAlarmService(inventory InventoryReader, cache *AlarmCache) *AlarmService {
	return &AlarmService{inventory: inventory, cache: cache}
}

// ListAlarms returns the distinct schedule times of the user's configured
// slots in ascending order. Unknown users get an empty list.
func (s *AlarmService) ListAlarms(ctx context.Context, user string) ([]string, error) {
	user, err := domain.NormalizeUser(user)
	if err != nil {
		return nil, err
	}

	var epoch uint64
	if s.cache != nil {
		alarms, e, ok := s.cache.Get(user)
		if ok {
			return alarms, nil
		}
		epoch = e
	}

	inv, err := s.inventory.Peek(ctx, user)
	if err != nil {
		return nil, err
	}
	alarms := Alarms(inv)

	if s.cache != nil {
		s.cache.Set(user, alarms, epoch)
	}
	return alarms, nil
}

// Alarms computes the sorted, deduplicated schedule times of inv
func Alarms(inv *domain.Inventory) []string {
	alarms := []string{}
	if inv == nil {
		return alarms
	}

	seen := make(map[string]struct{})
	for _, slot := range inv.Slots {
		if !slot.IsConfigured() {
			continue
		}
		for _, sch := range slot.Schedules {
			if _, ok := seen[sch.Time]; ok {
				continue
			}
			seen[sch.Time] = struct{}{}
			alarms = append(alarms, sch.Time)
		}
	}
	// HH:MM sorts lexically in time order
	sort.Strings(alarms)
	return alarms
}
