package domain

import (
	"fmt"
	"time"
)

// SlotCount is the number of physical compartments on a dispenser.
const SlotCount = 8

// Schedule is a time-of-day dose attached to a slot
type Schedule struct {
	Time   string `json:"time" validate:"required,hhmm"`
	Dosage int    `json:"dosage" validate:"gt=0"`
}

// Slot is one dispensing compartment. An empty MedicineName means unconfigured.
type Slot struct {
	SlotNumber   int        `json:"slot_number"`
	MedicineName string     `json:"medicine_name"`
	TotalTablets int        `json:"total_tablets"`
	TabletsLeft  int        `json:"tablets_left"`
	Schedules    []Schedule `json:"schedules"`
}

// Inventory is the full set of slots owned by one user
type Inventory struct {
	User      string          `json:"-"`
	Slots     [SlotCount]Slot `json:"slots"`
	Version   int64           `json:"version"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// EmptySlot returns the unconfigured defaults for slot n
func EmptySlot(n int) Slot {
	return Slot{
		SlotNumber: n,
		Schedules:  []Schedule{},
	}
}

// NewInventory returns a freshly provisioned inventory with all slots empty
func NewInventory(user string) *Inventory {
	inv := &Inventory{User: user}
	for i := range inv.Slots {
		inv.Slots[i] = EmptySlot(i + 1)
	}
	return inv
}

// Slot returns a pointer to slot n, or nil when n is out of range
func (inv *Inventory) Slot(n int) *Slot {
	if ValidateSlotNumber(n) != nil {
		return nil
	}
	return &inv.Slots[n-1]
}

// IsConfigured reports whether a medicine has been assigned to the slot
func (s Slot) IsConfigured() bool {
	return s.MedicineName != ""
}

// ValidateSlotNumber checks that n addresses one of the physical slots
func ValidateSlotNumber(n int) error {
	if n < 1 || n > SlotCount {
		return fmt.Errorf("%w: %d is outside 1..%d", ErrInvalidSlotNumber, n, SlotCount)
	}
	return nil
}

// Validate checks stock and schedule invariants. SlotNumber is not inspected;
// callers address slots by path and overwrite it.
func (s Slot) Validate() error {
	if s.TotalTablets < 0 || s.TabletsLeft < 0 {
		return fmt.Errorf("%w: tablet counts must not be negative", ErrInvalidStock)
	}
	if s.TabletsLeft > s.TotalTablets {
		return fmt.Errorf("%w: tablets_left (%d) exceeds total_tablets (%d)", ErrInvalidStock, s.TabletsLeft, s.TotalTablets)
	}
	if !s.IsConfigured() && len(s.Schedules) > 0 {
		return fmt.Errorf("%w: schedules need a medicine_name", ErrInvalidSchedule)
	}
	for i, sch := range s.Schedules {
		if !IsCanonicalTime(sch.Time) {
			return fmt.Errorf("%w: schedule %d time %q is not HH:MM", ErrInvalidSchedule, i, sch.Time)
		}
		if sch.Dosage <= 0 {
			return fmt.Errorf("%w: schedule %d dosage must be greater than 0", ErrInvalidSchedule, i)
		}
	}
	return nil
}

// Normalized returns a copy addressed to slot n with a non-nil schedule list
func (s Slot) Normalized(n int) Slot {
	out := s
	out.SlotNumber = n
	out.Schedules = make([]Schedule, len(s.Schedules))
	copy(out.Schedules, s.Schedules)
	return out
}
