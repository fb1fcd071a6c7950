// Package schedule turns slot schedules into due doses and alarm lists.
package schedule

import (
	"time"

	"github.com/osse101/MediDispenser_Go/internal/domain"
)

// Due is one (slot, schedule) pair whose time equals the queried minute
type Due struct {
	SlotNumber   int
	MedicineName string
	Dosage       int
	ScheduleTime string
	Date         string
}

// Key returns the idempotency key of the scheduled event
func (d Due) Key(user string) domain.DispenseKey {
	return domain.DispenseKey{
		User:         user,
		SlotNumber:   d.SlotNumber,
		ScheduleTime: d.ScheduleTime,
		Date:         d.Date,
	}
}

// Match returns the doses due at instant's minute, ordered by slot number and
// then by stored schedule order. A slot with several schedules at the same
// minute contributes one entry per schedule; they share one event key.
func Match(inv *domain.Inventory, instant time.Time) []Due {
	if inv == nil {
		return nil
	}
	minute := domain.MinuteOf(instant)
	date := domain.DateOf(instant)

	var due []Due
	for _, slot := range inv.Slots {
		if !slot.IsConfigured() {
			continue
		}
		for _, sch := range slot.Schedules {
			if sch.Time != minute {
				continue
			}
			due = append(due, Due{
				SlotNumber:   slot.SlotNumber,
				MedicineName: slot.MedicineName,
				Dosage:       sch.Dosage,
				ScheduleTime: sch.Time,
				Date:         date,
			})
		}
	}
	return due
}
