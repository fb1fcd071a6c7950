// Package dispense reconciles scheduled doses against slot stock and records
// exactly one log entry per scheduled event.
package dispense

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/MediDispenser_Go/internal/domain"
	"github.com/osse101/MediDispenser_Go/internal/logger"
	"github.com/osse101/MediDispenser_Go/internal/metrics"
	"github.com/osse101/MediDispenser_Go/internal/repository"
	"github.com/osse101/MediDispenser_Go/internal/schedule"
)

// errClaimLost aborts a transaction whose log insert found the key taken
var errClaimLost = errors.New("event key claimed by another writer")

// Executor performs dispense attempts against the store
type Executor struct {
	repo      repository.Inventory
	inventory schedule.InventoryReader
}

// NewExecutor creates an executor
func NewExecutor(repo repository.Inventory, inventory schedule.InventoryReader) *Executor {
	return &Executor{repo: repo, inventory: inventory}
}

// attempt is the committed result of one dispense together with the dose the
// locked slot actually held
type attempt struct {
	outcome      domain.Outcome
	dosage       int
	medicineName string
}

// Dispense attempts one scheduled dose. The event key is
// (user, slotNumber, scheduleTime, date of instant); a key that already has a
// log entry yields OutcomeAlreadyHandled without touching stock.
func (e *Executor) Dispense(ctx context.Context, user string, slotNumber, dosage int, scheduleTime string, instant time.Time) (domain.Outcome, error) {
	user, err := domain.NormalizeUser(user)
	if err != nil {
		return domain.Outcome{}, err
	}
	if err := domain.ValidateSlotNumber(slotNumber); err != nil {
		return domain.Outcome{}, err
	}
	if dosage <= 0 {
		return domain.Outcome{}, fmt.Errorf("%w: dosage must be greater than 0", domain.ErrInvalidSchedule)
	}
	if !domain.IsCanonicalTime(scheduleTime) {
		return domain.Outcome{}, fmt.Errorf("%w: %q is not HH:MM", domain.ErrInvalidTime, scheduleTime)
	}

	key := domain.DispenseKey{
		User:         user,
		SlotNumber:   slotNumber,
		ScheduleTime: scheduleTime,
		Date:         domain.DateOf(instant),
	}
	res, err := e.dispense(ctx, key, dosage)
	return res.outcome, err
}

// dispense runs one attempt for an already validated key
func (e *Executor) dispense(ctx context.Context, key domain.DispenseKey, dosage int) (attempt, error) {
	ctx = logger.WithUser(ctx, key.User)
	log := logger.FromContext(ctx)

	var res attempt
	err := repository.WithUserLock(ctx, e.repo, key.User, func(tx repository.InventoryTx) error {
		var err error
		res, err = e.dispenseTx(ctx, tx, key, dosage)
		return err
	})
	if errors.Is(err, errClaimLost) {
		res, err = attempt{outcome: domain.Outcome{Kind: domain.OutcomeAlreadyHandled}}, nil
	}
	if err != nil {
		log.Error(LogMsgDispenseFailed, "slot", key.SlotNumber, "schedule_time", key.ScheduleTime, "error", err)
		return attempt{}, err
	}

	metrics.DispenseOutcomes.WithLabelValues(string(res.outcome.Kind)).Inc()
	switch res.outcome.Kind {
	case domain.OutcomeDispensed:
		log.Info(LogMsgDispensed, "slot", key.SlotNumber, "dosage", res.dosage, "remaining", res.outcome.Remaining)
	case domain.OutcomeInsufficientStock:
		log.Warn(LogMsgInsufficientStock, "slot", key.SlotNumber, "dosage", res.dosage, "remaining", res.outcome.Remaining)
	case domain.OutcomeSlotNotFound:
		log.Warn(LogMsgSlotNotFound, "slot", key.SlotNumber, "schedule_time", key.ScheduleTime)
	case domain.OutcomeAlreadyHandled:
		log.Debug(LogMsgAlreadyHandled, "slot", key.SlotNumber, "schedule_time", key.ScheduleTime)
	}
	return res, nil
}

func (e *Executor) dispenseTx(ctx context.Context, tx repository.InventoryTx, key domain.DispenseKey, requested int) (attempt, error) {
	inv, err := tx.GetInventoryForUpdate(ctx, key.User)
	if err != nil {
		return attempt{}, err
	}

	slot := inv.Slot(key.SlotNumber)
	if slot == nil || !slot.IsConfigured() {
		return attempt{outcome: domain.Outcome{Kind: domain.OutcomeSlotNotFound}}, nil
	}
	// The caller may hold a stale read; only a dose the locked slot still has is dispensed
	dosage, ok := scheduledDosage(*slot, key.ScheduleTime, requested)
	if !ok {
		return attempt{outcome: domain.Outcome{Kind: domain.OutcomeSlotNotFound}}, nil
	}
	res := attempt{dosage: dosage, medicineName: slot.MedicineName}

	claimed, err := tx.IsClaimed(ctx, key)
	if err != nil {
		return attempt{}, err
	}
	if claimed {
		res.outcome = domain.Outcome{Kind: domain.OutcomeAlreadyHandled}
		return res, nil
	}

	entry := &domain.LogEntry{
		User:         key.User,
		SlotNumber:   key.SlotNumber,
		MedicineName: slot.MedicineName,
		Dosage:       dosage,
		ScheduleTime: key.ScheduleTime,
		EventDate:    key.Date,
	}

	if slot.TabletsLeft < dosage {
		entry.Status = domain.LogStatusInsufficient
		if err := appendClaim(ctx, tx, entry); err != nil {
			return attempt{}, err
		}
		res.outcome = domain.Outcome{Kind: domain.OutcomeInsufficientStock, Remaining: slot.TabletsLeft}
		return res, nil
	}

	remaining := slot.TabletsLeft - dosage
	if _, err := tx.UpdateStock(ctx, key.User, key.SlotNumber, remaining); err != nil {
		return attempt{}, err
	}
	entry.Status = domain.LogStatusTaken
	if err := appendClaim(ctx, tx, entry); err != nil {
		return attempt{}, err
	}
	res.outcome = domain.Dispensed(remaining)
	return res, nil
}

// appendClaim inserts entry or aborts the transaction when the key is taken
func appendClaim(ctx context.Context, tx repository.InventoryTx, entry *domain.LogEntry) error {
	inserted, err := tx.AppendLog(ctx, entry)
	if err != nil {
		return err
	}
	if !inserted {
		return errClaimLost
	}
	return nil
}

// DispenseDue runs every dose scheduled for instant's minute and returns the
// ones that were actually dispensed. Unknown users are not provisioned.
// On a store failure the items dispensed before it are returned with the error.
func (e *Executor) DispenseDue(ctx context.Context, user string, instant time.Time) ([]domain.DispensedItem, error) {
	user, err := domain.NormalizeUser(user)
	if err != nil {
		return nil, err
	}
	inv, err := e.inventory.Peek(ctx, user)
	if err != nil {
		return nil, err
	}

	items := []domain.DispensedItem{}
	for _, due := range schedule.Match(inv, instant) {
		res, err := e.dispense(ctx, due.Key(user), due.Dosage)
		if err != nil {
			return items, err
		}
		if res.outcome.Kind != domain.OutcomeDispensed {
			continue
		}
		items = append(items, domain.DispensedItem{
			SlotNumber:   due.SlotNumber,
			Dosage:       res.dosage,
			MedicineName: res.medicineName,
		})
	}
	return items, nil
}

// MarkSkipped records a Skipped entry for an unclaimed scheduled event. It
// returns false when the event already has a log entry.
func (e *Executor) MarkSkipped(ctx context.Context, user string, slotNumber int, scheduleTime, date string) (bool, error) {
	user, err := domain.NormalizeUser(user)
	if err != nil {
		return false, err
	}
	if err := domain.ValidateSlotNumber(slotNumber); err != nil {
		return false, err
	}
	if !domain.IsCanonicalTime(scheduleTime) {
		return false, fmt.Errorf("%w: %q is not HH:MM", domain.ErrInvalidTime, scheduleTime)
	}
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return false, fmt.Errorf("%w: %q is not YYYY-MM-DD", domain.ErrInvalidTime, date)
	}

	ctx = logger.WithUser(ctx, user)
	key := domain.DispenseKey{User: user, SlotNumber: slotNumber, ScheduleTime: scheduleTime, Date: date}

	var marked bool
	err = repository.WithUserLock(ctx, e.repo, user, func(tx repository.InventoryTx) error {
		inv, err := tx.GetInventoryForUpdate(ctx, user)
		if err != nil {
			return err
		}
		slot := inv.Slot(slotNumber)
		if !slot.IsConfigured() {
			return fmt.Errorf("%w: slot %d is not configured", domain.ErrInvalidSchedule, slotNumber)
		}
		dosage, ok := dosageAt(*slot, scheduleTime)
		if !ok {
			return fmt.Errorf("%w: slot %d has no dose at %s", domain.ErrInvalidSchedule, slotNumber, scheduleTime)
		}

		claimed, err := tx.IsClaimed(ctx, key)
		if err != nil || claimed {
			return err
		}
		marked, err = tx.AppendLog(ctx, &domain.LogEntry{
			User:         user,
			SlotNumber:   slotNumber,
			MedicineName: slot.MedicineName,
			Dosage:       dosage,
			ScheduleTime: scheduleTime,
			EventDate:    date,
			Status:       domain.LogStatusSkipped,
		})
		return err
	})
	if err != nil {
		return false, err
	}
	if marked {
		logger.FromContext(ctx).Info(LogMsgSkipped, "slot", slotNumber, "schedule_time", scheduleTime, "date", date)
	}
	return marked, nil
}

// scheduledDosage returns the dosage of the schedule at scheduleTime, preferring
// one whose dosage equals requested
func scheduledDosage(slot domain.Slot, scheduleTime string, requested int) (int, bool) {
	dosage, ok := dosageAt(slot, scheduleTime)
	for _, sch := range slot.Schedules {
		if sch.Time == scheduleTime && sch.Dosage == requested {
			return requested, true
		}
	}
	return dosage, ok
}

func dosageAt(slot domain.Slot, scheduleTime string) (int, bool) {
	for _, sch := range slot.Schedules {
		if sch.Time == scheduleTime {
			return sch.Dosage, true
		}
	}
	return 0, false
}
