package dispense

import (
	"context"
	"time"

	"github.com/osse101/MediDispenser_Go/internal/domain"
	"github.com/osse101/MediDispenser_Go/internal/logger"
	"github.com/osse101/MediDispenser_Go/internal/metrics"
	"github.com/osse101/MediDispenser_Go/internal/repository"
)

// Skipper records missed doses
type Skipper interface {
	MarkSkipped(ctx context.Context, user string, slotNumber int, scheduleTime, date string) (bool, error)
}

// SkipSweepJob marks scheduled events that passed without a dispense as
// Skipped. It runs on the worker pool.
type SkipSweepJob struct {
	repo    repository.Inventory
	skipper Skipper
	grace   time.Duration
	loc     *time.Location
	now     func() time.Time
}

// NewSkipSweepJob creates a sweep over events older than grace, evaluated in loc
func NewSkipSweepJob(repo repository.Inventory, skipper Skipper, grace time.Duration, loc *time.Location) *SkipSweepJob {
	return &SkipSweepJob{
		repo:    repo,
		skipper: skipper,
		grace:   grace,
		loc:     loc,
		now:     time.Now,
	}
}

// WithClock overrides the time source
func (j *SkipSweepJob) WithClock(now func() time.Time) *SkipSweepJob {
	j.now = now
	return j
}

func (j *SkipSweepJob) String() string { return "skip-sweep" }

// Process implements worker.Job
func (j *SkipSweepJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)
	now := j.now().In(j.loc)
	cutoff := now.Add(-j.grace)

	slots, err := j.repo.ListConfiguredSlots(ctx)
	if err != nil {
		log.Error(LogMsgSweepListFailed, "error", err)
		metrics.SkipSweepRuns.WithLabelValues(metrics.ResultError).Inc()
		return err
	}
	log.Debug(LogMsgSweepStarted, "slots", len(slots), "cutoff", cutoff)

	marked := 0
	var firstErr error
	for _, cs := range slots {
		for _, ev := range missedEvents(cs, now, cutoff, j.loc) {
			ok, err := j.skipper.MarkSkipped(ctx, cs.User, cs.Slot.SlotNumber, ev.time, ev.date)
			if err != nil {
				// a slot reconfigured mid-sweep rejects stale times; keep going
				log.Warn(LogMsgSweepSlotFailed, "user", cs.User, "slot", cs.Slot.SlotNumber, "error", err)
				if !domain.IsValidation(err) && firstErr == nil {
					firstErr = err
				}
				continue
			}
			if ok {
				marked++
			}
		}
	}

	metrics.SkipSweepMarked.Add(float64(marked))
	if firstErr != nil {
		metrics.SkipSweepRuns.WithLabelValues(metrics.ResultError).Inc()
		return firstErr
	}
	metrics.SkipSweepRuns.WithLabelValues(metrics.ResultSuccess).Inc()
	log.Debug(LogMsgSweepCompleted, "marked", marked)
	return nil
}

type event struct {
	date string
	time string
}

// missedEvents lists the slot's events from yesterday and today whose instant
// is at or before cutoff and not before the slot was configured
func missedEvents(cs repository.ConfiguredSlot, now, cutoff time.Time, loc *time.Location) []event {
	var out []event
	for back := sweepLookbackDays; back >= 0; back-- {
		date := domain.DateOf(now.AddDate(0, 0, -back))
		for _, sch := range cs.Slot.Schedules {
			at, err := domain.EventInstant(date, sch.Time, loc)
			if err != nil {
				continue
			}
			if at.After(cutoff) || at.Before(cs.ConfiguredAt) {
				continue
			}
			out = append(out, event{date: date, time: sch.Time})
		}
	}
	return out
}
