package domain

import "time"

// LogStatus is the recorded result of one scheduled dispense event
type LogStatus string

const (
	LogStatusTaken        LogStatus = "Taken"
	LogStatusInsufficient LogStatus = "Insufficient"
	LogStatusSkipped      LogStatus = "Skipped"
)

// LogEntry is an immutable dispense history record
type LogEntry struct {
	ID           int64     `json:"id"`
	User         string    `json:"user_email"`
	SlotNumber   int       `json:"slot_number"`
	MedicineName string    `json:"medicine_name"`
	Dosage       int       `json:"dosage"`
	ScheduleTime string    `json:"schedule_time"`
	EventDate    string    `json:"event_date"`
	Status       LogStatus `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
}

// DispenseKey identifies one scheduled dispense event. At most one log
// entry claims a given key.
type DispenseKey struct {
	User         string
	SlotNumber   int
	ScheduleTime string
	Date         string
}

// OutcomeKind enumerates what a dispense attempt did
type OutcomeKind string

const (
	OutcomeDispensed         OutcomeKind = "dispensed"
	OutcomeInsufficientStock OutcomeKind = "insufficient_stock"
	OutcomeSlotNotFound      OutcomeKind = "slot_not_found"
	// OutcomeAlreadyHandled means the event key was claimed by an earlier call
	OutcomeAlreadyHandled OutcomeKind = "already_handled"
)

// Outcome is the result of a dispense attempt. Remaining is set for
// OutcomeDispensed and OutcomeInsufficientStock.
type Outcome struct {
	Kind      OutcomeKind `json:"outcome"`
	Remaining int         `json:"remaining"`
}

// Dispensed builds a successful outcome
func Dispensed(remaining int) Outcome {
	return Outcome{Kind: OutcomeDispensed, Remaining: remaining}
}

// DispensedItem is what the device is told to physically release
type DispensedItem struct {
	SlotNumber   int    `json:"slot_number"`
	Dosage       int    `json:"dosage"`
	MedicineName string `json:"medicine_name"`
}
