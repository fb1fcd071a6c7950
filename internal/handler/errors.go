package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details for security reasons.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	ErrMsgGenericServerError = "Something went wrong"
	ErrMsgUnavailableError   = "Server is temporarily unavailable. Please try again later."
	ErrMsgConflictError      = "Inventory changed concurrently. Reload and retry."

	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"

	// Query and path parameter error messages
	ErrMsgMissingQueryParam  = "Missing %s query parameter"
	ErrMsgInvalidSlotNumber  = "Invalid slot number"
	ErrMsgSlotNumberMismatch = "slot_number in body does not match path"
	ErrMsgInvalidIfMatch     = "Invalid If-Match header"
	ErrMsgInvalidLimit       = "Invalid limit parameter"
	ErrMsgInvalidTimeParam   = "time must be HH:MM"
	ErrMsgUnauthenticated    = "Authentication required"

	// Operation names used in logs
	OpGetInventory   = "Failed to get inventory"
	OpReplaceSlot    = "Failed to replace slot"
	OpClearSlot      = "Failed to clear slot"
	OpSkipDose       = "Failed to mark dose skipped"
	OpListAlarms     = "Failed to list alarms"
	OpDeviceDispense = "Failed to dispense"
	OpGetLogs        = "Failed to get logs"
)

// Success messages for API responses
const (
	MsgDoseSkipped        = "Dose marked skipped"
	MsgDoseAlreadyHandled = "Dose already handled"
)
