package dispense

// Log messages
const (
	LogMsgDispensed         = "Dose dispensed"
	LogMsgInsufficientStock = "Insufficient stock for scheduled dose"
	LogMsgSlotNotFound      = "Dispense requested for unconfigured slot"
	LogMsgAlreadyHandled    = "Scheduled dose already handled"
	LogMsgSkipped           = "Scheduled dose marked skipped"
	LogMsgDispenseFailed    = "Dispense failed"
	LogMsgSweepStarted      = "Missed-dose sweep started"
	LogMsgSweepCompleted    = "Missed-dose sweep completed"
	LogMsgSweepSlotFailed   = "Missed-dose sweep failed for slot"
	LogMsgSweepListFailed   = "Missed-dose sweep could not list slots"
)

// sweepLookbackDays covers events of yesterday and today
const sweepLookbackDays = 1
