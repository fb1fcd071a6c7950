package inventory

// Log messages
const (
	LogMsgProvisioning      = "Provisioning inventory"
	LogMsgMutationCommitted = "Slot mutation committed"
	LogMsgMutationFailed    = "Slot mutation failed"
)
