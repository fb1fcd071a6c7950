package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
	// PgErrorCodeCheckViolation is raised by the stock CHECK constraints
	PgErrorCodeCheckViolation = "23514"
	// PgErrorCodeSerializationFailure and PgErrorCodeDeadlockDetected abort a transaction that may be retried
	PgErrorCodeSerializationFailure = "40001"
	PgErrorCodeDeadlockDetected     = "40P01"
)

// Advisory lock key derivation
const (
	HashSeparator         = ":"
	HashMaskPositiveInt64 = 0x7FFFFFFFFFFFFFFF
	LockScopeInventory    = "inventory"
)

// SQL statements
const (
	SQLAdvisoryLock = `SELECT pg_advisory_xact_lock($1)`

	SQLInsertInventory = `
		INSERT INTO inventories (user_email)
		VALUES ($1)
		ON CONFLICT (user_email) DO NOTHING`

	// Also backfills any slot row missing from an older record
	SQLInsertEmptySlots = `
		INSERT INTO inventory_slots (user_email, slot_number)
		SELECT $1, n FROM generate_series(1, $2::int) AS n
		ON CONFLICT (user_email, slot_number) DO NOTHING`

	SQLSelectInventory = `
		SELECT version, updated_at
		FROM inventories
		WHERE user_email = $1`

	SQLSelectSlots = `
		SELECT slot_number, medicine_name, total_tablets, tablets_left, schedules
		FROM inventory_slots
		WHERE user_email = $1
		ORDER BY slot_number`

	SQLForUpdate = ` FOR UPDATE`

	SQLReplaceSlot = `
		UPDATE inventory_slots
		SET medicine_name = $3, total_tablets = $4, tablets_left = $5, schedules = $6,
		    configured_at = NOW(), updated_at = NOW()
		WHERE user_email = $1 AND slot_number = $2`

	SQLUpdateStock = `
		UPDATE inventory_slots
		SET tablets_left = $3, updated_at = NOW()
		WHERE user_email = $1 AND slot_number = $2`

	SQLBumpVersion = `
		UPDATE inventories
		SET version = version + 1, updated_at = NOW()
		WHERE user_email = $1
		RETURNING version`

	SQLSelectConfiguredSlots = `
		SELECT user_email, slot_number, medicine_name, total_tablets, tablets_left, schedules, configured_at
		FROM inventory_slots
		WHERE medicine_name <> '' AND jsonb_array_length(schedules) > 0
		ORDER BY user_email, slot_number`

	SQLClaimExists = `
		SELECT EXISTS (
			SELECT 1 FROM dispense_logs
			WHERE user_email = $1 AND slot_number = $2 AND schedule_time = $3 AND event_date = $4::date
		)`

	SQLInsertLog = `
		INSERT INTO dispense_logs (user_email, slot_number, medicine_name, dosage, schedule_time, event_date, status)
		VALUES ($1, $2, $3, $4, $5, $6::date, $7)
		ON CONFLICT (user_email, slot_number, schedule_time, event_date) DO NOTHING
		RETURNING id, created_at`

	SQLSelectLogs = `
		SELECT id, user_email, slot_number, medicine_name, dosage, schedule_time, event_date::text, status, created_at
		FROM dispense_logs
		WHERE user_email = $1
		ORDER BY id DESC
		LIMIT $2`
)

// Error message formats
const (
	ErrMsgBeginTransactionFailed  = "failed to begin transaction"
	ErrMsgCommitTransactionFailed = "failed to commit transaction"
	ErrMsgAcquireLockFailed       = "failed to acquire advisory lock"
	ErrMsgProvisionFailed         = "failed to provision inventory"
	ErrMsgGetInventoryFailed      = "failed to get inventory"
	ErrMsgGetSlotsFailed          = "failed to get slots"
	ErrMsgReplaceSlotFailed       = "failed to replace slot"
	ErrMsgUpdateStockFailed       = "failed to update stock"
	ErrMsgBumpVersionFailed       = "failed to bump inventory version"
	ErrMsgListSlotsFailed         = "failed to list configured slots"
	ErrMsgClaimCheckFailed        = "failed to check dispense claim"
	ErrMsgAppendLogFailed         = "failed to append dispense log"
	ErrMsgListLogsFailed          = "failed to list dispense logs"
	ErrMsgSlotRowMissing          = "slot row missing"
)
