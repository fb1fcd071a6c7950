package database

// Pool defaults
const (
	// DefaultMinConnections is also the floor for MaxConns
	DefaultMinConnections = 2

	DefaultApplicationName = "medi-dispenser"

	// SessionTimeZone is applied to every pooled connection
	SessionTimeZone = "UTC"
)

// Error Messages - Database Operations
const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
	ErrMsgFailedToLoadMigrations  = "failed to load migrations"
	ErrMsgFailedToMigrate         = "failed to run migrations"

	ErrMsgFailedToConnectMaintenance = "failed to connect to maintenance database"
	ErrMsgFailedToCheckDatabase      = "failed to check if database exists"
	ErrMsgFailedToCreateDatabase     = "failed to create database"
)

// Log Messages
const (
	LogMsgSuccessfullyConnectedToDatabase = "Successfully connected to the database"
	LogMsgMigrationApplied                = "Applied migration"
	LogMsgMigrationRolledBack             = "Rolled back migration"
)
