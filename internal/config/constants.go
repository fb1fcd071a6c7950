package config

import "time"

// Environment variable names
const (
	EnvPort              = "PORT"
	EnvLogLevel          = "LOG_LEVEL"
	EnvLogFormat         = "LOG_FORMAT"
	EnvEnvironment       = "ENVIRONMENT"
	EnvServiceName       = "SERVICE_NAME"
	EnvVersion           = "VERSION"
	EnvLogDir            = "LOG_DIR"
	EnvStoreBackend      = "STORE_BACKEND"
	EnvDBUser            = "DB_USER"
	EnvDBPassword        = "DB_PASSWORD"
	EnvDBHost            = "DB_HOST"
	EnvDBPort            = "DB_PORT"
	EnvDBName            = "DB_NAME"
	EnvDBMaxConns        = "DB_MAX_CONNS"
	EnvDBMaxConnIdleTime = "DB_MAX_CONN_IDLE_TIME"
	EnvDBMaxConnLifetime = "DB_MAX_CONN_LIFETIME"
	EnvJWTSecret         = "JWT_SECRET"
	EnvTimezone          = "TIMEZONE"
	EnvAlarmCacheSize    = "ALARM_CACHE_SIZE"
	EnvAlarmCacheTTL     = "ALARM_CACHE_TTL"
	EnvSkipSweepInterval = "SKIP_SWEEP_INTERVAL"
	EnvSkipGracePeriod   = "SKIP_GRACE_PERIOD"
	EnvWorkerCount       = "WORKER_COUNT"
	EnvDeviceRateLimit   = "DEVICE_RATE_LIMIT"
	EnvTrustedProxies    = "TRUSTED_PROXIES"
)

// Store backends
const (
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"
)

// Defaults
const (
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultEnvironment = "dev"
	DefaultServiceName = "medidispenser"
	DefaultVersion     = "dev"
	DefaultLogDir      = "logs"
	DefaultDBName      = "medicine_dispenser_db"
	DefaultTimezone    = "Local"

	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute

	DefaultAlarmCacheSize = 1000
	DefaultAlarmCacheTTL  = 5 * time.Minute

	DefaultSkipSweepInterval = time.Minute
	DefaultSkipGracePeriod   = 60 * time.Minute
	DefaultWorkerCount       = 2

	DefaultDeviceRateLimit = 120
)
