package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	Environment string
	ServiceName string
	Version     string
	LogDir      string

	StoreBackend string

	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration

	JWTSecret string // HMAC key for bearer tokens

	// Timezone used to derive the calendar date and HH:MM of a dispense instant
	Timezone string

	AlarmCacheSize int
	AlarmCacheTTL  time.Duration

	SkipSweepInterval time.Duration
	SkipGracePeriod   time.Duration
	WorkerCount       int

	DeviceRateLimit int // requests per minute per client IP

	// Proxies whose X-Forwarded-For header is trusted for client IPs
	TrustedProxies []string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    getEnv(EnvLogLevel, DefaultLogLevel),
		LogFormat:   getEnv(EnvLogFormat, DefaultLogFormat),
		Environment: getEnv(EnvEnvironment, DefaultEnvironment),
		ServiceName: getEnv(EnvServiceName, DefaultServiceName),
		Version:     getEnv(EnvVersion, DefaultVersion),
		LogDir:      getEnv(EnvLogDir, DefaultLogDir),

		StoreBackend: getEnv(EnvStoreBackend, StoreBackendPostgres),

		DBUser:            getEnv(EnvDBUser, "postgres"),
		DBPassword:        getEnv(EnvDBPassword, "postgres"),
		DBHost:            getEnv(EnvDBHost, "localhost"),
		DBPort:            getEnv(EnvDBPort, "5432"),
		DBName:            getEnv(EnvDBName, DefaultDBName),
		DBMaxConns:        getEnvAsInt(EnvDBMaxConns, DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration(EnvDBMaxConnIdleTime, DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration(EnvDBMaxConnLifetime, DefaultDBMaxConnLifetime),

		JWTSecret: getEnv(EnvJWTSecret, ""),
		Timezone:  getEnv(EnvTimezone, DefaultTimezone),

		AlarmCacheSize: getEnvAsInt(EnvAlarmCacheSize, DefaultAlarmCacheSize),
		AlarmCacheTTL:  getEnvAsDuration(EnvAlarmCacheTTL, DefaultAlarmCacheTTL),

		SkipSweepInterval: getEnvAsDuration(EnvSkipSweepInterval, DefaultSkipSweepInterval),
		SkipGracePeriod:   getEnvAsDuration(EnvSkipGracePeriod, DefaultSkipGracePeriod),
		WorkerCount:       getEnvAsInt(EnvWorkerCount, DefaultWorkerCount),

		DeviceRateLimit: getEnvAsInt(EnvDeviceRateLimit, DefaultDeviceRateLimit),
		TrustedProxies:  getEnvAsList(EnvTrustedProxies),
	}

	portStr := getEnv(EnvPort, "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable must be set for security")
	}

	switch cfg.StoreBackend {
	case StoreBackendPostgres, StoreBackendMemory:
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND value %q: expected %q or %q",
			cfg.StoreBackend, StoreBackendPostgres, StoreBackendMemory)
	}

	if _, err := cfg.Location(); err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE value: %w", err)
	}

	return cfg, nil
}

// DBOnly reads just the database settings. Tooling that never serves
// requests uses it so JWT_SECRET is not required.
func DBOnly() *Config {
	_ = godotenv.Load()
	return &Config{
		DBUser:            getEnv(EnvDBUser, "postgres"),
		DBPassword:        getEnv(EnvDBPassword, "postgres"),
		DBHost:            getEnv(EnvDBHost, "localhost"),
		DBPort:            getEnv(EnvDBPort, "5432"),
		DBName:            getEnv(EnvDBName, DefaultDBName),
		DBMaxConns:        getEnvAsInt(EnvDBMaxConns, DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration(EnvDBMaxConnIdleTime, DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration(EnvDBMaxConnLifetime, DefaultDBMaxConnLifetime),
	}
}

// Location resolves the configured timezone
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == DefaultTimezone {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping empty entries
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// getEnvAsInt parses an integer variable, falling back to the default when unset or malformed
func getEnvAsInt(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvAsDuration parses a time.Duration variable, falling back to the default when unset or malformed
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
