package config

import (
	"fmt"
	"os"
	"strings"
)

// ExpectedEnvSchemaVersion is the schema version that the application expects
const ExpectedEnvSchemaVersion = "1.0"

// EnvSchemaVersion names the variable carrying the .env schema version
const EnvSchemaVersion = "ENV_SCHEMA_VERSION"

// postgresEnvVars are required only when the service talks to PostgreSQL
var postgresEnvVars = []string{
	EnvDBUser,
	EnvDBPassword,
	EnvDBHost,
	EnvDBPort,
	EnvDBName,
}

// RequiredEnvVars lists the variables that must be set for backend
func RequiredEnvVars(backend string) []string {
	required := []string{EnvSchemaVersion, EnvJWTSecret}
	if backend != StoreBackendMemory {
		required = append(required, postgresEnvVars...)
	}
	return required
}

// ValidateEnv checks that the variables backend needs are set
// and that the schema version matches expectations
func ValidateEnv(backend string) error {
	schemaVersion := os.Getenv(EnvSchemaVersion)
	if schemaVersion == "" {
		return fmt.Errorf("%s is not set - please update your .env file to include this field (expected: %s)", EnvSchemaVersion, ExpectedEnvSchemaVersion)
	}

	if schemaVersion != ExpectedEnvSchemaVersion {
		return fmt.Errorf("%s mismatch: expected %s, got %s - your .env file may be outdated", EnvSchemaVersion, ExpectedEnvSchemaVersion, schemaVersion)
	}

	var missing []string
	for _, envVar := range RequiredEnvVars(backend) {
		if os.Getenv(envVar) == "" {
			missing = append(missing, envVar)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}

// ValidateEnvWithWarnings checks environment variables and returns warnings
// for settings that work but are probably not what a deployment wants
func ValidateEnvWithWarnings(backend string) ([]string, error) {
	if err := ValidateEnv(backend); err != nil {
		return nil, err
	}

	var warnings []string

	if backend != StoreBackendMemory && os.Getenv(EnvDBPassword) == "change_this_secure_password" {
		warnings = append(warnings, "DB_PASSWORD appears to be using the example value - please use a secure password")
	}

	if secret := os.Getenv(EnvJWTSecret); secret == "my_secret_key_change_this" || len(secret) < 32 {
		warnings = append(warnings, "JWT_SECRET is weak - generate a secure key with: openssl rand -hex 32")
	}

	if tz := os.Getenv(EnvTimezone); tz == "" || tz == DefaultTimezone {
		warnings = append(warnings, "TIMEZONE is not set - dispense dates follow the host clock's zone")
	}

	if os.Getenv(EnvDeviceRateLimit) == "0" {
		warnings = append(warnings, "DEVICE_RATE_LIMIT is 0 - device endpoints are not throttled")
	}

	return warnings, nil
}
