package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// MaintenanceDatabase is where CREATE DATABASE is issued from
const MaintenanceDatabase = "postgres"

// EnsureDatabase creates database name through a connection to the
// maintenance database unless it already exists. It reports whether it
// created the database.
func EnsureDatabase(ctx context.Context, maintenanceConnString, name string) (bool, error) {
	conn, err := pgx.Connect(ctx, maintenanceConnString)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToConnectMaintenance, err)
	}
	defer conn.Close(ctx)

	var exists bool
	if err := conn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", name).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToCheckDatabase, err)
	}
	if exists {
		return false, nil
	}

	if _, err := conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{name}.Sanitize()); err != nil {
		return false, fmt.Errorf("%s %s: %w", ErrMsgFailedToCreateDatabase, name, err)
	}
	return true, nil
}
