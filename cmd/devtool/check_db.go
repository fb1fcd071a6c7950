package main

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

type CheckDBCommand struct{}

func (c *CheckDBCommand) Name() string {
	return "check-db"
}

func (c *CheckDBCommand) Description() string {
	return "Wait until the database accepts connections [attempts]"
}

func (c *CheckDBCommand) Run(args []string) error {
	maxAttempts := 30
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("attempts must be a positive integer, got %q", args[0])
		}
		maxAttempts = n
	}
	return waitForDB(maxAttempts, 2*time.Second)
}

func waitForDB(maxAttempts int, retryInterval time.Duration) error {
	cfg := loadDBConfig()
	PrintHeader(fmt.Sprintf("Checking database %s on %s:%s...", cfg.DBName, cfg.DBHost, cfg.DBPort))

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		pool, err := openPool(context.Background(), cfg)
		if err == nil {
			pool.Close()
			PrintSuccess("Database is ready")
			return nil
		}
		lastErr = err

		fmt.Printf("Database not ready (%d/%d): %v\n", attempt, maxAttempts, err)
		if attempt < maxAttempts {
			time.Sleep(retryInterval)
		}
	}

	return fmt.Errorf("database failed to become ready after %d attempts: %w", maxAttempts, lastErr)
}
