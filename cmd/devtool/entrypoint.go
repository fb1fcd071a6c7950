package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/osse101/MediDispenser_Go/internal/config"
	"github.com/osse101/MediDispenser_Go/internal/database"
)

const (
	entrypointDBAttempts      = 30
	entrypointDBRetryInterval = 2 * time.Second
	entrypointMigrateAttempts = 3
	entrypointMigrateBackoff  = 5 * time.Second
	defaultContainerDBHost    = "db"
)

var errNothingToExec = errors.New("no command to execute")

// EntrypointCommand prepares the database and then replaces itself with the
// service process. The steps are fields so tests can stub them.
type EntrypointCommand struct {
	waitForDB      func() error
	ensureDatabase func(cfg *config.Config) error
	migrate        func() error
	exec           func(argv []string) error
	sleep          func(time.Duration)
}

func (c *EntrypointCommand) Name() string {
	return "entrypoint"
}

func (c *EntrypointCommand) Description() string {
	return "Container entrypoint (wait-for-db, create db, migrate, exec)"
}

func (c *EntrypointCommand) Run(args []string) error {
	c.defaults()

	argv := args
	if len(argv) > 0 && argv[0] == "--" {
		argv = argv[1:]
	}
	if len(argv) == 0 {
		return errNothingToExec
	}

	if os.Getenv(config.EnvStoreBackend) == config.StoreBackendMemory {
		PrintInfo("STORE_BACKEND=memory, skipping database preparation")
		return c.exec(argv)
	}

	if os.Getenv(config.EnvDBHost) == "" {
		_ = os.Setenv(config.EnvDBHost, defaultContainerDBHost)
	}

	if err := c.waitForDB(); err != nil {
		return fmt.Errorf("wait-for-db failed: %w", err)
	}
	if err := c.ensureDatabase(config.DBOnly()); err != nil {
		return err
	}
	if err := c.migrateWithRetries(); err != nil {
		return err
	}

	return c.exec(argv)
}

func (c *EntrypointCommand) defaults() {
	if c.waitForDB == nil {
		c.waitForDB = func() error { return waitForDB(entrypointDBAttempts, entrypointDBRetryInterval) }
	}
	if c.ensureDatabase == nil {
		c.ensureDatabase = ensureDatabase
	}
	if c.migrate == nil {
		c.migrate = func() error { return (&MigrateCommand{}).Run([]string{"up"}) }
	}
	if c.exec == nil {
		c.exec = execReplace
	}
	if c.sleep == nil {
		c.sleep = time.Sleep
	}
}

func (c *EntrypointCommand) migrateWithRetries() error {
	var err error
	for attempt := 1; attempt <= entrypointMigrateAttempts; attempt++ {
		if err = c.migrate(); err == nil {
			return nil
		}
		PrintWarning("Migration attempt %d failed: %v", attempt, err)
		if attempt < entrypointMigrateAttempts {
			PrintInfo("Retrying in %s...", entrypointMigrateBackoff)
			c.sleep(entrypointMigrateBackoff)
		}
	}
	return fmt.Errorf("migrations failed after %d attempts: %w", entrypointMigrateAttempts, err)
}

func ensureDatabase(cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	admin := *cfg
	admin.DBName = database.MaintenanceDatabase
	created, err := database.EnsureDatabase(ctx, admin.GetDBConnString(), cfg.DBName)
	if err != nil {
		return err
	}
	if created {
		PrintSuccess("Created database %s", cfg.DBName)
	}
	return nil
}

// execReplace replaces the current process with argv
func execReplace(argv []string) error {
	PrintHeader("Starting application...")
	cmdPath, err := exec.LookPath(argv[0])
	if err != nil {
		return fmt.Errorf("executable not found: %w", err)
	}
	if err := syscall.Exec(cmdPath, argv, os.Environ()); err != nil {
		return fmt.Errorf("exec failed: %w", err)
	}
	return nil
}
