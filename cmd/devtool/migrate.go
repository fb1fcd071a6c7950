package main

import (
	"context"
	"fmt"

	"github.com/osse101/MediDispenser_Go/internal/database"
)

type MigrateCommand struct{}

func (c *MigrateCommand) Name() string {
	return "migrate"
}

func (c *MigrateCommand) Description() string {
	return "Manage database migrations (up, down, status)"
}

func (c *MigrateCommand) Run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("subcommand required: up, down, status")
	}

	ctx := context.Background()
	pool, err := openPool(ctx, loadDBConfig())
	if err != nil {
		return err
	}
	defer pool.Close()

	m, err := database.NewMigrator(pool)
	if err != nil {
		return err
	}
	defer m.Close()

	switch args[0] {
	case "up":
		PrintHeader("Applying migrations...")
		if err := m.Up(ctx); err != nil {
			return err
		}
		PrintSuccess("Database is up to date")
	case "down":
		PrintHeader("Rolling back last migration...")
		if err := m.Down(ctx); err != nil {
			return err
		}
		PrintSuccess("Rolled back one migration")
	case "status":
		statuses, err := m.Status(ctx)
		if err != nil {
			return err
		}
		PrintHeader("Migration status")
		for _, s := range statuses {
			state := "pending"
			if s.Applied {
				state = "applied"
			}
			fmt.Printf("  %05d  %-8s %s\n", s.Version, state, s.Path)
		}
	default:
		return fmt.Errorf("unknown subcommand %q: expected up, down or status", args[0])
	}
	return nil
}
