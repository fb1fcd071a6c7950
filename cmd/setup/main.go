package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/osse101/MediDispenser_Go/internal/config"
	"github.com/osse101/MediDispenser_Go/internal/database"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg := config.DBOnly()

	// 1. Create the database from the maintenance database if needed
	admin := *cfg
	admin.DBName = database.MaintenanceDatabase
	created, err := database.EnsureDatabase(ctx, admin.GetDBConnString(), cfg.DBName)
	if err != nil {
		log.Fatalf("Database provisioning failed: %v", err)
	}
	if created {
		fmt.Printf("Database %s created.\n", cfg.DBName)
	} else {
		fmt.Printf("Database %s already exists.\n", cfg.DBName)
	}

	// 2. Apply the embedded migrations to the target database
	pool, err := database.NewPool(ctx, database.PoolConfig{
		ConnString:      cfg.GetDBConnString(),
		MaxConnIdleTime: time.Minute,
		MaxConnLifetime: 5 * time.Minute,
		ApplicationName: "medi-dispenser-setup",
	})
	if err != nil {
		log.Fatalf("Unable to connect to %s database: %v", cfg.DBName, err)
	}
	defer pool.Close()

	fmt.Println("Running migrations...")
	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatalf("Failed to execute migrations: %v", err)
	}

	fmt.Println("Migrations completed successfully.")
}
