package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	registry := NewRegistry(
		&MigrateCommand{},
		&CheckDBCommand{},
		&TokenCommand{},
		&EntrypointCommand{},
	)

	if err := registry.Dispatch(os.Args[1:], os.Stdout); err != nil {
		PrintError("%v", err)
		os.Exit(1)
	}
}
