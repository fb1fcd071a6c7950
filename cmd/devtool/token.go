package main

import (
	"fmt"
	"os"
	"time"

	"github.com/osse101/MediDispenser_Go/internal/auth"
	"github.com/osse101/MediDispenser_Go/internal/config"
)

type TokenCommand struct{}

func (c *TokenCommand) Name() string {
	return "token"
}

func (c *TokenCommand) Description() string {
	return "Issue a bearer token for a caregiver: token <email> [ttl]"
}

func (c *TokenCommand) Run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("email required")
	}

	ttl := auth.DefaultTokenTTL
	if len(args) > 1 {
		d, err := time.ParseDuration(args[1])
		if err != nil {
			return fmt.Errorf("invalid ttl %q: %w", args[1], err)
		}
		ttl = d
	}

	secret := os.Getenv(config.EnvJWTSecret)
	if secret == "" {
		return fmt.Errorf("%s must be set", config.EnvJWTSecret)
	}

	token, err := auth.NewTokenService(secret).GenerateToken(args[0], ttl)
	if err != nil {
		return err
	}

	// Bare token on stdout so it can be captured by scripts
	fmt.Println(token)
	return nil
}
