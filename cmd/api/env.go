package main

import (
	"fmt"
	"os"

	"go-chi-calculators/internal/config"
)

// loadConfig loads .env (or the file named by ENV_FILE) when present and
// reads the configuration from the environment. Existing process environment
// variables are not overridden.
func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(os.Getenv("ENV_FILE")); err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
