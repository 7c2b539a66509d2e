// Copyright (c) 2026 CourseScope. All rights reserved.
// Author: dev@coursescope.app

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A .env file in the
working directory is loaded first when present, so local development needs no
exported variables.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (HTTP client, storage) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the CourseScope client.
type Config struct {

	// APIBaseURL is the root of the remote course-review API.
	APIBaseURL string `env:"COURSESCOPE_API_URL" envDefault:"http://localhost:8080/api"`

	// StateDir is where durable client state (session, theme) is kept.
	// Empty means "derive from the user config directory".
	StateDir string `env:"COURSESCOPE_STATE_DIR"`

	// PageSize is the number of courses requested per search page.
	PageSize int `env:"COURSESCOPE_PAGE_SIZE" envDefault:"60"`

	// RequestTimeoutSeconds bounds every HTTP round-trip.
	RequestTimeoutSeconds int `env:"COURSESCOPE_REQUEST_TIMEOUT" envDefault:"15"`

	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Debug       bool   `env:"DEBUG"       envDefault:"false"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
//
// A missing .env file is not an error; exported variables always win over
// values read from the file.
func Load() (*Config, error) {

	// Best effort: godotenv does not override variables already exported.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.StateDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("config: cannot resolve user config dir: %w", err)
		}
		cfg.StateDir = filepath.Join(base, "coursescope")
	}

	if cfg.PageSize < 1 {
		return nil, fmt.Errorf("config: page size must be positive, got %d", cfg.PageSize)
	}

	return cfg, nil
}

// IsDevelopment reports whether the client is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the client is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
