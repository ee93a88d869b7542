/*
 * Copyright © 2026 Suparena Software Inc., All rights reserved.
 */

// Package config loads checkstore settings from the environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Backend names a DataStore implementation.
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendSQLite   Backend = "sqlite"
	BackendDynamoDB Backend = "dynamodb"
)

// Config selects and configures the persistence backend.
type Config struct {
	Backend    Backend `env:"CHECKSTORE_BACKEND" envDefault:"memory"`
	SQLitePath string  `env:"CHECKSTORE_SQLITE_PATH" envDefault:"checkstore.db"`

	AWSAccessKey string `env:"AWS_ACCESS_KEY"`
	AWSSecretKey string `env:"AWS_SECRET_KEY"`
	AWSRegion    string `env:"AWS_REGION" envDefault:"us-east-1"`
	DDBTable     string `env:"AWS_DDB_TABLE"`
	DDBEndpoint  string `env:"AWS_DDB_ENDPOINT"`

	// Tracing is exported over OTLP/HTTP when an endpoint is set.
	OTELEndpoint string `env:"CHECKSTORE_OTEL_ENDPOINT"`
}

// Load reads the given .env files, when they exist, into the process
// environment and parses Config from it. Variables already set win over
// the files. With no arguments ".env" is tried.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	var present []string
	for _, f := range envFiles {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) > 0 {
		if err := godotenv.Load(present...); err != nil {
			return Config{}, fmt.Errorf("load env files: %w", err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Backend = Backend(strings.ToLower(strings.TrimSpace(string(cfg.Backend))))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings the selected backend needs.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
		return nil
	case BackendSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("CHECKSTORE_SQLITE_PATH is required for the sqlite backend")
		}
		return nil
	case BackendDynamoDB:
		if c.DDBTable == "" {
			return fmt.Errorf("AWS_DDB_TABLE is required for the dynamodb backend")
		}
		if c.AWSRegion == "" {
			return fmt.Errorf("AWS_REGION is required for the dynamodb backend")
		}
		if (c.AWSAccessKey == "") != (c.AWSSecretKey == "") {
			return fmt.Errorf("AWS_ACCESS_KEY and AWS_SECRET_KEY must be set together")
		}
		return nil
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
}
