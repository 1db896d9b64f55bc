// Package config reads psoboard settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds settings that may come from the environment. Command line
// flags override them.
type Config struct {
	// Addr is the listen address of the web UI.
	Addr string `env:"PSOBOARD_ADDR" envDefault:"0.0.0.0:8222"`
	// Data is a directory or http(s) base url holding the four datasets.
	Data string `env:"PSOBOARD_DATA"`
	// Limit caps the number of records rendered; 0 is unlimited.
	Limit int `env:"PSOBOARD_LIMIT" envDefault:"0"`
	// GroupLabels renders group label text in divider rows.
	GroupLabels bool `env:"PSOBOARD_GROUP_LABELS" envDefault:"true"`
	// FetchTimeout bounds loading all datasets.
	FetchTimeout time.Duration `env:"PSOBOARD_FETCH_TIMEOUT" envDefault:"30s"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads the optional dotenv file into the environment (without
// overriding variables already set) and parses a Config from it.
func Load(dotenv string) (Config, error) {
	var cfg Config
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("load %s: %w", dotenv, err)
		}
	}
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
