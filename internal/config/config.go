// Package config loads runtime settings from the environment. A .env file
// in the working directory is honored when present, matching the local
// development workflow.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults for the dashboard server
const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 8090
)

// Config holds all runtime settings
type Config struct {
	// DBPath is the SQLite database file location
	DBPath string

	// Platform usernames used by the dashboard and the console
	LichessUsername  string
	ChesscomUsername string

	// Dashboard bind address
	Host string
	Port int
}

// Load reads configuration from the environment, loading .env first.
// Settings use the CHESSDASH_ prefix; platform usernames keep their
// unprefixed names for compatibility with existing .env files.
func Load() (*Config, error) {
	// Missing .env is not an error
	_ = godotenv.Load()

	cfg := &Config{
		Host: DefaultHost,
		Port: DefaultPort,
	}

	cfg.LichessUsername = os.Getenv("LICHESS_USERNAME")
	cfg.ChesscomUsername = os.Getenv("CHESSCOM_USERNAME")

	if v := os.Getenv("CHESSDASH_DB"); v != "" {
		cfg.DBPath = v
	} else {
		path, err := DefaultDBPath()
		if err != nil {
			return nil, err
		}
		cfg.DBPath = path
	}

	if v := os.Getenv("CHESSDASH_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("CHESSDASH_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid CHESSDASH_PORT %q: %w", v, err)
		}
		cfg.Port = port
	}

	return cfg, nil
}

// DefaultDBPath returns ~/.chessdash/games.db
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".chessdash", "games.db"), nil
}

// Usernames returns the configured usernames keyed by platform, skipping
// platforms without one
func (c *Config) Usernames() map[string]string {
	users := make(map[string]string)
	if c.LichessUsername != "" {
		users["lichess"] = c.LichessUsername
	}
	if c.ChesscomUsername != "" {
		users["chesscom"] = c.ChesscomUsername
	}
	return users
}
