// Package config holds server runtime configuration with env overrides.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the tunable server parameters.
type Config struct {
	ListenAddr  string
	JournalPath string
	CatalogPath string // empty means built-in defaults

	// Accrual loop cadence. Accrual stays correct at any cadence; this
	// only controls smoothness vs. wakeup cost.
	AccrualInterval time.Duration

	// How often the player snapshot is flushed to the journal.
	SnapshotFlushInterval time.Duration

	// Channel buffer sizes
	ClientSendBuffer int

	// Minimum spacing between actions from one WebSocket client.
	ClientActionInterval time.Duration
}

// Default returns sensible defaults for local play.
func Default() Config {
	return Config{
		ListenAddr:            ":8080",
		JournalPath:           "miner.db",
		CatalogPath:           "",
		AccrualInterval:       100 * time.Millisecond,
		SnapshotFlushInterval: 5 * time.Second,
		ClientSendBuffer:      64,
		ClientActionInterval:  30 * time.Millisecond,
	}
}

// FromEnv loads configuration from environment variables, falling back to
// defaults for anything unset.
func FromEnv() Config {
	cfg := Default()

	if v := os.Getenv("MINER_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("MINER_JOURNAL_PATH"); v != "" {
		cfg.JournalPath = v
	}
	if v := os.Getenv("MINER_CATALOG_PATH"); v != "" {
		cfg.CatalogPath = v
	}
	if v := getEnvDuration("MINER_ACCRUAL_INTERVAL"); v > 0 {
		cfg.AccrualInterval = v
	}
	if v := getEnvDuration("MINER_SNAPSHOT_FLUSH_INTERVAL"); v > 0 {
		cfg.SnapshotFlushInterval = v
	}
	if v := getEnvInt("MINER_CLIENT_SEND_BUFFER"); v > 0 {
		cfg.ClientSendBuffer = v
	}
	if v := getEnvDuration("MINER_CLIENT_ACTION_INTERVAL"); v > 0 {
		cfg.ClientActionInterval = v
	}

	return cfg
}

func getEnvInt(key string) int {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return num
}

func getEnvDuration(key string) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0
	}
	return d
}
