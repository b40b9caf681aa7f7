package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads KEY=VALUE files into the process environment without
// overriding variables that are already set. Missing files are skipped.
// With no arguments it reads ./.env.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return err
		}
	}
	return nil
}

// FromEnv overlays FLAKE_* environment variables onto cfg.
func FromEnv(cfg *Config) {
	if v := os.Getenv("FLAKE_WORKER_ID"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.WorkerID = n
		}
	}
	if v := os.Getenv("FLAKE_DATACENTER_ID"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.DataCenterID = n
		}
	}
	if v := os.Getenv("FLAKE_EPOCH"); v != "" {
		cfg.Epoch = v
	}
	if v := os.Getenv("FLAKE_CLOCK_POLICY"); v != "" {
		cfg.ClockPolicy = v
	}
	if v := os.Getenv("FLAKE_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("FLAKE_FSYNC"); v != "" {
		cfg.Fsync = v
	}
	if v := os.Getenv("FLAKE_HIGHWATER_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.HighWater.Enabled = b
		}
	}
	if v := os.Getenv("FLAKE_HIGHWATER_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HighWater.IntervalMs = n
		}
	}
	if v := os.Getenv("FLAKE_HIGHWATER_MAX_ROLLBACK_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HighWater.MaxRollbackMs = n
		}
	}
	if v := os.Getenv("FLAKE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("FLAKE_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
}
