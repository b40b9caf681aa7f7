package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	pebblestore "github.com/rzbill/flake/internal/storage/pebble"
	"github.com/rzbill/flake/pkg/id"
	logpkg "github.com/rzbill/flake/pkg/log"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

// Config is the top-level configuration loaded from file/env.
type Config struct {
	WorkerID     int64 `json:"workerId" yaml:"workerId"`
	DataCenterID int64 `json:"dataCenterId" yaml:"dataCenterId"`
	// Epoch is an RFC3339 instant; empty means the Unix epoch.
	Epoch       string        `json:"epoch" yaml:"epoch"`
	ClockPolicy string        `json:"clockPolicy" yaml:"clockPolicy"`
	DataDir     string        `json:"dataDir" yaml:"dataDir"`
	Fsync       string        `json:"fsync" yaml:"fsync"`
	HighWater   HighWater     `json:"highWater" yaml:"highWater"`
	Log         logpkg.Config `json:"log" yaml:"log"`
}

// HighWater controls persistence of the last issued timestamp.
type HighWater struct {
	Enabled    bool `json:"enabled" yaml:"enabled"`
	IntervalMs int  `json:"intervalMs" yaml:"intervalMs"`
	// MaxRollbackMs is how far the clock may trail the stored mark at
	// startup before opening fails instead of waiting.
	MaxRollbackMs int `json:"maxRollbackMs" yaml:"maxRollbackMs"`
}

// Default returns built-in defaults.
func Default() Config {
	return Config{
		ClockPolicy: "adopt",
		Fsync:       "always",
		HighWater: HighWater{
			Enabled:       false,
			IntervalMs:    1000,
			MaxRollbackMs: 5000,
		},
		Log: logpkg.Config{Level: "info", Format: "text"},
	}
}

// Load reads configuration from a JSON or YAML file (by extension). If path is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	if c.WorkerID < 0 || c.WorkerID > id.MaxWorkerID {
		return fmt.Errorf("%w: workerId %d not in [0, %d]", ErrInvalidConfig, c.WorkerID, id.MaxWorkerID)
	}
	if c.DataCenterID < 0 || c.DataCenterID > id.MaxDataCenterID {
		return fmt.Errorf("%w: dataCenterId %d not in [0, %d]", ErrInvalidConfig, c.DataCenterID, id.MaxDataCenterID)
	}
	epoch, err := c.EpochTime()
	if err != nil {
		return err
	}
	if epoch.After(time.Now()) {
		return fmt.Errorf("%w: epoch %s is in the future", ErrInvalidConfig, c.Epoch)
	}
	if _, err := id.ParseClockPolicy(c.ClockPolicy); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := pebblestore.ParseFsyncMode(c.Fsync); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.HighWater.Enabled && c.HighWater.IntervalMs <= 0 {
		return fmt.Errorf("%w: highWater.intervalMs must be positive", ErrInvalidConfig)
	}
	if c.HighWater.MaxRollbackMs < 0 {
		return fmt.Errorf("%w: highWater.maxRollbackMs must not be negative", ErrInvalidConfig)
	}
	return nil
}

// EpochTime parses Epoch.
func (c Config) EpochTime() (time.Time, error) {
	if c.Epoch == "" {
		return time.UnixMilli(0), nil
	}
	t, err := time.Parse(time.RFC3339, c.Epoch)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: epoch %q: %v", ErrInvalidConfig, c.Epoch, err)
	}
	return t, nil
}
