// Package config provides centralized configuration management.
// Environment lookups happen in one place instead of scattered
// os.Getenv calls.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// FieldsimEnv holds all FIELDSIM environment variables.
type FieldsimEnv struct {
	// GridWidth is the field width in cells (FIELDSIM_GRID_WIDTH)
	GridWidth int

	// GridHeight is the field height in cells (FIELDSIM_GRID_HEIGHT)
	GridHeight int

	// Seed is the simulation RNG seed (FIELDSIM_SEED)
	Seed int64

	// Ticks is the default headless run length (FIELDSIM_TICKS)
	Ticks int

	// LogLevel is the minimum log level emitted (FIELDSIM_LOG_LEVEL)
	LogLevel string

	// MetricsAddr is the metrics listen address (FIELDSIM_METRICS_ADDR)
	MetricsAddr string

	// NoColor disables ANSI output (FIELDSIM_NO_COLOR)
	NoColor bool
}

var (
	env     *FieldsimEnv
	envOnce sync.Once
)

// Env returns the singleton environment configuration.
// Thread-safe, loads once on first call.
func Env() *FieldsimEnv {
	envOnce.Do(func() {
		env = &FieldsimEnv{
			GridWidth:   getEnvInt("FIELDSIM_GRID_WIDTH", 10),
			GridHeight:  getEnvInt("FIELDSIM_GRID_HEIGHT", 10),
			Seed:        int64(getEnvInt("FIELDSIM_SEED", 42)),
			Ticks:       getEnvInt("FIELDSIM_TICKS", 100),
			LogLevel:    getEnvDefault("FIELDSIM_LOG_LEVEL", "info"),
			MetricsAddr: getEnvDefault("FIELDSIM_METRICS_ADDR", ":9464"),
			NoColor:     os.Getenv("FIELDSIM_NO_COLOR") == "1",
		}
	})
	return env
}

// ResetEnv resets the cached environment (for testing).
func ResetEnv() {
	envOnce = sync.Once{}
	env = nil
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// Paths holds standard fieldsim directory paths.
type Paths struct {
	// Home is the fieldsim home directory (~/.fieldsim)
	Home string

	// Runs is the run recording directory (~/.fieldsim/runs)
	Runs string

	// Schedules is the exported schedule directory (~/.fieldsim/schedules)
	Schedules string

	// Scenarios is the scenario search directory (~/.fieldsim/scenarios)
	Scenarios string

	// DBFile is the run database path (~/.fieldsim/runs/fieldsim.db)
	DBFile string
}

var (
	paths     *Paths
	pathsOnce sync.Once
)

// GetPaths returns the singleton paths configuration.
func GetPaths() *Paths {
	pathsOnce.Do(func() {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		fsHome := filepath.Join(home, ".fieldsim")

		paths = &Paths{
			Home:      fsHome,
			Runs:      filepath.Join(fsHome, "runs"),
			Schedules: filepath.Join(fsHome, "schedules"),
			Scenarios: filepath.Join(fsHome, "scenarios"),
			DBFile:    filepath.Join(fsHome, "runs", "fieldsim.db"),
		}
	})
	return paths
}

// Path returns a path under the fieldsim home directory.
// Equivalent to filepath.Join(~/.fieldsim, parts...)
func Path(parts ...string) string {
	p := GetPaths()
	allParts := append([]string{p.Home}, parts...)
	return filepath.Join(allParts...)
}

// EnsureDir creates a directory if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}
