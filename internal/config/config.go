package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Port              int
	DataPath          string
	Version           string
	CapacityPerWorker int
	SafetyMargin      float64
}

// Settings are the values that may be stored in the YAML settings file
type Settings struct {
	Port              int     `yaml:"port"`
	DataPath          string  `yaml:"data_path"`
	CapacityPerWorker int     `yaml:"capacity_per_worker"`
	SafetyMargin      float64 `yaml:"safety_margin"`
}

// DefaultSettings returns the values used when nothing else is configured
func DefaultSettings() Settings {
	return Settings{
		Port:              8080,
		DataPath:          "./data/orders.csv",
		CapacityPerWorker: 25,
		SafetyMargin:      0.10,
	}
}

// LoadSettings reads path (if it exists) over the defaults, then applies
// ORDERS_* environment overrides.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &s); err != nil {
				return s, fmt.Errorf("failed to parse %s: %w", path, err)
			}
			log.Printf("Loaded settings from %s", path)
		case !os.IsNotExist(err):
			return s, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	envOverride(&s.DataPath, "ORDERS_DATA_PATH")
	if err := envOverrideInt(&s.Port, "ORDERS_PORT"); err != nil {
		return s, err
	}
	if err := envOverrideInt(&s.CapacityPerWorker, "ORDERS_CAPACITY"); err != nil {
		return s, err
	}
	if err := envOverrideFloat(&s.SafetyMargin, "ORDERS_MARGIN"); err != nil {
		return s, err
	}

	return s, s.Validate()
}

// Validate rejects settings the planner cannot work with
func (s Settings) Validate() error {
	if s.Port < 1 || s.Port > 65535 {
		return fmt.Errorf("port %d is out of range: must be between 1 and 65535", s.Port)
	}
	if s.DataPath == "" {
		return fmt.Errorf("data_path must not be empty")
	}
	if s.CapacityPerWorker <= 0 {
		return fmt.Errorf("capacity_per_worker must be positive, got %d", s.CapacityPerWorker)
	}
	if s.SafetyMargin < 0 || s.SafetyMargin >= 1 {
		return fmt.Errorf("safety_margin must be in [0,1), got %v", s.SafetyMargin)
	}
	return nil
}

func envOverride(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envOverrideInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s=%q: %w", key, v, err)
	}
	*dst = n
	return nil
}

func envOverrideFloat(dst *float64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid %s=%q: %w", key, v, err)
	}
	*dst = f
	return nil
}
