package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	DataDir         string      `yaml:"data_dir"`
	Project         string      `yaml:"project"`
	Backend         string      `yaml:"backend"`
	EventName       string      `yaml:"event_name"`
	EventDate       string      `yaml:"event_date"`
	LogLevel        string      `yaml:"log_level"`
	Seed            uint64      `yaml:"seed"`
	WhatsAppDataDir string      `yaml:"whatsapp_data_dir"`
	CountryCode     string      `yaml:"country_code"`
	AffiliationA    Affiliation `yaml:"affiliation_a"`
	AffiliationB    Affiliation `yaml:"affiliation_b"`
}

// Affiliation names one side of the event and the marker found in the
// group or source-sheet label of its guests.
type Affiliation struct {
	Name   string `yaml:"name"`
	Marker string `yaml:"marker"`
}

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir:         "data",
		Project:         "seating-chart-project",
		Backend:         BackendFile,
		EventName:       "Wedding",
		LogLevel:        "info",
		WhatsAppDataDir: "data",
		CountryCode:     "972",
		AffiliationA:    Affiliation{Name: "Groom", Marker: "신랑"},
		AffiliationB:    Affiliation{Name: "Bride", Marker: "신부"},
	}
}

// LoadConfig loads configuration from defaults, an optional YAML file and
// environment variables, in that order of precedence (later wins).
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	cfg.DataDir = getEnv("SEATING_DATA_DIR", cfg.DataDir)
	cfg.Project = getEnv("SEATING_PROJECT", cfg.Project)
	cfg.Backend = getEnv("SEATING_BACKEND", cfg.Backend)
	cfg.EventName = getEnv("SEATING_EVENT_NAME", cfg.EventName)
	cfg.EventDate = getEnv("SEATING_EVENT_DATE", cfg.EventDate)
	cfg.LogLevel = getEnv("SEATING_LOG_LEVEL", cfg.LogLevel)
	cfg.WhatsAppDataDir = getEnv("WHATSAPP_DATA_DIR", cfg.WhatsAppDataDir)
	cfg.CountryCode = getEnv("WHATSAPP_COUNTRY_CODE", cfg.CountryCode)
	cfg.AffiliationA.Marker = getEnv("SEATING_AFFILIATION_A", cfg.AffiliationA.Marker)
	cfg.AffiliationB.Marker = getEnv("SEATING_AFFILIATION_B", cfg.AffiliationB.Marker)
	if seed := os.Getenv("SEATING_SEED"); seed != "" {
		n, err := strconv.ParseUint(seed, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid SEATING_SEED %q: %w", seed, err)
		}
		cfg.Seed = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks option values.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendFile, BackendSQLite)
	}
	if c.Project == "" {
		return errors.New("project name must not be empty")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
