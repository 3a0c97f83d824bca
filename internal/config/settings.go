package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ApplicationSourceName names the chain source built from Settings.Properties.
const ApplicationSourceName = "applicationConfig"

// Settings is the process configuration.
//
// Values load from an optional YAML file first, then environment variables
// overlay whatever they set.
type Settings struct {
	// Profiles is the explicit activation input.
	Profiles []string `yaml:"profiles" env:"TRACKLIST_PROFILES_ACTIVE" envSeparator:","`

	HTTPAddr string `yaml:"http_addr" env:"TRACKLIST_HTTP_ADDR"`

	// DBPath is the embedded SQLite database used when no store profile is active.
	DBPath string `yaml:"db_path" env:"TRACKLIST_DB_PATH"`

	// StoreURI addresses the store when the profile came from activation
	// rather than a binding.
	StoreURI string `yaml:"store_uri" env:"TRACKLIST_STORE_URI"`

	// SeedDataset overrides the bundled album dataset.
	SeedDataset  string `yaml:"seed_dataset" env:"TRACKLIST_SEED_DATASET"`
	SeedDisabled bool   `yaml:"seed_disabled" env:"TRACKLIST_SEED_DISABLED"`

	LogLevel string `yaml:"log_level" env:"TRACKLIST_LOG_LEVEL"`

	// Properties seed the lowest-precedence source of the configuration chain.
	Properties map[string]string `yaml:"properties"`
}

// DefaultSettings returns settings with local-development defaults.
func DefaultSettings() Settings {
	return Settings{
		HTTPAddr: ":8080",
		DBPath:   ":memory:",
		LogLevel: "info",
	}
}

// LoadSettings reads the YAML file at path, if it exists, then applies
// environment overrides. An empty path skips the file.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Settings{}, fmt.Errorf("read config file: %w", err)
		default:
			if err := yaml.Unmarshal(raw, &s); err != nil {
				return Settings{}, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	if err := ParseEnv(&s); err != nil {
		return Settings{}, err
	}
	s.Profiles = trimNonEmpty(s.Profiles)
	return s, nil
}

// Chain builds the base configuration chain from the settings.
func (s Settings) Chain() *Chain {
	return NewChain(NewMapSource(ApplicationSourceName, s.Properties))
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
