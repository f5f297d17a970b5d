package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Defaults used when the config file or a key is missing
const (
	DefaultScheduleFile    = "videos.csv"
	DefaultDelay           = 5 * time.Second
	DefaultDelimiter       = ","
	DefaultCredentialsFile = "client_secrets.json"
	DefaultTokenFile       = "token.json"
	DefaultRedirectPort    = 8080
)

// Config represents the complete application configuration
type Config struct {
	Schedule ScheduleConfig `yaml:"schedule"`
	Google   GoogleConfig   `yaml:"google"`
}

// ScheduleConfig contains schedule source and pacing settings
type ScheduleConfig struct {
	File      string        `yaml:"file"`
	Delay     time.Duration `yaml:"delay"`
	Delimiter string        `yaml:"delimiter"`
}

// GoogleConfig contains Google API settings
type GoogleConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
	PersistToken    bool   `yaml:"persist_token"`
	RedirectPort    int    `yaml:"redirect_port"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			File:      DefaultScheduleFile,
			Delay:     DefaultDelay,
			Delimiter: DefaultDelimiter,
		},
		Google: GoogleConfig{
			CredentialsFile: DefaultCredentialsFile,
			TokenFile:       DefaultTokenFile,
			PersistToken:    false,
			RedirectPort:    DefaultRedirectPort,
		},
	}
}

// Load reads and parses the configuration from the specified YAML file.
// Keys absent from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load but returns the defaults when path does not exist
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes the configuration to the specified YAML file
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that cannot be corrected by defaults
func (c *Config) Validate() error {
	if c.Schedule.Delay < 0 {
		return fmt.Errorf("schedule.delay must not be negative, got %s", c.Schedule.Delay)
	}
	if utf8.RuneCountInString(c.Schedule.Delimiter) != 1 {
		return fmt.Errorf("schedule.delimiter must be a single character, got %q", c.Schedule.Delimiter)
	}
	if c.Google.RedirectPort < 1 || c.Google.RedirectPort > 65535 {
		return fmt.Errorf("google.redirect_port must be between 1 and 65535, got %d", c.Google.RedirectPort)
	}
	return nil
}

// Comma returns the schedule delimiter as a rune
func (c *Config) Comma() rune {
	r, _ := utf8.DecodeRuneInString(c.Schedule.Delimiter)
	return r
}
