package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPageSize         = 25
	DefaultMaxWriteAttempts = 3
	DefaultFollowUpRRule    = "FREQ=WEEKLY;INTERVAL=1"
	DefaultServerAddr       = ":8080"
)

// DatabaseConfig selects the storage backend
type DatabaseConfig struct {
	Driver string `yaml:"driver" validate:"required,oneof=postgres sqlite"`
	// URL is a postgres connection string or a sqlite file path
	URL string `yaml:"url" validate:"required"`
}

// DirectoryConfig points at the spreadsheet holding the user, driver and
// volunteer directories. Leaving SheetID empty disables directory lookups.
type DirectoryConfig struct {
	SheetID       string `yaml:"sheetID"`
	UsersTab      string `yaml:"usersTab" validate:"required_with=SheetID"`
	DriversTab    string `yaml:"driversTab" validate:"required_with=SheetID"`
	VolunteersTab string `yaml:"volunteersTab" validate:"required_with=SheetID"`
}

// Enabled reports whether a directory spreadsheet is configured
func (d DirectoryConfig) Enabled() bool {
	return d.SheetID != ""
}

type LifecycleConfig struct {
	// StrictTransitions rejects status changes outside the standard lifecycle graph
	StrictTransitions bool `yaml:"strictTransitions"`
}

type QueryConfig struct {
	DefaultPageSize int `yaml:"defaultPageSize" validate:"omitempty,min=1,max=500"`
}

type AssignmentConfig struct {
	// MaxWriteAttempts bounds retries when a record changes between read and write
	MaxWriteAttempts int `yaml:"maxWriteAttempts" validate:"omitempty,min=1,max=10"`
}

type FollowUpConfig struct {
	// RRule is the follow-up cadence for in-process requests once the toolkit is sent
	RRule string `yaml:"rrule"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Config represents the application configuration
type Config struct {
	Database   DatabaseConfig   `yaml:"database"`
	Directory  DirectoryConfig  `yaml:"directory"`
	Lifecycle  LifecycleConfig  `yaml:"lifecycle"`
	Query      QueryConfig      `yaml:"query"`
	Assignment AssignmentConfig `yaml:"assignment"`
	FollowUp   FollowUpConfig   `yaml:"followUp"`
	Server     ServerConfig     `yaml:"server"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from event_requests_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration with an environment suffix
// For example, env="test" will look for "event_requests_config.test.yaml"
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyDefaults()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ApplyDefaults fills in optional settings left unset
func (c *Config) ApplyDefaults() {
	if c.Query.DefaultPageSize == 0 {
		c.Query.DefaultPageSize = DefaultPageSize
	}
	if c.Assignment.MaxWriteAttempts == 0 {
		c.Assignment.MaxWriteAttempts = DefaultMaxWriteAttempts
	}
	if c.FollowUp.RRule == "" {
		c.FollowUp.RRule = DefaultFollowUpRRule
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.FollowUp.RRule != "" {
		if _, err := rrule.StrToRRule(cfg.FollowUp.RRule); err != nil {
			return fmt.Errorf("invalid rrule in followUp: %w", err)
		}
	}

	return nil
}

// findConfigFile searches for the config file in current directory and home directory
func findConfigFile(env string) (string, error) {
	configFileName := "event_requests_config.yaml"
	if env != "" {
		configFileName = "event_requests_config." + env + ".yaml"
	}
	return locate(configFileName)
}

// locate returns fileName if it exists in the current directory, otherwise its
// path in the home directory if it exists there
func locate(fileName string) (string, error) {
	if _, err := os.Stat(fileName); err == nil {
		return fileName, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, fileName)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", fileName)
}
