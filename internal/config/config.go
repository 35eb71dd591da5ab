package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/mlombardi/casa-rota/pkg/core/model"
)

// RoleOverride replaces the built-in configuration of one shift role
type RoleOverride struct {
	Name    string   `yaml:"name" validate:"required"`
	Kind    string   `yaml:"kind" validate:"required,oneof=fixed flexible"`
	Windows []string `yaml:"windows" validate:"required,min=1"`
}

// Config represents the application configuration
type Config struct {
	// Storage selects the week-document store backend
	Storage     string `yaml:"storage" validate:"required,oneof=postgres redis"`
	DatabaseURL string `yaml:"databaseURL,omitempty" validate:"required_if=Storage postgres"`

	RedisAddr     string `yaml:"redisAddr,omitempty" validate:"required_if=Storage redis"`
	RedisPassword string `yaml:"redisPassword,omitempty"`
	RedisDB       int    `yaml:"redisDB,omitempty"`

	// RosterSource selects where staff/volunteer profiles come from
	RosterSource  string `yaml:"rosterSource" validate:"required,oneof=postgres sheets"`
	RosterSheetID string `yaml:"rosterSheetID,omitempty" validate:"required_if=RosterSource sheets"`
	RosterTab     string `yaml:"rosterTab,omitempty"`

	// Closures are RRULE strings for recurring days the hostel is closed
	// (deep-clean days, holidays); no shifts can be scheduled on them
	Closures []string `yaml:"closures,omitempty"`

	// SoftShiftLimit overrides the volunteer shift count that triggers the
	// advisory confirmation
	SoftShiftLimit int `yaml:"softShiftLimit,omitempty" validate:"omitempty,min=1"`

	// Roles override entries of the built-in role table
	Roles []RoleOverride `yaml:"roles,omitempty" validate:"dive"`

	// ListenAddr is the HTTP API bind address
	ListenAddr string `yaml:"listenAddr,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from casa_rota_config.yaml
// It looks for the config file in the current directory first, then in the
// user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration with an environment suffix.
// For example, env="test" will look for "casa_rota_config.test.yaml".
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

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, closure := range cfg.Closures {
		if _, err := rrule.StrToRRule(closure); err != nil {
			return fmt.Errorf("invalid rrule in closures[%d]: %w", i, err)
		}
	}

	return nil
}

// RoleTable returns the built-in role table with any configured overrides
// applied
func (cfg *Config) RoleTable() model.RoleTable {
	table := model.DefaultRoleTable()
	for _, override := range cfg.Roles {
		table[model.ShiftRole(override.Name)] = model.RoleConfig{
			Kind:    model.ShiftKind(override.Kind),
			Windows: override.Windows,
		}
	}
	return table
}

// ClosedDaysFor expands the configured closure rules over one week and
// returns the day labels the hostel is closed on
func (cfg *Config) ClosedDaysFor(weekStart time.Time) (map[model.Day]bool, error) {
	closed := make(map[model.Day]bool)
	if len(cfg.Closures) == 0 {
		return closed, nil
	}

	weekEnd := weekStart.AddDate(0, 0, 6)

	for i, closure := range cfg.Closures {
		rule, err := rrule.StrToRRule(closure)
		if err != nil {
			return nil, fmt.Errorf("invalid rrule in closures[%d]: %w", i, err)
		}
		rule.DTStart(weekStart.AddDate(0, 0, -7))

		for _, occurrence := range rule.Between(weekStart, weekEnd, true) {
			dayIndex := int(occurrence.Sub(weekStart).Hours() / 24)
			if dayIndex >= 0 && dayIndex < len(model.Days) {
				closed[model.Days[dayIndex]] = true
			}
		}
	}

	return closed, nil
}

// findConfigFile searches for casa_rota_config.yaml in the current directory
// and home directory. If env is provided it is added as an extension
// (e.g. "casa_rota_config.test.yaml").
func findConfigFile(env string) (string, error) {
	configFileName := "casa_rota_config.yaml"
	if env != "" {
		configFileName = "casa_rota_config." + env + ".yaml"
	}

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
