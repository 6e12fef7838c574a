// Package config loads the CLI configuration from file, environment and
// defaults, in that order of increasing precedence for env over file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	defaultServer       = "http://localhost:8000"
	defaultTimeout      = 120 * time.Second
	defaultRefreshDelay = 3 * time.Second
)

// Config stores CLI configuration. Values come from
// ~/.ragchat/config.yaml, RAGCHAT_* environment variables, or defaults.
type Config struct {
	// Server is the backend base URL.
	Server string `mapstructure:"server" validate:"required,url"`
	// Timeout bounds a single request, generous because chat answers can
	// take a while.
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
	// SummaryRefreshDelay is the wait before the one-shot document list
	// re-fetch after triggering summary generation.
	SummaryRefreshDelay time.Duration `mapstructure:"summary_refresh_delay" validate:"gt=0"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Dir returns the CLI configuration directory (~/.ragchat).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".ragchat"), nil
}

// Load reads the configuration. A missing config file is fine; defaults
// and environment variables still apply.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return load(dir)
}

func load(dir string) (*Config, error) {
	v := viper.New()
	v.SetDefault("server", defaultServer)
	v.SetDefault("timeout", defaultTimeout)
	v.SetDefault("summary_refresh_delay", defaultRefreshDelay)
	v.SetDefault("log_level", "info")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix("RAGCHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
