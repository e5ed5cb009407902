package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// DefaultConfigPath is used when the ANKIBOT_CONFIG environment variable is
// not set.
const DefaultConfigPath = "config.yaml"

// Load reads configuration from a YAML file and environment variables.
// The file path comes from ANKIBOT_CONFIG (default config.yaml); environment
// variables with the ANKIBOT_ prefix take precedence over file values
// (e.g. ANKIBOT_TELEGRAM_TOKEN overrides telegram.token).
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	path := os.Getenv("ANKIBOT_CONFIG")
	if path == "" {
		path = DefaultConfigPath
	}
	return LoadFromFile(path)
}

// LoadFromFile loads and validates configuration from the given YAML file.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()

	// Defaults for settings that have sensible fallbacks.
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("telegram.poll_timeout_seconds", 30)
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("ANKIBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
