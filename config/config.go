package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/s0up4200/hotjar/hotjar"
)

// Load loads the configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".hotjar"))
		}

		// Check /etc
		v.AddConfigPath("/etc/hotjar/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Hotjar defaults
	v.SetDefault("hotjar.base_url", hotjar.DefaultBaseURL)
	v.SetDefault("hotjar.user_agent", hotjar.DefaultUserAgent)
	v.SetDefault("hotjar.timeout", hotjar.DefaultTimeout)

	// Feedback defaults
	v.SetDefault("feedback.limit", hotjar.DefaultFeedbackLimit)
	v.SetDefault("feedback.filter", "created__ge__2019-01-21")
	v.SetDefault("feedback.concurrency", 2)

	// Output defaults
	v.SetDefault("output.format", "json")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)

	// Update defaults
	v.SetDefault("update.repository", "s0up4200/hotjar")
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Hotjar.Email == "" {
		return fmt.Errorf("hotjar.email is required")
	}

	if cfg.Hotjar.Password == "" || cfg.Hotjar.Password == "your-password-here" {
		return fmt.Errorf("hotjar.password must be set")
	}

	if cfg.Hotjar.Timeout < 0 {
		return fmt.Errorf("hotjar.timeout must not be negative")
	}

	if cfg.Feedback.Limit < 0 {
		return fmt.Errorf("feedback.limit must not be negative: %d", cfg.Feedback.Limit)
	}

	if cfg.Feedback.Concurrency < 1 {
		return fmt.Errorf("feedback.concurrency must be at least 1: %d", cfg.Feedback.Concurrency)
	}

	if err := ValidateOutputFormat(cfg.Output.Format); err != nil {
		return err
	}

	// Validate logging level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

// ValidateOutputFormat checks a result output format
func ValidateOutputFormat(format string) error {
	switch format {
	case "json", "yaml":
		return nil
	default:
		return fmt.Errorf("invalid output format: %s (must be 'json' or 'yaml')", format)
	}
}
