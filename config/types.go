package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	Hotjar   HotjarConfig   `mapstructure:"hotjar"`
	Feedback FeedbackConfig `mapstructure:"feedback"`
	Output   OutputConfig   `mapstructure:"output"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Update   UpdateConfig   `mapstructure:"update"`
}

// HotjarConfig holds hotjar login and connection details
type HotjarConfig struct {
	Email     string        `mapstructure:"email"`
	Password  string        `mapstructure:"password"`
	BaseURL   string        `mapstructure:"base_url"`
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// FeedbackConfig contains defaults for feedback exports
type FeedbackConfig struct {
	Limit       int    `mapstructure:"limit"`
	Filter      string `mapstructure:"filter"`
	Concurrency int    `mapstructure:"concurrency"`
	// Presets maps a name to a local filter expression
	Presets map[string]string `mapstructure:"presets"`
}

// OutputConfig controls how results are printed
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// UpdateConfig points self-update at a GitHub repository
type UpdateConfig struct {
	Repository string `mapstructure:"repository"`
}
