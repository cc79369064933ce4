// Viper-based hierarchical configuration: defaults, then config file, then
// environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	AI struct {
		Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
		Model          string `mapstructure:"model" yaml:"model"`
		APIKey         string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
		MaxRetries     int    `mapstructure:"max_retries" yaml:"max_retries"`
		BatchSize      int    `mapstructure:"batch_size" yaml:"batch_size"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	} `mapstructure:"ai" yaml:"ai"`

	Cache struct {
		File                string  `mapstructure:"file" yaml:"file"`
		ConfidenceThreshold float64 `mapstructure:"confidence_threshold" yaml:"confidence_threshold"`
		StaleDays           int     `mapstructure:"stale_days" yaml:"stale_days"`
	} `mapstructure:"cache" yaml:"cache"`

	Rules struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"rules" yaml:"rules"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`
}

// InitializeConfig initializes Viper configuration with hierarchical
// loading: defaults, then an optional config file, then environment
// variables with the MONEYMAP_ prefix. GEMINI_API_KEY is bound unprefixed.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.moneymap")
	v.AddConfigPath(".moneymap")
	v.AddConfigPath(".")

	v.SetEnvPrefix("MONEYMAP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Continue with defaults and env vars
			Logger.Warnf("error reading config file %s: %v", v.ConfigFileUsed(), err)
		}
	}

	// The API key always comes from the unprefixed environment variable.
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		Logger.Warnf("failed to bind GEMINI_API_KEY environment variable: %v", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("ai.enabled", true)
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.max_retries", 3)
	v.SetDefault("ai.batch_size", 50)
	v.SetDefault("ai.timeout_seconds", 30)

	v.SetDefault("cache.file", "data/patterns.json")
	v.SetDefault("cache.confidence_threshold", 0.95)
	v.SetDefault("cache.stale_days", 180)

	v.SetDefault("rules.file", "")

	v.SetDefault("csv.delimiter", ",")
}

// validateConfig validates configuration values.
func validateConfig(config *Config) error {
	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLevels[strings.ToLower(config.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.AI.BatchSize <= 0 {
		return fmt.Errorf("ai.batch_size must be positive, got %d", config.AI.BatchSize)
	}

	if config.AI.MaxRetries <= 0 {
		return fmt.Errorf("ai.max_retries must be positive, got %d", config.AI.MaxRetries)
	}

	if config.Cache.ConfidenceThreshold < 0 || config.Cache.ConfidenceThreshold > 1 {
		return fmt.Errorf("cache.confidence_threshold must be in [0,1], got %f", config.Cache.ConfidenceThreshold)
	}

	if config.Cache.StaleDays <= 0 {
		return fmt.Errorf("cache.stale_days must be positive, got %d", config.Cache.StaleDays)
	}

	return nil
}
