// Copyright (C) 2026 Noldarim
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// AppConfig holds all application configuration.
// It is instantiated by NewConfig() and passed to components that need it (dependency injection).
type AppConfig struct {
	Log       LogConfig       `mapstructure:"log"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	TUI       TUIConfig       `mapstructure:"tui"`
}

// LogConfig holds comprehensive logging configuration
type LogConfig struct {
	Level    string            `mapstructure:"level"`
	Format   string            `mapstructure:"format"`
	Output   []LogOutputConfig `mapstructure:"output"`
	Levels   map[string]string `mapstructure:"levels"`
	Context  LogContextConfig  `mapstructure:"context"`
	Sampling LogSamplingConfig `mapstructure:"sampling"`
}

// LogOutputConfig defines where logs are written
type LogOutputConfig struct {
	Type    string          `mapstructure:"type"` // "file", "console"
	Enabled bool            `mapstructure:"enabled"`
	Path    string          `mapstructure:"path"`   // For file output
	Rotate  LogRotateConfig `mapstructure:"rotate"` // For file output
}

// LogRotateConfig defines log rotation settings
type LogRotateConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	Compress   bool `mapstructure:"compress"`
}

// LogContextConfig defines what context to include in logs
type LogContextConfig struct {
	IncludeCaller     bool   `mapstructure:"include_caller"`
	IncludeTimestamp  bool   `mapstructure:"include_timestamp"`
	IncludeStackTrace string `mapstructure:"include_stack_trace"` // Level at which to include stack trace
}

// LogSamplingConfig defines log sampling settings
type LogSamplingConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	Initial    uint32        `mapstructure:"initial"`
	Thereafter uint32        `mapstructure:"thereafter"`
	Tick       time.Duration `mapstructure:"tick"`
}

// PipelineConfig holds the defaults of a simulated run.
type PipelineConfig struct {
	Theme           string        `mapstructure:"theme"`       // Built-in theme name
	StagesFile      string        `mapstructure:"stages_file"` // YAML theme file; wins over Theme when set
	SettleDelay     time.Duration `mapstructure:"settle_delay"`
	CompletionDelay time.Duration `mapstructure:"completion_delay"`
	Speed           float64       `mapstructure:"speed"` // 2 plays everything twice as fast
}

// TelemetryConfig controls trace export. Tracing is a no-op unless enabled.
type TelemetryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"` // OTLP/HTTP host:port
	Insecure    bool    `mapstructure:"insecure"`
	ServiceName string  `mapstructure:"service_name"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	AltScreen bool `mapstructure:"alt_screen"`
	LogHeight int  `mapstructure:"log_height"` // Lines of the live log viewport
}

// NewConfig creates a new AppConfig by reading from a file, environment variables,
// and applying defaults.
func NewConfig(configPath string) (*AppConfig, error) {
	// Create a new config struct with default values
	cfg := defaultConfig()

	v := viper.New()

	// Set config file if provided, otherwise search in standard locations
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.showcase")
	}

	// Configure viper to use environment variables
	v.SetEnvPrefix("SHOWCASE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	// Read the config file. It's okay if it doesn't exist.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal the viper configuration into our config struct.
	// This will overwrite the default values with any values found in the config file or env vars.
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Expand paths that may contain ~ or environment variables
	cfg.expandPaths()

	// Validate the final configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// bindEnv registers keys that have no value in a config file, since
// AutomaticEnv only sees keys viper already knows about.
func bindEnv(v *viper.Viper) {
	for _, key := range []string{
		"log.level",
		"pipeline.theme",
		"pipeline.stages_file",
		"pipeline.settle_delay",
		"pipeline.completion_delay",
		"pipeline.speed",
		"telemetry.enabled",
		"telemetry.endpoint",
		"telemetry.insecure",
		"telemetry.service_name",
		"tui.alt_screen",
	} {
		_ = v.BindEnv(key)
	}
}

// defaultConfig returns an AppConfig with default values.
// This is more type-safe than using viper.SetDefault().
func defaultConfig() AppConfig {
	return AppConfig{
		Log: LogConfig{
			Level:  "INFO",
			Format: "console",
			Output: []LogOutputConfig{
				{
					Type:    "file",
					Enabled: true,
					Path:    "./logs/showcase.log",
					Rotate: LogRotateConfig{
						MaxSizeMB:  20,
						MaxBackups: 3,
						MaxAgeDays: 7,
						Compress:   true,
					},
				},
				{
					Type:    "console",
					Enabled: false, // Disabled by default for TUI
				},
			},
			Levels: map[string]string{
				"pipeline":  "INFO",
				"catalog":   "INFO",
				"tui":       "WARN",
				"cli":       "INFO",
				"telemetry": "WARN",
			},
			Context: LogContextConfig{
				IncludeCaller:     false,
				IncludeTimestamp:  true,
				IncludeStackTrace: "ERROR",
			},
			Sampling: LogSamplingConfig{
				Enabled:    false,
				Initial:    100,
				Thereafter: 100,
				Tick:       time.Second,
			},
		},
		Pipeline: PipelineConfig{
			Theme:           "agentbuilder",
			SettleDelay:     500 * time.Millisecond,
			CompletionDelay: 1500 * time.Millisecond,
			Speed:           1,
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			Endpoint:    "localhost:4318",
			Insecure:    true,
			ServiceName: "showcase",
			SampleRatio: 1,
		},
		TUI: TUIConfig{
			AltScreen: true,
			LogHeight: 8,
		},
	}
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *AppConfig {
	cfg := defaultConfig()
	return &cfg
}

// expandPaths expands ~ and environment variables in path configuration values
func (c *AppConfig) expandPaths() {
	if c.Pipeline.StagesFile != "" {
		c.Pipeline.StagesFile = expandPath(c.Pipeline.StagesFile)
	}
	for i := range c.Log.Output {
		if c.Log.Output[i].Path != "" {
			c.Log.Output[i].Path = expandPath(c.Log.Output[i].Path)
		}
	}
}

// expandPath expands ~ to home directory and environment variables
func expandPath(path string) string {
	if path == "" {
		return path
	}

	// Expand ~ to home directory
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(homeDir, path[1:])
		}
	}

	// Expand environment variables
	path = os.ExpandEnv(path)

	return path
}

// Validate checks if the configuration is valid. Flag overrides applied after
// loading should be checked again with it.
func (c *AppConfig) Validate() error {
	return c.validate()
}

// validate checks if the configuration is valid.
func (c *AppConfig) validate() error {
	validLogLevels := map[string]bool{
		"TRACE": true, "DEBUG": true, "INFO": true, "WARN": true, "ERROR": true, "FATAL": true, "PANIC": true,
	}
	if !validLogLevels[strings.ToUpper(c.Log.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	for pkg, level := range c.Log.Levels {
		if !validLogLevels[strings.ToUpper(level)] {
			return fmt.Errorf("invalid log level for %s: %s", pkg, level)
		}
	}

	if c.Pipeline.Theme == "" && c.Pipeline.StagesFile == "" {
		return errors.New("pipeline.theme or pipeline.stages_file is required")
	}
	if c.Pipeline.SettleDelay < 0 {
		return fmt.Errorf("pipeline.settle_delay must not be negative, got: %s", c.Pipeline.SettleDelay)
	}
	if c.Pipeline.CompletionDelay < 0 {
		return fmt.Errorf("pipeline.completion_delay must not be negative, got: %s", c.Pipeline.CompletionDelay)
	}
	if c.Pipeline.Speed <= 0 {
		return fmt.Errorf("pipeline.speed must be positive, got: %v", c.Pipeline.Speed)
	}

	if c.Telemetry.Enabled && c.Telemetry.Endpoint == "" {
		return errors.New("telemetry.endpoint is required when telemetry is enabled")
	}
	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("telemetry.sample_ratio must be within [0,1], got: %v", c.Telemetry.SampleRatio)
	}

	if c.TUI.LogHeight < 1 {
		return fmt.Errorf("tui.log_height must be at least 1, got: %d", c.TUI.LogHeight)
	}

	return nil
}
