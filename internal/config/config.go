// Package config defines the debugtap configuration surface, loaded through
// viper from a config file, environment variables, and flags.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete debugtap configuration
type Config struct {
	Capture CaptureConfig `mapstructure:"capture"`
	Logging LoggingConfig `mapstructure:"logging"`
	TUI     TUIConfig     `mapstructure:"tui"`
}

// CaptureConfig controls the capture engine
type CaptureConfig struct {
	// MutexName is the exclusivity mutex name. Engines with distinct names
	// can run concurrently, though they still share the one debug-output
	// channel. Empty means the engine's built-in default.
	MutexName string `mapstructure:"mutex_name"`
}

// LoggingConfig controls diagnostic logging of debugtap itself
type LoggingConfig struct {
	// Level is the minimum level written: debug, info, warn or error
	Level string `mapstructure:"level"`
	// Dir is where debugtap.log is written; empty logs to stderr
	Dir string `mapstructure:"dir"`
}

// TUIConfig controls the interactive viewer
type TUIConfig struct {
	// MaxMessages bounds the in-memory backlog; oldest entries are dropped
	// first once the bound is reached
	MaxMessages int `mapstructure:"max_messages"`
}

// Default returns a Config populated with default values
func Default() *Config {
	return &Config{
		Capture: CaptureConfig{
			MutexName: "",
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "",
		},
		TUI: TUIConfig{
			MaxMessages: 2000,
		},
	}
}

// SetDefaults registers default values with viper so they apply even when no
// config file exists
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("capture.mutex_name", defaults.Capture.MutexName)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)

	viper.SetDefault("tui.max_messages", defaults.TUI.MaxMessages)
}

// Load unmarshals and validates the current viper state
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration, falling back to defaults if the
// viper state does not unmarshal cleanly
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// ConfigDir returns the directory debugtap reads its config file from
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "debugtap")
	}
	// Fall back to ~/.config/debugtap
	home, err := os.UserHomeDir()
	if err != nil {
		return ".debugtap"
	}
	return filepath.Join(home, ".config", "debugtap")
}

// ConfigFile returns the expected path of the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
