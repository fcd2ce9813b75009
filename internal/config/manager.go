package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is the test file created when the target is a directory.
const DefaultFileName = "flashverify.bin"

// DefaultReserveBytes is the free space required on top of the test file for
// filesystem metadata.
const DefaultReserveBytes int64 = 16 << 20

// Config represents the complete application configuration
type Config struct {
	Target TargetConfig `yaml:"target" mapstructure:"target"`
	Check  CheckConfig  `yaml:"check" mapstructure:"check"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// TargetConfig controls where the test file goes and how much space must be left.
type TargetConfig struct {
	FileName     string `yaml:"file_name" mapstructure:"file_name"`
	ReserveBytes int64  `yaml:"reserve_bytes" mapstructure:"reserve_bytes"`
}

// CheckConfig controls the combined write and verify run.
type CheckConfig struct {
	PromptReinsert  *bool `yaml:"prompt_reinsert" mapstructure:"prompt_reinsert"`
	RemoveOnSuccess bool  `yaml:"remove_on_success" mapstructure:"remove_on_success"`
}

// LogConfig represents logging configuration with rotation support
type LogConfig struct {
	File       string `yaml:"file" mapstructure:"file"`               // Log file path (empty = stderr only)
	Level      string `yaml:"level" mapstructure:"level"`             // Log level (debug, info, warn, error)
	Format     string `yaml:"format" mapstructure:"format"`           // text or json
	MaxSize    int    `yaml:"max_size" mapstructure:"max_size"`       // Max size in MB before rotation
	MaxAge     int    `yaml:"max_age" mapstructure:"max_age"`         // Max age in days to keep files
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"` // Max number of old files to keep
	Compress   bool   `yaml:"compress" mapstructure:"compress"`       // Compress old log files
}

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{"text", "json"}
)

// Validate validates the configuration. Level and format names are
// normalized to lower case.
func (c *Config) Validate() error {
	name := c.Target.FileName
	if name == "" {
		return fmt.Errorf("target.file_name cannot be empty")
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("target.file_name must be a plain file name, got %q", name)
	}

	if c.Target.ReserveBytes < 0 {
		return fmt.Errorf("target.reserve_bytes must be non-negative")
	}

	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Log.Format = strings.ToLower(c.Log.Format)

	if c.Log.Level != "" && !slices.Contains(validLevels, c.Log.Level) {
		return fmt.Errorf("log.level must be one of: debug, info, warn, error")
	}

	if c.Log.Format != "" && !slices.Contains(validFormats, c.Log.Format) {
		return fmt.Errorf("log.format must be one of: text, json")
	}

	if c.Log.MaxSize < 0 {
		return fmt.Errorf("log.max_size must be non-negative")
	}

	if c.Log.MaxAge < 0 {
		return fmt.Errorf("log.max_age must be non-negative")
	}

	if c.Log.MaxBackups < 0 {
		return fmt.Errorf("log.max_backups must be non-negative")
	}

	return nil
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	promptReinsert := true

	return &Config{
		Target: TargetConfig{
			FileName:     DefaultFileName,
			ReserveBytes: DefaultReserveBytes,
		},
		Check: CheckConfig{
			PromptReinsert:  &promptReinsert,
			RemoveOnSuccess: false,
		},
		Log: LogConfig{
			File:       "",     // Empty = stderr only
			Level:      "info", // Default log level
			Format:     "text",
			MaxSize:    10, // 10MB max size
			MaxAge:     30, // Keep for 30 days
			MaxBackups: 3,  // Keep 3 old files
			Compress:   true,
		},
	}
}

// SaveToFile saves a configuration to a YAML file on fs
func SaveToFile(fs afero.Fs, config *Config, filename string) error {
	if filename == "" {
		return fmt.Errorf("no config file path provided")
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := afero.WriteFile(fs, filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadConfig loads configuration from file and merges with defaults.
// With an empty configFile, flashverify.yaml is looked up in the working
// directory and the user config directory; finding none is not an error.
func LoadConfig(configFile string) (*Config, error) {
	config := DefaultConfig()
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("flashverify")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "flashverify"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			return config, nil
		}
		return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}
