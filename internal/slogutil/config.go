package slogutil

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/javi11/flashverify/internal/config"
)

// Format selects the record encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

type ReplaceAttrFunc func(groups []string, a slog.Attr) slog.Attr

type Config struct {
	Level       slog.Leveler
	Format      Format
	ReplaceAttr ReplaceAttrFunc
	AddSource   bool
	// Writer receives every record. Defaults to stderr so stdout stays
	// free for the command's report.
	Writer io.Writer
	// LogPath, when set, also writes records to a rotated file.
	LogPath    string
	MaxSize    int
	MaxAge     int
	MaxBackups int
	Compress   bool
}

var defaultConfig = Config{
	Level:  slog.LevelInfo,
	Format: FormatText,
	Writer: os.Stderr,
}

func mergeConfig(config ...Config) Config {
	if len(config) == 0 {
		return defaultConfig
	}

	cfg := config[0]

	if cfg.Level == nil {
		cfg.Level = defaultConfig.Level
	}

	if cfg.Format == "" {
		cfg.Format = defaultConfig.Format
	}

	if cfg.Writer == nil {
		cfg.Writer = defaultConfig.Writer
	}

	return cfg
}

// ParseLevel maps debug, info, warn and error to slog levels. Anything else is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetupLogRotation configures slog from the log section of the config.
// If logConfig.File is empty, it logs to stderr only.
// If logConfig.File is configured, it logs to both stderr and the rotated file.
// The level is read through leveler so it can be raised after setup; a nil
// leveler gets one initialised from logConfig.Level.
func SetupLogRotation(logConfig config.LogConfig, leveler *DynamicLeveler) *slog.Logger {
	if leveler == nil {
		leveler = NewDynamicLeveler(ParseLevel(logConfig.Level))
	}

	handler := NewHandler(Config{
		Level:      leveler,
		Format:     Format(logConfig.Format),
		LogPath:    logConfig.File,
		MaxSize:    logConfig.MaxSize,
		MaxAge:     logConfig.MaxAge,
		MaxBackups: logConfig.MaxBackups,
		Compress:   logConfig.Compress,
	})

	return slog.New(handler)
}
