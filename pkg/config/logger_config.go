package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerConfiguration describes the host logger.
type LoggerConfiguration struct {
	// LogLevel is one of zap levels: debug, info, warn, error, ...
	LogLevel string `yaml:"LogLevel"`
	// LogEncoding is either "console" or "json".
	LogEncoding string `yaml:"LogEncoding"`
	// LogPath is the file to write logs to, stderr is used if empty.
	LogPath string `yaml:"LogPath"`
}

// Validate checks logger settings.
func (c LoggerConfiguration) Validate() error {
	if len(c.LogLevel) > 0 {
		if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("log setting: %w", err)
		}
	}
	switch c.LogEncoding {
	case "", "console", "json":
	default:
		return fmt.Errorf("unknown log encoding %q", c.LogEncoding)
	}
	return nil
}

// BuildLogger creates a zap logger according to the configuration. If debug
// is set the level is forced to debug.
func (c LoggerConfiguration) BuildLogger(debug bool) (*zap.Logger, error) {
	var (
		level = zapcore.InfoLevel
		err   error
	)
	if len(c.LogLevel) > 0 {
		level, err = zapcore.ParseLevel(c.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("log setting: %w", err)
		}
	}
	if debug {
		level = zapcore.DebugLevel
	}

	cc := zap.NewProductionConfig()
	cc.DisableCaller = true
	cc.DisableStacktrace = true
	cc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	cc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cc.Encoding = "console"
	if c.LogEncoding != "" {
		cc.Encoding = c.LogEncoding
	}
	cc.Level = zap.NewAtomicLevelAt(level)
	cc.Sampling = nil

	if logPath := c.LogPath; logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
			return nil, fmt.Errorf("could not create dir for logger: %w", err)
		}
		cc.OutputPaths = []string{logPath}
	}

	return cc.Build()
}
