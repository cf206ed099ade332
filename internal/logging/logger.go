// Package logging builds the zap loggers used by the neuro CLI and the admin server
// and carries them through context.Context.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment represents the deployment environment.
type Environment string

const (
	// EnvironmentProduction is for production deployments with JSON logging.
	EnvironmentProduction Environment = "production"

	// EnvironmentDevelopment is for development with console logging.
	EnvironmentDevelopment Environment = "development"
)

// Config holds the configuration for the logger.
type Config struct {
	// Level is the minimum enabled logging level (debug, info, warn, error).
	Level string

	// Environment determines the log format (production = JSON, development = console).
	Environment Environment

	// OutputPaths is a list of URLs or file paths to write logging output to.
	OutputPaths []string

	// ErrorOutputPaths is a list of URLs or file paths to write internal logger errors to.
	ErrorOutputPaths []string

	// NoColor disables colored levels in console output.
	NoColor bool

	// DisableCaller disables automatic caller information.
	DisableCaller bool

	// DisableStacktrace disables automatic stacktrace capturing.
	DisableStacktrace bool
}

// DefaultConfig returns a default configuration for development.
func DefaultConfig() Config {
	return Config{
		Level:            "info",
		Environment:      EnvironmentDevelopment,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
}

// NewLogger creates a new zap logger based on the provided configuration.
func NewLogger(cfg Config) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	if cfg.Environment != EnvironmentProduction && cfg.Environment != EnvironmentDevelopment {
		return nil, fmt.Errorf("invalid log environment %q", cfg.Environment)
	}

	var encoderConfig zapcore.EncoderConfig
	if cfg.Environment == EnvironmentProduction {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		if cfg.NoColor {
			encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		}
	}

	zapConfig := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		Development:       cfg.Environment == EnvironmentDevelopment,
		DisableCaller:     cfg.DisableCaller,
		DisableStacktrace: cfg.DisableStacktrace,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding:         encodingFromEnvironment(cfg.Environment),
		EncoderConfig:    encoderConfig,
		OutputPaths:      cfg.OutputPaths,
		ErrorOutputPaths: cfg.ErrorOutputPaths,
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger, nil
}

// NewCLILogger creates the logger for the neuro command.
// Diagnostics go to stderr so stdout stays clean for command output; only
// warnings and errors are shown unless verbose is set.
func NewCLILogger(verbose, noColor bool) (*zap.Logger, error) {
	cfg := DefaultConfig()
	cfg.Level = "warn"
	if verbose {
		cfg.Level = "debug"
	}
	cfg.NoColor = noColor
	cfg.DisableCaller = !verbose
	cfg.DisableStacktrace = true
	return NewLogger(cfg)
}

// NewServerLogger creates a logger for the admin server.
// An empty level means info.
func NewServerLogger(level string, env Environment) (*zap.Logger, error) {
	if level == "" {
		level = "info"
	}
	return NewLogger(Config{
		Level:            level,
		Environment:      env,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	})
}

func encodingFromEnvironment(env Environment) string {
	if env == EnvironmentProduction {
		return "json"
	}
	return "console"
}

// ParseLevel converts a string level to zapcore.Level.
func ParseLevel(level string) (zapcore.Level, error) {
	return zapcore.ParseLevel(strings.ToLower(level))
}
