package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/neuromation/neuro-admin/internal/logging"
	"github.com/neuromation/neuro-admin/pkg/token"
)

const envPrefix = "NEURO_ADMIN_"

// Config holds server configuration from flags and environment variables.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080").
	ListenAddr string

	// DatabasePath is the SQLite database file, or ":memory:".
	DatabasePath string

	// AdminToken is the bearer token clients must present.
	AdminToken string

	// InstanceID identifies this server instance.
	InstanceID string

	// LogLevel is the logging level (debug, info, warn, error).
	LogLevel string

	// Environment selects the log format (development or production).
	Environment string

	// AllowOrigins lists allowed CORS origins.
	AllowOrigins []string

	// RateLimit is the per-IP request rate in requests per second.
	RateLimit float64

	// Burst is the per-IP burst size.
	Burst int
}

// parseFlags reads flags from args, falling back to NEURO_ADMIN_* variables from getenv.
func parseFlags(args []string, getenv func(string) string) (*Config, error) {
	env := func(key, def string) string {
		if v := getenv(envPrefix + key); v != "" {
			return v
		}
		return def
	}

	rateDefault, err := strconv.ParseFloat(env("RATE_LIMIT", "100"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %sRATE_LIMIT: %w", envPrefix, err)
	}
	burstDefault, err := strconv.Atoi(env("BURST", "200"))
	if err != nil {
		return nil, fmt.Errorf("invalid %sBURST: %w", envPrefix, err)
	}

	config := &Config{}
	var origins string

	fs := flag.NewFlagSet("neuro-admin-server", flag.ContinueOnError)
	fs.StringVar(&config.ListenAddr, "listen", env("LISTEN_ADDR", ":8080"), "Address to listen on")
	fs.StringVar(&config.DatabasePath, "db", env("DB_PATH", "./neuro-admin.db"), "Path to SQLite database file (:memory: for a throwaway store)")
	fs.StringVar(&config.AdminToken, "token", env("TOKEN", ""), "Admin bearer token (required)")
	fs.StringVar(&config.InstanceID, "instance-id", env("INSTANCE_ID", ""), "Instance UUID (generated if empty)")
	fs.StringVar(&config.LogLevel, "log-level", env("LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
	fs.StringVar(&config.Environment, "env", env("ENV", string(logging.EnvironmentDevelopment)), "Log format environment (development, production)")
	fs.StringVar(&origins, "cors-origins", env("CORS_ORIGINS", ""), "Comma-separated list of allowed CORS origins (* for all)")
	fs.Float64Var(&config.RateLimit, "rate-limit", rateDefault, "Requests per second allowed per client IP")
	fs.IntVar(&config.Burst, "burst", burstDefault, "Burst size per client IP")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	config.AllowOrigins = parseCORSOrigins(origins)

	return config, nil
}

// validateConfig checks required settings and fills in the instance ID.
func validateConfig(config *Config) error {
	if config.AdminToken == "" {
		return fmt.Errorf("admin token is required (set %sTOKEN or use -token)", envPrefix)
	}
	if err := token.ValidateLength(config.AdminToken); err != nil {
		return fmt.Errorf("admin token: %w", err)
	}

	if config.InstanceID == "" {
		config.InstanceID = uuid.New().String()
	}
	if _, err := uuid.Parse(config.InstanceID); err != nil {
		return fmt.Errorf("invalid instance ID format: %w", err)
	}

	if _, err := logging.ParseLevel(config.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q", config.LogLevel)
	}
	switch logging.Environment(config.Environment) {
	case logging.EnvironmentDevelopment, logging.EnvironmentProduction:
	default:
		return fmt.Errorf("invalid environment %q: must be development or production", config.Environment)
	}

	if config.RateLimit <= 0 || config.Burst <= 0 {
		return fmt.Errorf("rate limit and burst must be positive")
	}
	return nil
}

func parseCORSOrigins(origins string) []string {
	var result []string
	for _, origin := range strings.Split(origins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}
