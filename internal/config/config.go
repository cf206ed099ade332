// Package config loads the neuro CLI settings.
//
// Settings come from, in increasing precedence: built-in defaults, the config
// file (~/.neuro/config.yaml), NEURO_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/neuromation/neuro-admin/models"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	configDirName  = ".neuro"
	configFileName = "config.yaml"

	// EnvPrefix prefixes every environment override (NEURO_URL, NEURO_TOKEN, ...).
	EnvPrefix = "NEURO"

	// DefaultURL is the admin API used when nothing else is configured.
	DefaultURL = "https://platform.neuromation.io"
)

// Setting keys.
const (
	KeyURL     = "url"
	KeyToken   = "token"
	KeyCluster = "cluster"
)

// Keys lists the settings neuro config can change, in display order.
var Keys = []string{KeyURL, KeyToken, KeyCluster}

// ErrUnknownKey indicates a setting name outside Keys.
var ErrUnknownKey = errors.New("unknown config key")

// Config is the resolved CLI configuration.
type Config struct {
	URL     string `mapstructure:"url" yaml:"url,omitempty"`
	Token   string `mapstructure:"token" yaml:"token,omitempty"`
	Cluster string `mapstructure:"cluster" yaml:"cluster,omitempty"`
}

// Manager resolves settings from all sources and persists changes to the config file.
type Manager struct {
	path  string
	viper *viper.Viper
	flags *pflag.FlagSet
	file  Config
}

// DefaultPath returns the config file location: $NEURO_CONFIG or ~/.neuro/config.yaml.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

// Load reads the config file at path if it exists and layers environment overrides on top.
// flags may be nil; when given, its url, token and cluster flags take precedence.
func Load(path string, flags *pflag.FlagSet) (*Manager, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyURL, DefaultURL)
	v.SetDefault(KeyToken, "")
	v.SetDefault(KeyCluster, "")

	m := &Manager{path: path, viper: v, flags: flags}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}
	if err := m.readFile(); err != nil {
		return nil, err
	}

	if flags != nil {
		for _, key := range Keys {
			if f := flags.Lookup(key); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", key, err)
				}
			}
		}
	}
	return m, nil
}

// readFile keeps the file-only view used when saving, so env and flag overrides
// never leak into the file.
func (m *Manager) readFile() error {
	data, err := os.ReadFile(m.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error reading config file %s: %w", m.path, err)
	}
	if err := yaml.Unmarshal(data, &m.file); err != nil {
		return fmt.Errorf("error parsing config file %s: %w", m.path, err)
	}
	return nil
}

// Path returns the config file location.
func (m *Manager) Path() string {
	return m.path
}

// Get returns the resolved configuration.
func (m *Manager) Get() (Config, error) {
	var cfg Config
	if err := m.viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.URL = strings.TrimSpace(cfg.URL)
	cfg.Token = strings.TrimSpace(cfg.Token)
	cfg.Cluster = strings.TrimSpace(cfg.Cluster)
	return cfg, nil
}

// Source reports where the resolved value of key comes from: "flag", "env", "file" or "default".
func (m *Manager) Source(key string) string {
	if f := m.flag(key); f != nil && f.Changed {
		return "flag"
	}
	if os.Getenv(EnvPrefix+"_"+strings.ToUpper(key)) != "" {
		return "env"
	}
	if m.fileValue(key) != "" {
		return "file"
	}
	return "default"
}

func (m *Manager) flag(key string) *pflag.Flag {
	if m.flags == nil {
		return nil
	}
	return m.flags.Lookup(key)
}

// Set validates value and writes it to the config file. An empty value clears the key.
func (m *Manager) Set(key, value string) error {
	value = strings.TrimSpace(value)
	if value != "" {
		if err := ValidateValue(key, value); err != nil {
			return err
		}
	}
	switch key {
	case KeyURL:
		m.file.URL = strings.TrimSuffix(value, "/")
	case KeyToken:
		m.file.Token = value
	case KeyCluster:
		m.file.Cluster = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return m.save()
}

// ValidateValue checks a setting value before it is stored.
func ValidateValue(key, value string) error {
	switch key {
	case KeyURL:
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid url %q: must be an absolute http:// or https:// URL", value)
		}
	case KeyCluster:
		return models.ValidateClusterName(value)
	case KeyToken:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	return nil
}

func (m *Manager) fileValue(key string) string {
	switch key {
	case KeyURL:
		return m.file.URL
	case KeyToken:
		return m.file.Token
	case KeyCluster:
		return m.file.Cluster
	}
	return ""
}

func (m *Manager) save() error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(m.file)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tmp, m.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace config: %w", err)
	}
	return nil
}
