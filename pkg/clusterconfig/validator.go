package clusterconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/neuromation/neuro-admin/models"
	"gopkg.in/yaml.v3"
)

var requiredCredentials = map[models.CloudProviderType][]string{
	models.CloudAWS:   {KeyAccessKeyID, KeySecretAccessKey},
	models.CloudGCP:   {"type", "project_id", "private_key", "client_email"},
	models.CloudAzure: {KeyTenantID, KeySubscriptionID, KeyClientID, KeyClientSecret},
}

// Load reads and validates the configuration document at path.
//
// Parameters:
//   - path: Location of the YAML document
//
// Returns:
//   - *Config: The parsed document
//   - error: ErrConfigTooLarge, ErrInvalidYAML or a validation error
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cluster config: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxConfigSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read cluster config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a configuration document.
func Parse(data []byte) (*Config, error) {
	if len(data) > MaxConfigSize {
		return nil, ErrConfigTooLarge
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: document is empty", ErrInvalidYAML)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the cloud type, the keys that type requires and the node pools.
func (c *Config) Validate() error {
	if !c.Type.Valid() {
		return fmt.Errorf("%w: %q", models.ErrInvalidCloudType, c.Type)
	}
	if c.Region == "" {
		return fmt.Errorf("%w: region", ErrMissingField)
	}
	switch c.Type {
	case models.CloudGCP:
		if c.Project == "" {
			return fmt.Errorf("%w: project", ErrMissingField)
		}
	case models.CloudAzure:
		if c.ResourceGroup == "" {
			return fmt.Errorf("%w: resource_group", ErrMissingField)
		}
	case models.CloudAWS:
		if len(c.Zones) == 0 {
			return fmt.Errorf("%w: zones", ErrMissingField)
		}
	}
	for _, key := range requiredCredentials[c.Type] {
		v, ok := c.Credentials[key]
		if s, isString := v.(string); !ok || (isString && s == "") {
			return fmt.Errorf("%w: credentials.%s", ErrMissingField, key)
		}
	}

	if len(c.NodePools) == 0 {
		return ErrNoNodePools
	}
	names := make(map[string]struct{}, len(c.NodePools))
	for i, p := range c.NodePools {
		switch {
		case p.Name == "":
			return fmt.Errorf("%w: node_pools[%d].name", ErrMissingField, i)
		case p.MachineType == "":
			return fmt.Errorf("%w: node_pools[%d].machine_type", ErrMissingField, i)
		case p.MinSize < 0 || p.MaxSize < 1 || p.MinSize > p.MaxSize:
			return fmt.Errorf("%w: %s: sizes must satisfy 0 <= min_size <= max_size, max_size >= 1", ErrInvalidNodePool, p.Name)
		case p.GPU < 0:
			return fmt.Errorf("%w: %s: gpu must not be negative", ErrInvalidNodePool, p.Name)
		}
		if _, dup := names[p.Name]; dup {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidNodePool, p.Name)
		}
		names[p.Name] = struct{}{}
	}
	return nil
}

// Marshal renders the document as YAML.
func Marshal(c *Config) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("failed to encode cluster config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode cluster config: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the document to path. It never overwrites an existing file.
// The file is created with 0600 permissions since it carries credentials.
func Save(path string, c *Config) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}
	return writeNew(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// writeNew creates path exclusively and fills it with write.
// A file that could not be written completely is removed.
func writeNew(path string, write func(io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrFileExists, path)
		}
		return fmt.Errorf("failed to create cluster config: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to write cluster config: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write cluster config: %w", err)
	}
	return nil
}
