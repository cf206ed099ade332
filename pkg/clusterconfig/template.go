package clusterconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/neuromation/neuro-admin/models"
)

// Question is one value generate-cluster-config asks the operator for.
type Question struct {
	// Key identifies the answer in the map passed to Build
	Key string

	// Prompt is the text shown to the operator
	Prompt string

	// Default is used when the operator enters nothing; empty means the answer is required
	Default string

	// Secret hides the typed value
	Secret bool
}

// Answer keys shared by the templates.
const (
	KeyRegion          = "region"
	KeyZones           = "zones"
	KeyProject         = "project"
	KeyCredentialsFile = "credentials_file"
	KeyAccessKeyID     = "access_key_id"
	KeySecretAccessKey = "secret_access_key"
	KeyResourceGroup   = "resource_group"
	KeyTenantID        = "tenant_id"
	KeySubscriptionID  = "subscription_id"
	KeyClientID        = "client_id"
	KeyClientSecret    = "client_secret"
	KeyStorageSizeGB   = "storage_size_gb"
)

var questions = map[models.CloudProviderType][]Question{
	models.CloudAWS: {
		{Key: KeyRegion, Prompt: "AWS region", Default: "us-east-1"},
		{Key: KeyZones, Prompt: "Availability zones (comma separated)", Default: "us-east-1a,us-east-1b"},
		{Key: KeyAccessKeyID, Prompt: "AWS access key id"},
		{Key: KeySecretAccessKey, Prompt: "AWS secret access key", Secret: true},
		{Key: KeyStorageSizeGB, Prompt: "Storage size in GB", Default: "100"},
	},
	models.CloudGCP: {
		{Key: KeyProject, Prompt: "GCP project name"},
		{Key: KeyRegion, Prompt: "GCP region", Default: "us-central1"},
		{Key: KeyZones, Prompt: "Zones (comma separated)", Default: "us-central1-a"},
		{Key: KeyCredentialsFile, Prompt: "Service account key file (.json)"},
		{Key: KeyStorageSizeGB, Prompt: "Storage size in GB", Default: "100"},
	},
	models.CloudAzure: {
		{Key: KeyRegion, Prompt: "Azure region", Default: "centralus"},
		{Key: KeyResourceGroup, Prompt: "Azure resource group"},
		{Key: KeyTenantID, Prompt: "Azure tenant id"},
		{Key: KeySubscriptionID, Prompt: "Azure subscription id"},
		{Key: KeyClientID, Prompt: "Azure client id"},
		{Key: KeyClientSecret, Prompt: "Azure client secret", Secret: true},
		{Key: KeyStorageSizeGB, Prompt: "Storage size in GB", Default: "100"},
	},
}

var storageTypes = map[models.CloudProviderType]string{
	models.CloudAWS:   "efs",
	models.CloudGCP:   "filestore",
	models.CloudAzure: "azure-files",
}

// Questions returns the prompts for a cloud type in the order they should be asked.
func Questions(t models.CloudProviderType) ([]Question, error) {
	qs, ok := questions[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidCloudType, t)
	}
	out := make([]Question, len(qs))
	copy(out, qs)
	return out, nil
}

// Build assembles a configuration document from the operator's answers.
// Missing answers fall back to the question defaults. For gcp the service
// account key file is read and embedded as the credentials section.
func Build(t models.CloudProviderType, answers map[string]string) (*Config, error) {
	qs, err := Questions(t)
	if err != nil {
		return nil, err
	}
	filled := make(map[string]string, len(qs))
	for _, q := range qs {
		v := strings.TrimSpace(answers[q.Key])
		if v == "" {
			v = q.Default
		}
		if v == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, q.Key)
		}
		filled[q.Key] = v
	}
	get := func(key string) string { return filled[key] }

	pools, err := DefaultNodePools(t)
	if err != nil {
		return nil, err
	}
	size, err := strconv.Atoi(get(KeyStorageSizeGB))
	if err != nil || size <= 0 {
		return nil, fmt.Errorf("%w: storage size %q must be a positive integer", models.ErrInvalidRequest, get(KeyStorageSizeGB))
	}

	cfg := &Config{
		Type:      t,
		Region:    get(KeyRegion),
		Zones:     splitList(get(KeyZones)),
		NodePools: pools,
		Storage:   Storage{Type: storageTypes[t], SizeGB: size},
	}

	switch t {
	case models.CloudAWS:
		cfg.Credentials = map[string]any{
			KeyAccessKeyID:     get(KeyAccessKeyID),
			KeySecretAccessKey: get(KeySecretAccessKey),
		}
	case models.CloudGCP:
		cfg.Project = get(KeyProject)
		creds, err := readServiceAccountKey(get(KeyCredentialsFile))
		if err != nil {
			return nil, err
		}
		cfg.Credentials = creds
	case models.CloudAzure:
		cfg.ResourceGroup = get(KeyResourceGroup)
		cfg.Credentials = map[string]any{
			KeyTenantID:       get(KeyTenantID),
			KeySubscriptionID: get(KeySubscriptionID),
			KeyClientID:       get(KeyClientID),
			KeyClientSecret:   get(KeyClientSecret),
		}
	}
	return cfg, nil
}

func readServiceAccountKey(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read service account key: %w", err)
	}
	var key map[string]any
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, fmt.Errorf("service account key %s is not valid JSON: %w", path, err)
	}
	if key["type"] != "service_account" {
		return nil, fmt.Errorf("%w: %s is not a service account key", models.ErrInvalidRequest, path)
	}
	return key, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
