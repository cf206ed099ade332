// Package clusterconfig builds, stores and validates cluster configuration documents.
//
// A configuration document describes where a new cluster runs: the cloud
// provider type, region and zones, the provider credentials, the node pools to
// create and the storage to attach. Documents are YAML files that the
// generate-cluster-config command writes and add-cluster uploads:
//
//	type: gcp
//	project: my-project
//	region: us-central1
//	zones: [us-central1-a]
//	credentials: {...}
//	node_pools:
//	  - name: cpu-n1-highmem-8
//	    machine_type: n1-highmem-8
//	    min_size: 0
//	    max_size: 5
//	storage:
//	  type: nfs
//	  size_gb: 100
package clusterconfig

import (
	"errors"

	"github.com/neuromation/neuro-admin/models"
)

const (
	// MaxConfigSize is the maximum accepted size of a configuration file (1 MiB).
	MaxConfigSize = 1 << 20

	// DefaultFileName is written when generate-cluster-config gets no CONFIG argument.
	DefaultFileName = "cluster.yml"

	// DefaultType is used when generate-cluster-config gets no --type.
	DefaultType = models.CloudGCP
)

// Common configuration errors.
var (
	// ErrConfigTooLarge indicates the file exceeds MaxConfigSize.
	ErrConfigTooLarge = errors.New("cluster config exceeds 1 MiB size limit")

	// ErrInvalidYAML indicates the file is not a YAML mapping of the expected shape.
	ErrInvalidYAML = errors.New("cluster config contains invalid YAML")

	// ErrMissingField indicates a required key is absent or empty.
	ErrMissingField = errors.New("cluster config is missing a required field")

	// ErrNoNodePools indicates the document declares no node pools.
	ErrNoNodePools = errors.New("cluster config must declare at least one node pool")

	// ErrInvalidNodePool indicates a node pool with inconsistent sizes.
	ErrInvalidNodePool = errors.New("invalid node pool")

	// ErrFileExists indicates Save was asked to overwrite an existing file.
	ErrFileExists = errors.New("config file already exists")
)

// Config is a cluster configuration document.
type Config struct {
	// Type selects the cloud provider
	Type models.CloudProviderType `yaml:"type" json:"type"`

	// Project is the GCP project id (gcp only)
	Project string `yaml:"project,omitempty" json:"project,omitempty"`

	// ResourceGroup is the Azure resource group (azure only)
	ResourceGroup string `yaml:"resource_group,omitempty" json:"resource_group,omitempty"`

	// Region is the provider region
	Region string `yaml:"region" json:"region"`

	// Zones lists availability zones within Region
	Zones []string `yaml:"zones,omitempty" json:"zones,omitempty"`

	// Credentials holds provider credentials. For gcp it is the service account key.
	Credentials map[string]any `yaml:"credentials" json:"credentials"`

	// NodePools lists the node pools to create
	NodePools []NodePool `yaml:"node_pools" json:"node_pools"`

	// Storage describes the shared storage to attach
	Storage Storage `yaml:"storage" json:"storage"`
}

// NodePool describes one autoscaled group of identical nodes.
type NodePool struct {
	Name          string `yaml:"name" json:"name"`
	MachineType   string `yaml:"machine_type" json:"machine_type"`
	MinSize       int    `yaml:"min_size" json:"min_size"`
	MaxSize       int    `yaml:"max_size" json:"max_size"`
	GPU           int    `yaml:"gpu,omitempty" json:"gpu,omitempty"`
	GPUModel      string `yaml:"gpu_model,omitempty" json:"gpu_model,omitempty"`
	TPUType       string `yaml:"tpu_type,omitempty" json:"tpu_type,omitempty"`
	IsPreemptible bool   `yaml:"is_preemptible,omitempty" json:"is_preemptible,omitempty"`
}

// Storage describes the cluster's shared storage.
type Storage struct {
	Type   string `yaml:"type" json:"type"`
	SizeGB int    `yaml:"size_gb,omitempty" json:"size_gb,omitempty"`
}
