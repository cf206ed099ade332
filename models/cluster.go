package models

import (
	"fmt"
	"strings"
	"time"
)

// CloudProviderType identifies the cloud a cluster is provisioned on.
type CloudProviderType string

const (
	// CloudAWS is Amazon Web Services.
	CloudAWS CloudProviderType = "aws"

	// CloudGCP is Google Cloud Platform.
	CloudGCP CloudProviderType = "gcp"

	// CloudAzure is Microsoft Azure.
	CloudAzure CloudProviderType = "azure"
)

// CloudProviderTypes lists every supported cloud type in display order.
var CloudProviderTypes = []CloudProviderType{CloudAWS, CloudGCP, CloudAzure}

// ParseCloudProviderType converts user input into a CloudProviderType.
// Matching is case-insensitive; anything other than aws, gcp or azure is rejected.
func ParseCloudProviderType(s string) (CloudProviderType, error) {
	t := CloudProviderType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q is not one of %s", ErrInvalidCloudType, s, cloudTypeChoices())
	}
	return t, nil
}

// Valid reports whether t is one of the supported cloud types.
func (t CloudProviderType) Valid() bool {
	for _, known := range CloudProviderTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (t CloudProviderType) String() string {
	return string(t)
}

func cloudTypeChoices() string {
	names := make([]string, len(CloudProviderTypes))
	for i, t := range CloudProviderTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// ClusterStatus is the lifecycle state reported by the platform for a cluster.
type ClusterStatus string

const (
	// ClusterStatusBlank means the cluster record exists but has no cloud provider yet.
	ClusterStatusBlank ClusterStatus = "blank"

	// ClusterStatusDeploying means a cloud provider was set and deployment started.
	ClusterStatusDeploying ClusterStatus = "deploying"

	// ClusterStatusDeployed means the cluster is ready for use.
	ClusterStatusDeployed ClusterStatus = "deployed"

	// ClusterStatusFailed means the last deployment attempt failed.
	ClusterStatusFailed ClusterStatus = "failed"
)

// Cluster represents a named compute environment administered through the platform.
type Cluster struct {
	// Name is the unique cluster name (e.g., "default", "gpu-eu-west")
	Name string `json:"name"`

	// Status is the current lifecycle state of the cluster
	Status ClusterStatus `json:"status"`

	// CloudProvider describes where the cluster runs.
	// Nil until a cloud provider configuration has been uploaded.
	CloudProvider *CloudProvider `json:"cloud_provider,omitempty"`

	// CreatedAt is the timestamp when the cluster record was created
	CreatedAt time.Time `json:"created_at"`
}

// CloudProvider is the summary of a cluster's cloud provider configuration.
type CloudProvider struct {
	// Type is the cloud the cluster is provisioned on
	Type CloudProviderType `json:"type"`

	// Region is the provider region (e.g., "us-east-1", "europe-west4")
	Region string `json:"region,omitempty"`

	// Zones lists the availability zones the cluster spans
	Zones []string `json:"zones,omitempty"`
}

// ClusterCreateRequest represents the request body for creating a new cluster.
type ClusterCreateRequest struct {
	// Name is the desired cluster name (required)
	Name string `json:"name"`
}

// Validate checks the cluster creation request.
func (r *ClusterCreateRequest) Validate() error {
	return ValidateClusterName(r.Name)
}

// NodePoolOption describes one machine shape a cloud provider can offer for node pools.
type NodePoolOption struct {
	// MachineType is the provider-specific instance type (e.g., "p3.2xlarge")
	MachineType string `json:"machine_type"`

	// CPU is the number of virtual CPUs
	CPU float64 `json:"cpu"`

	// MemoryMB is the amount of memory in megabytes
	MemoryMB int64 `json:"memory_mb"`

	// GPU is the number of GPUs attached to the machine
	GPU int `json:"gpu,omitempty"`

	// GPUModel is the GPU model name (e.g., "nvidia-tesla-v100")
	GPUModel string `json:"gpu_model,omitempty"`

	// TPUTypes lists TPU accelerator types usable from this machine type
	TPUTypes []string `json:"tpu_types,omitempty"`
}

// CloudProviderOptions lists the node pool shapes available for a cloud type.
type CloudProviderOptions struct {
	// Type is the cloud the options belong to
	Type CloudProviderType `json:"type"`

	// NodePools is the catalog of available node pool shapes
	NodePools []NodePoolOption `json:"node_pools"`
}
