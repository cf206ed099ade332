package clusterconfig

import (
	"fmt"
	"strings"

	"github.com/neuromation/neuro-admin/models"
)

var catalogs = map[models.CloudProviderType][]models.NodePoolOption{
	models.CloudAWS: {
		{MachineType: "m5.2xlarge", CPU: 8, MemoryMB: 32 * 1024},
		{MachineType: "r5.4xlarge", CPU: 16, MemoryMB: 128 * 1024},
		{MachineType: "p2.xlarge", CPU: 4, MemoryMB: 61 * 1024, GPU: 1, GPUModel: "nvidia-tesla-k80"},
		{MachineType: "p3.2xlarge", CPU: 8, MemoryMB: 61 * 1024, GPU: 1, GPUModel: "nvidia-tesla-v100"},
	},
	models.CloudGCP: {
		{MachineType: "n1-highmem-8", CPU: 8, MemoryMB: 52 * 1024, TPUTypes: []string{"v2-8", "v3-8"}},
		{MachineType: "n1-highmem-32", CPU: 32, MemoryMB: 208 * 1024},
		{MachineType: "n1-highmem-8", CPU: 8, MemoryMB: 52 * 1024, GPU: 1, GPUModel: "nvidia-tesla-k80"},
		{MachineType: "n1-highmem-8", CPU: 8, MemoryMB: 52 * 1024, GPU: 1, GPUModel: "nvidia-tesla-v100"},
	},
	models.CloudAzure: {
		{MachineType: "Standard_D8s_v3", CPU: 8, MemoryMB: 32 * 1024},
		{MachineType: "Standard_E16s_v3", CPU: 16, MemoryMB: 128 * 1024},
		{MachineType: "Standard_NC6", CPU: 6, MemoryMB: 56 * 1024, GPU: 1, GPUModel: "nvidia-tesla-k80"},
		{MachineType: "Standard_NC6s_v3", CPU: 6, MemoryMB: 112 * 1024, GPU: 1, GPUModel: "nvidia-tesla-v100"},
	},
}

// Catalog returns the node pool shapes offered for a cloud type.
// The returned slice is a copy and may be modified by the caller.
func Catalog(t models.CloudProviderType) ([]models.NodePoolOption, error) {
	opts, ok := catalogs[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidCloudType, t)
	}
	out := make([]models.NodePoolOption, len(opts))
	copy(out, opts)
	return out, nil
}

// Options returns the catalog wrapped as the API's provider options payload.
func Options(t models.CloudProviderType) (*models.CloudProviderOptions, error) {
	pools, err := Catalog(t)
	if err != nil {
		return nil, err
	}
	return &models.CloudProviderOptions{Type: t, NodePools: pools}, nil
}

// DefaultNodePools turns the catalog into the node pools a generated config starts with.
// CPU pools scale from one node, GPU pools from zero, and every pool gets a
// preemptible twin on providers that support preemptible capacity.
func DefaultNodePools(t models.CloudProviderType) ([]NodePool, error) {
	opts, err := Catalog(t)
	if err != nil {
		return nil, err
	}
	pools := make([]NodePool, 0, len(opts)*2)
	for _, o := range opts {
		p := NodePool{
			Name:        poolName(o),
			MachineType: o.MachineType,
			MinSize:     1,
			MaxSize:     5,
			GPU:         o.GPU,
			GPUModel:    o.GPUModel,
		}
		if o.GPU > 0 {
			p.MinSize = 0
		}
		pools = append(pools, p)
		if t != models.CloudAzure {
			pre := p
			pre.Name += "-p"
			pre.MinSize = 0
			pre.IsPreemptible = true
			pools = append(pools, pre)
		}
	}
	return pools, nil
}

func poolName(o models.NodePoolOption) string {
	kind := "cpu"
	if o.GPU > 0 {
		kind = "gpu-" + strings.TrimPrefix(o.GPUModel, "nvidia-tesla-")
	}
	machine := strings.ToLower(strings.NewReplacer(".", "-", "_", "-").Replace(o.MachineType))
	return kind + "-" + machine
}
