package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ResourcePreset is a named bundle of compute resources users pick when starting jobs.
type ResourcePreset struct {
	// Name identifies the preset within its cluster
	Name string `json:"name"`

	// CPU is the number of CPU cores, fractional values allowed
	CPU float64 `json:"cpu"`

	// MemoryMB is the memory limit in megabytes
	MemoryMB int64 `json:"memory_mb"`

	// GPU is the number of GPUs
	GPU int `json:"gpu,omitempty"`

	// GPUModel is the GPU model name; only meaningful when GPU > 0
	GPUModel string `json:"gpu_model,omitempty"`

	// TPUType is the TPU accelerator type (e.g., "v2-8")
	TPUType string `json:"tpu_type,omitempty"`

	// TPUSoftwareVersion is the TPU runtime version (e.g., "1.14")
	TPUSoftwareVersion string `json:"tpu_software_version,omitempty"`

	// CreditsPerHour is the price of running the preset for one hour
	CreditsPerHour decimal.Decimal `json:"credits_per_hour"`

	// Preemptible means jobs may run on preemptible nodes
	Preemptible bool `json:"is_preemptible"`

	// SchedulerEnabled means jobs go through the platform scheduler
	SchedulerEnabled bool `json:"scheduler_enabled"`
}

// Validate checks the preset's field ranges and combinations.
func (p ResourcePreset) Validate() error {
	if err := ValidatePresetName(p.Name); err != nil {
		return err
	}
	switch {
	case p.CPU <= 0:
		return fmt.Errorf("%w: %s: cpu must be positive", ErrInvalidPreset, p.Name)
	case p.MemoryMB <= 0:
		return fmt.Errorf("%w: %s: memory must be positive", ErrInvalidPreset, p.Name)
	case p.GPU < 0:
		return fmt.Errorf("%w: %s: gpu must not be negative", ErrInvalidPreset, p.Name)
	case p.GPUModel != "" && p.GPU == 0:
		return fmt.Errorf("%w: %s: gpu model requires a gpu count", ErrInvalidPreset, p.Name)
	case (p.TPUType == "") != (p.TPUSoftwareVersion == ""):
		return fmt.Errorf("%w: %s: tpu type and tpu software version must be set together", ErrInvalidPreset, p.Name)
	case p.CreditsPerHour.IsNegative():
		return fmt.Errorf("%w: %s: credits per hour must not be negative", ErrInvalidPreset, p.Name)
	}
	return nil
}

// HasTPU reports whether the preset requests a TPU.
func (p ResourcePreset) HasTPU() bool {
	return p.TPUType != ""
}

// FindPreset returns the index of the preset named name, or -1.
func FindPreset(presets []ResourcePreset, name string) int {
	for i := range presets {
		if presets[i].Name == name {
			return i
		}
	}
	return -1
}

// ValidatePresets validates each preset and rejects duplicate names.
func ValidatePresets(presets []ResourcePreset) error {
	seen := make(map[string]struct{}, len(presets))
	for _, p := range presets {
		if err := p.Validate(); err != nil {
			return err
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("%w: duplicate preset %q", ErrInvalidPreset, p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}
