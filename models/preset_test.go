package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func validPreset() ResourcePreset {
	return ResourcePreset{
		Name:           "cpu-small",
		CPU:            0.5,
		MemoryMB:       1024,
		CreditsPerHour: decimal.NewFromInt(1),
	}
}

func TestResourcePreset_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *ResourcePreset)
		wantErr error
	}{
		{name: "valid", mutate: func(p *ResourcePreset) {}},
		{name: "gpu with model", mutate: func(p *ResourcePreset) { p.GPU = 1; p.GPUModel = "nvidia-tesla-k80" }},
		{name: "tpu pair", mutate: func(p *ResourcePreset) { p.TPUType = "v2-8"; p.TPUSoftwareVersion = "1.14" }},
		{name: "bad name", mutate: func(p *ResourcePreset) { p.Name = "X" }, wantErr: ErrInvalidName},
		{name: "zero cpu", mutate: func(p *ResourcePreset) { p.CPU = 0 }, wantErr: ErrInvalidPreset},
		{name: "zero memory", mutate: func(p *ResourcePreset) { p.MemoryMB = 0 }, wantErr: ErrInvalidPreset},
		{name: "negative gpu", mutate: func(p *ResourcePreset) { p.GPU = -1 }, wantErr: ErrInvalidPreset},
		{name: "model without gpu", mutate: func(p *ResourcePreset) { p.GPUModel = "nvidia-tesla-v100" }, wantErr: ErrInvalidPreset},
		{name: "tpu type only", mutate: func(p *ResourcePreset) { p.TPUType = "v3-8" }, wantErr: ErrInvalidPreset},
		{name: "tpu version only", mutate: func(p *ResourcePreset) { p.TPUSoftwareVersion = "2.0" }, wantErr: ErrInvalidPreset},
		{name: "negative credits", mutate: func(p *ResourcePreset) { p.CreditsPerHour = decimal.NewFromInt(-1) }, wantErr: ErrInvalidPreset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPreset()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePresets_Duplicates(t *testing.T) {
	a := validPreset()
	b := validPreset()
	if err := ValidatePresets([]ResourcePreset{a, b}); !errors.Is(err, ErrInvalidPreset) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	b.Name = "cpu-large"
	if err := ValidatePresets([]ResourcePreset{a, b}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx := FindPreset([]ResourcePreset{a, b}, "cpu-large"); idx != 1 {
		t.Errorf("FindPreset = %d, want 1", idx)
	}
	if idx := FindPreset(nil, "cpu-large"); idx != -1 {
		t.Errorf("FindPreset(nil) = %d, want -1", idx)
	}
}
