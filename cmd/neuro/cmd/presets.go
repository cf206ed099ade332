package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/neuromation/neuro-admin/models"
	"github.com/neuromation/neuro-admin/pkg/units"
)

func newGetResourcePresetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get-resource-presets CLUSTER_NAME",
		Short: "List the resource presets of a cluster",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cluster := args[0]
			if err := requireArg(models.ValidateClusterName(cluster)); err != nil {
				return err
			}
			client, err := a.apiClient()
			if err != nil {
				return err
			}
			presets, err := client.ListResourcePresets(cmd.Context(), cluster)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(presets))
			for _, p := range presets {
				tpu := "-"
				if p.HasTPU() {
					tpu = p.TPUType + "/" + p.TPUSoftwareVersion
				}
				rows = append(rows, []string{
					p.Name,
					formatCPU(p.CPU),
					units.FormatMemoryMB(p.MemoryMB),
					formatGPU(p.GPU, p.GPUModel),
					tpu,
					p.CreditsPerHour.String(),
					formatBool(p.Preemptible),
					formatBool(p.SchedulerEnabled),
				})
			}
			headers := []string{"NAME", "CPU", "MEMORY", "GPU", "TPU", "CREDITS/H", "PREEMPTIBLE", "SCHEDULER"}
			return a.printer.Render(presets, headers, rows, "No resource presets in cluster "+cluster+".")
		},
	}
}

// presetFlags are the options describing a resource preset.
type presetFlags struct {
	cpu            float64
	memory         string
	gpu            int
	gpuModel       string
	tpuType        string
	tpuSWVersion   string
	creditsPerHour string
	preemptible    bool
	nonPreemptible bool
	scheduler      bool
	noScheduler    bool
}

func (f *presetFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64VarP(&f.cpu, "cpu", "c", 0.1, "Number of CPUs")
	fs.StringVarP(&f.memory, "memory", "m", "1G", "Memory amount (e.g. 512M, 16G, 2GB)")
	fs.IntVarP(&f.gpu, "gpu", "g", 0, "Number of GPUs")
	fs.StringVar(&f.gpuModel, "gpu-model", "", "GPU model")
	fs.StringVar(&f.tpuType, "tpu-type", "", "TPU type")
	fs.StringVar(&f.tpuSWVersion, "tpu-sw-version", "", "TPU software version")
	fs.StringVar(&f.creditsPerHour, "credits-per-hour", "0", "Price of running a job with this preset for an hour")
	fs.BoolVarP(&f.preemptible, "preemptible", "p", false, "Run jobs on preemptible nodes")
	fs.BoolVar(&f.nonPreemptible, "non-preemptible", false, "Run jobs on regular nodes (default)")
	fs.BoolVar(&f.scheduler, "scheduler", false, "Use round robin scheduling for jobs")
	fs.BoolVar(&f.noScheduler, "no-scheduler", false, "Run jobs as soon as resources allow (default)")
}

// preset builds and validates the preset described by the flags.
func (f *presetFlags) preset(name string) (models.ResourcePreset, error) {
	if f.preemptible && f.nonPreemptible {
		return models.ResourcePreset{}, usageErrorf("--preemptible and --non-preemptible are mutually exclusive")
	}
	if f.scheduler && f.noScheduler {
		return models.ResourcePreset{}, usageErrorf("--scheduler and --no-scheduler are mutually exclusive")
	}
	memoryMB, err := units.ParseMemoryMB(f.memory)
	if err != nil {
		return models.ResourcePreset{}, usageErrorf("invalid --memory: %w", err)
	}
	credits, err := units.ParseCredits(f.creditsPerHour, false)
	if err != nil {
		return models.ResourcePreset{}, usageErrorf("invalid --credits-per-hour: %w", err)
	}

	p := models.ResourcePreset{
		Name:               name,
		CPU:                f.cpu,
		MemoryMB:           memoryMB,
		GPU:                f.gpu,
		GPUModel:           f.gpuModel,
		TPUType:            f.tpuType,
		TPUSoftwareVersion: f.tpuSWVersion,
		CreditsPerHour:     *credits,
		Preemptible:        f.preemptible,
		SchedulerEnabled:   f.scheduler,
	}
	if err := p.Validate(); err != nil {
		if errors.Is(err, models.ErrInvalidPreset) {
			return p, usageError{err}
		}
		return p, requireArg(err)
	}
	return p, nil
}

func newAddResourcePresetCmd(a *app) *cobra.Command {
	var flags presetFlags

	cmd := &cobra.Command{
		Use:   "add-resource-preset CLUSTER_NAME PRESET_NAME",
		Short: "Add a resource preset to a cluster",
		Long: `Add PRESET_NAME to the resource presets of CLUSTER_NAME.

Fails if a preset with the same name already exists.`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cluster := args[0]
			if err := requireArg(models.ValidateClusterName(cluster)); err != nil {
				return err
			}
			preset, err := flags.preset(args[1])
			if err != nil {
				return err
			}
			client, err := a.apiClient()
			if err != nil {
				return err
			}
			if err := client.AddResourcePreset(cmd.Context(), cluster, preset); err != nil {
				return err
			}
			a.printer.Success("Added resource preset %s in cluster %s.", preset.Name, cluster)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newUpdateResourcePresetCmd(a *app) *cobra.Command {
	var flags presetFlags

	cmd := &cobra.Command{
		Use:   "update-resource-preset CLUSTER_NAME PRESET_NAME",
		Short: "Add or replace a resource preset",
		Long: `Set PRESET_NAME in CLUSTER_NAME to the given options.

An existing preset with the same name is replaced; otherwise a new one is added.`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cluster := args[0]
			if err := requireArg(models.ValidateClusterName(cluster)); err != nil {
				return err
			}
			preset, err := flags.preset(args[1])
			if err != nil {
				return err
			}
			client, err := a.apiClient()
			if err != nil {
				return err
			}
			if err := client.UpdateResourcePreset(cmd.Context(), cluster, preset); err != nil {
				return err
			}
			a.printer.Success("Updated resource preset %s in cluster %s.", preset.Name, cluster)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newRemoveResourcePresetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-resource-preset CLUSTER_NAME PRESET_NAME",
		Short: "Remove a resource preset from a cluster",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cluster, name := args[0], args[1]
			if err := requireArg(models.ValidateClusterName(cluster)); err != nil {
				return err
			}
			if err := requireArg(models.ValidatePresetName(name)); err != nil {
				return err
			}
			client, err := a.apiClient()
			if err != nil {
				return err
			}
			if err := client.RemoveResourcePreset(cmd.Context(), cluster, name); err != nil {
				return err
			}
			a.printer.Success("Removed resource preset %s from cluster %s.", name, cluster)
			return nil
		},
	}
}
