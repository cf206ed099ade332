package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neuromation/neuro-admin/internal/logging"
	"github.com/neuromation/neuro-admin/internal/prompt"
	"github.com/neuromation/neuro-admin/models"
	"github.com/neuromation/neuro-admin/pkg/clusterconfig"
	"github.com/neuromation/neuro-admin/pkg/units"
)

func newAdminCmd(a *app) *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Cluster administration commands",
		Long: `Manage clusters, cluster users, user quotas and resource presets.

Every command talks to the admin API configured with "neuro config url"
and authenticates with the token set by "neuro config auth".`,
		Args: noArgs,
		RunE: showHelp,
	}

	admin.AddCommand(
		newGetClustersCmd(a),
		newGenerateClusterConfigCmd(a),
		newAddClusterCmd(a),
		newShowClusterOptionsCmd(a),
		newGetClusterUsersCmd(a),
		newAddClusterUserCmd(a),
		newRemoveClusterUserCmd(a),
		newGetUserQuotaCmd(a),
		newSetUserQuotaCmd(a),
		newAddUserQuotaCmd(a),
		newGetResourcePresetsCmd(a),
		newAddResourcePresetCmd(a),
		newUpdateResourcePresetCmd(a),
		newRemoveResourcePresetCmd(a),
	)
	return admin
}

func newGetClustersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get-clusters",
		Short: "Print the list of available clusters",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.apiClient()
			if err != nil {
				return err
			}
			clusters, err := client.ListClusters(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(clusters))
			for _, c := range clusters {
				cloud, region := "-", "-"
				if c.CloudProvider != nil {
					cloud = c.CloudProvider.Type.String()
					if c.CloudProvider.Region != "" {
						region = c.CloudProvider.Region
					}
				}
				rows = append(rows, []string{c.Name, string(c.Status), cloud, region, formatTime(c.CreatedAt)})
			}
			return a.printer.Render(clusters, []string{"NAME", "STATUS", "CLOUD", "REGION", "CREATED"}, rows, "No clusters found.")
		},
	}
}

func newGenerateClusterConfigCmd(a *app) *cobra.Command {
	var cloudType string

	cmd := &cobra.Command{
		Use:   "generate-cluster-config [CONFIG]",
		Short: "Create a cluster configuration file",
		Long: `Ask for the cloud provider settings and write a cluster configuration
file that "neuro admin add-cluster" accepts.

CONFIG defaults to cluster.yml. An existing file is never overwritten.`,
		Args: rangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseCloudType(cloudType)
			if err != nil {
				return err
			}
			path := clusterconfig.DefaultFileName
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%w: %s", clusterconfig.ErrFileExists, path)
			}

			questions, err := clusterconfig.Questions(t)
			if err != nil {
				return err
			}
			asker := prompt.New(cmd.InOrStdin(), cmd.OutOrStdout())
			answers := make(map[string]string, len(questions))
			for _, q := range questions {
				answer, err := asker.Ask(prompt.Question{Label: q.Prompt, Default: q.Default, Secret: q.Secret})
				if err != nil {
					return err
				}
				answers[q.Key] = answer
			}

			doc, err := clusterconfig.Build(t, answers)
			if err != nil {
				return err
			}
			if err := clusterconfig.Save(path, doc); err != nil {
				return err
			}
			logging.FromContext(cmd.Context()).Debug("cluster config written",
				zap.String(logging.FieldCloudType, t.String()), zap.String("path", path))
			a.printer.Success("Cluster config %s is generated.", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&cloudType, "type", clusterconfig.DefaultType.String(), "Cloud provider type: "+cloudTypeList())
	return cmd
}

func newAddClusterCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add-cluster CLUSTER_NAME CONFIG",
		Short: "Create a new cluster and start its deployment",
		Long: `Create a cluster named CLUSTER_NAME and upload the cloud provider
configuration from CONFIG (see "neuro admin generate-cluster-config").`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, path := args[0], args[1]
			if err := models.ValidateClusterName(name); err != nil {
				return usageError{err}
			}
			doc, err := clusterconfig.Load(path)
			if err != nil {
				return err
			}
			client, err := a.apiClient()
			if err != nil {
				return err
			}

			ctx := logging.AddFields(cmd.Context(), zap.String(logging.FieldCluster, name))
			cluster, err := client.CreateCluster(ctx, name)
			if err != nil {
				return err
			}
			logging.FromContext(ctx).Debug("cluster created", zap.String("status", string(cluster.Status)))
			if err := client.SetupCloudProvider(ctx, name, doc); err != nil {
				return fmt.Errorf("cluster %s was created but its cloud provider setup failed: %w", name, err)
			}

			if a.printer.IsJSON() {
				return a.printer.JSON(cluster)
			}
			a.printer.Success("Cluster %s successfully added and will be set up within 35 minutes.", name)
			return nil
		},
	}
}

func newShowClusterOptionsCmd(a *app) *cobra.Command {
	var cloudType string

	cmd := &cobra.Command{
		Use:   "show-cluster-options",
		Short: "Show the node pool types offered by cloud providers",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			types := models.CloudProviderTypes
			if cloudType != "" {
				t, err := parseCloudType(cloudType)
				if err != nil {
					return err
				}
				types = []models.CloudProviderType{t}
			}
			client, err := a.apiClient()
			if err != nil {
				return err
			}

			all := make([]*models.CloudProviderOptions, 0, len(types))
			for _, t := range types {
				opts, err := client.GetCloudProviderOptions(cmd.Context(), t)
				if err != nil {
					return err
				}
				all = append(all, opts)
			}
			if a.printer.IsJSON() {
				return a.printer.JSON(all)
			}

			for i, opts := range all {
				if i > 0 {
					fmt.Fprintln(a.printer.Writer())
				}
				fmt.Fprintf(a.printer.Writer(), "%s node pools:\n", strings.ToUpper(opts.Type.String()))
				rows := make([][]string, 0, len(opts.NodePools))
				for _, np := range opts.NodePools {
					rows = append(rows, []string{
						np.MachineType,
						formatCPU(np.CPU),
						units.FormatMemoryMB(np.MemoryMB),
						formatGPU(np.GPU, np.GPUModel),
						orDash(strings.Join(np.TPUTypes, ", ")),
					})
				}
				if err := a.printer.Table([]string{"MACHINE TYPE", "CPU", "MEMORY", "GPU", "TPU"}, rows); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cloudType, "type", "", "Cloud provider type: "+cloudTypeList()+" (all when omitted)")
	return cmd
}

// parseCloudType validates a --type value.
func parseCloudType(s string) (models.CloudProviderType, error) {
	t, err := models.ParseCloudProviderType(s)
	if err != nil {
		return "", usageError{err}
	}
	return t, nil
}

func cloudTypeList() string {
	names := make([]string, len(models.CloudProviderTypes))
	for i, t := range models.CloudProviderTypes {
		names[i] = t.String()
	}
	return strings.Join(names, "|")
}

// requireArg converts a validation failure of a positional argument into a usage error.
func requireArg(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, models.ErrInvalidName) || errors.Is(err, models.ErrInvalidRole) {
		return usageError{err}
	}
	return err
}
