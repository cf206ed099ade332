package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/neuromation/neuro-admin/internal/logging"
	"github.com/neuromation/neuro-admin/models"
	"github.com/neuromation/neuro-admin/pkg/units"
)

func newGetClusterUsersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get-cluster-users [CLUSTER_NAME]",
		Short: "List users of a cluster",
		Long: `List the users of CLUSTER_NAME with their roles.

CLUSTER_NAME defaults to the cluster set by "neuro config cluster".`,
		Args: rangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cluster, err := a.clusterArg(args)
			if err != nil {
				return err
			}
			client, err := a.apiClient()
			if err != nil {
				return err
			}
			users, err := client.ListClusterUsers(cmd.Context(), cluster)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(users))
			for _, u := range users {
				rows = append(rows, []string{u.UserName, u.Role.String()})
			}
			return a.printer.Render(users, []string{"NAME", "ROLE"}, rows, "No users in cluster "+cluster+".")
		},
	}
}

// clusterArg returns the cluster from the first argument or the configured default.
func (a *app) clusterArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], requireArg(models.ValidateClusterName(args[0]))
	}
	cfg, err := a.config.Get()
	if err != nil {
		return "", err
	}
	if cfg.Cluster == "" {
		return "", usageErrorf("no cluster given: pass CLUSTER_NAME or run 'neuro config cluster NAME'")
	}
	return cfg.Cluster, nil
}

func newAddClusterUserCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add-cluster-user CLUSTER_NAME USER_NAME [ROLE]",
		Short: "Add a user to a cluster",
		Long: `Add USER_NAME to CLUSTER_NAME with ROLE.

ROLE is one of admin, manager or user (the default).`,
		Args: rangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cluster, user, err := clusterAndUser(args)
			if err != nil {
				return err
			}
			var roleArg string
			if len(args) == 3 {
				roleArg = args[2]
			}
			role, err := models.ParseClusterUserRole(roleArg)
			if err != nil {
				return usageError{err}
			}
			client, err := a.apiClient()
			if err != nil {
				return err
			}

			added, err := client.AddClusterUser(cmd.Context(), cluster, user, role)
			if err != nil {
				return err
			}
			logging.FromContext(cmd.Context()).Debug("cluster user added",
				zap.String(logging.FieldCluster, cluster),
				zap.String(logging.FieldUser, user),
				zap.String(logging.FieldRole, role.String()))

			if a.printer.IsJSON() {
				return a.printer.JSON(added)
			}
			a.printer.Success("Added %s to cluster %s as %s.", user, cluster, added.Role)
			return nil
		},
	}
}

func newRemoveClusterUserCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-cluster-user CLUSTER_NAME USER_NAME",
		Short: "Remove a user from a cluster",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cluster, user, err := clusterAndUser(args)
			if err != nil {
				return err
			}
			client, err := a.apiClient()
			if err != nil {
				return err
			}
			if err := client.RemoveClusterUser(cmd.Context(), cluster, user); err != nil {
				return err
			}
			a.printer.Success("Removed %s from cluster %s.", user, cluster)
			return nil
		},
	}
}

func newGetUserQuotaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get-user-quota CLUSTER_NAME USER_NAME",
		Short: "Show the quota of a cluster user",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cluster, user, err := clusterAndUser(args)
			if err != nil {
				return err
			}
			client, err := a.apiClient()
			if err != nil {
				return err
			}
			u, err := client.GetClusterUser(cmd.Context(), cluster, user)
			if err != nil {
				return err
			}
			return a.printUser(u)
		},
	}
}

// quotaFlags are the -c/-g/-n/-j options shared by set-user-quota and add-user-quota.
type quotaFlags struct {
	credits, gpu, nonGPU, jobs string
}

func (q *quotaFlags) register(fs *pflag.FlagSet, verb string) {
	fs.StringVarP(&q.credits, "credits", "c", "", "Credits amount to "+verb)
	fs.StringVarP(&q.gpu, "gpu", "g", "", "GPU run time to "+verb+", in hours (10h) or minutes (90m)")
	fs.StringVarP(&q.nonGPU, "non-gpu", "n", "", "Non-GPU run time to "+verb+", in hours (10h) or minutes (90m)")
	fs.StringVarP(&q.jobs, "jobs", "j", "", "Maximum running jobs to "+verb)
}

// parse converts the flags into a quota. Omitted flags stay nil.
func (q *quotaFlags) parse(allowUnlimited bool) (models.Quota, error) {
	var (
		quota models.Quota
		err   error
	)
	if q.credits != "" {
		if quota.Credits, err = units.ParseCredits(q.credits, allowUnlimited); err != nil {
			return quota, usageErrorf("invalid --credits: %w", err)
		}
	}
	if q.gpu != "" {
		if quota.TotalGPURunTimeMinutes, err = units.ParseRunTime(q.gpu, allowUnlimited); err != nil {
			return quota, usageErrorf("invalid --gpu: %w", err)
		}
	}
	if q.nonGPU != "" {
		if quota.TotalNonGPURunTimeMinutes, err = units.ParseRunTime(q.nonGPU, allowUnlimited); err != nil {
			return quota, usageErrorf("invalid --non-gpu: %w", err)
		}
	}
	if q.jobs != "" {
		if quota.TotalRunningJobs, err = units.ParseJobs(q.jobs, allowUnlimited); err != nil {
			return quota, usageErrorf("invalid --jobs: %w", err)
		}
	}
	return quota, nil
}

func newSetUserQuotaCmd(a *app) *cobra.Command {
	var flags quotaFlags

	cmd := &cobra.Command{
		Use:   "set-user-quota CLUSTER_NAME USER_NAME",
		Short: "Set the quota of a cluster user",
		Long: `Replace the quota of USER_NAME in CLUSTER_NAME.

Omitted options, and options set to "unlimited", remove the corresponding limit.`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cluster, user, err := clusterAndUser(args)
			if err != nil {
				return err
			}
			quota, err := flags.parse(true)
			if err != nil {
				return err
			}
			client, err := a.apiClient()
			if err != nil {
				return err
			}
			u, err := client.SetUserQuota(cmd.Context(), cluster, user, quota)
			if err != nil {
				return err
			}
			a.printer.Success("New quotas for %s on cluster %s:", user, cluster)
			return a.printUser(u)
		},
	}
	flags.register(cmd.Flags(), "set")
	return cmd
}

func newAddUserQuotaCmd(a *app) *cobra.Command {
	var flags quotaFlags

	cmd := &cobra.Command{
		Use:   "add-user-quota CLUSTER_NAME USER_NAME",
		Short: "Add to the quota of a cluster user",
		Long: `Increase the quota of USER_NAME in CLUSTER_NAME by the given amounts.

At least one option is required. Unlimited parts of the quota stay unlimited.`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cluster, user, err := clusterAndUser(args)
			if err != nil {
				return err
			}
			delta, err := flags.parse(false)
			if err != nil {
				return err
			}
			if delta.IsUnlimited() {
				return usageErrorf("at least one of --credits, --gpu, --non-gpu or --jobs is required")
			}
			client, err := a.apiClient()
			if err != nil {
				return err
			}
			u, err := client.AddUserQuota(cmd.Context(), cluster, user, models.QuotaAddRequest{
				AdditionalCredits:              delta.Credits,
				AdditionalGPURunTimeMinutes:    delta.TotalGPURunTimeMinutes,
				AdditionalNonGPURunTimeMinutes: delta.TotalNonGPURunTimeMinutes,
				AdditionalRunningJobs:          delta.TotalRunningJobs,
			})
			if err != nil {
				return err
			}
			a.printer.Success("New quotas for %s on cluster %s:", user, cluster)
			return a.printUser(u)
		},
	}
	flags.register(cmd.Flags(), "add")
	return cmd
}

func (a *app) printUser(u *models.ClusterUser) error {
	if a.printer.IsJSON() {
		return a.printer.JSON(u)
	}
	return a.printer.KeyValues([][2]string{
		{"Cluster", u.ClusterName},
		{"User", u.UserName},
		{"Role", u.Role.String()},
		{"Credits", units.FormatCredits(u.Quota.Credits)},
		{"GPU run time", units.FormatRunTime(u.Quota.TotalGPURunTimeMinutes)},
		{"Non-GPU run time", units.FormatRunTime(u.Quota.TotalNonGPURunTimeMinutes)},
		{"Running jobs", units.FormatJobs(u.Quota.TotalRunningJobs)},
	})
}

func clusterAndUser(args []string) (string, string, error) {
	if err := requireArg(models.ValidateClusterName(args[0])); err != nil {
		return "", "", err
	}
	if err := requireArg(models.ValidateUserName(args[1])); err != nil {
		return "", "", err
	}
	return args[0], args[1], nil
}
