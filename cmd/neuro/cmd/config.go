package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/neuromation/neuro-admin/internal/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cfg := &cobra.Command{
		Use:   "config",
		Short: "Client configuration",
		Long: `Show and change the client configuration.

Settings are stored in the config file and can be overridden by the
NEURO_URL, NEURO_TOKEN and NEURO_CLUSTER environment variables or the
--url and --token flags.`,
		Args: noArgs,
		RunE: showHelp,
	}

	cfg.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print current settings",
			Args:  exactArgs(0),
			RunE: func(_ *cobra.Command, _ []string) error {
				return a.showConfig()
			},
		},
		newConfigSetCmd(a, "url URL", "Update the admin API URL", config.KeyURL),
		newConfigSetCmd(a, "auth TOKEN", "Update the authentication token", config.KeyToken),
		newConfigSetCmd(a, "cluster CLUSTER_NAME", "Select the default cluster", config.KeyCluster),
	)
	return cfg
}

func newConfigSetCmd(a *app, use, short, key string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  short + ". An empty value clears the setting.",
		Args:  exactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if v := strings.TrimSpace(args[0]); v != "" {
				if err := config.ValidateValue(key, v); err != nil {
					return usageError{err}
				}
			}
			if err := a.config.Set(key, args[0]); err != nil {
				return err
			}
			a.printer.Success("Updated %s in %s.", key, a.config.Path())
			if key == config.KeyURL && strings.HasPrefix(strings.TrimSpace(args[0]), "http://") {
				a.printer.Warning("The API URL does not use TLS; the token will be sent unencrypted.")
			}
			return nil
		},
	}
}

type configView struct {
	URL        string `json:"url"`
	Token      string `json:"token"`
	Cluster    string `json:"cluster"`
	ConfigFile string `json:"config_file"`
}

func (a *app) showConfig() error {
	cfg, err := a.config.Get()
	if err != nil {
		return err
	}
	view := configView{
		URL:        cfg.URL,
		Token:      maskToken(cfg.Token),
		Cluster:    cfg.Cluster,
		ConfigFile: a.config.Path(),
	}
	if a.printer.IsJSON() {
		return a.printer.JSON(view)
	}

	withSource := func(value, key string) string {
		if value == "" {
			value = "-"
		}
		return value + " (" + a.config.Source(key) + ")"
	}
	return a.printer.KeyValues([][2]string{
		{"API URL", withSource(view.URL, config.KeyURL)},
		{"Token", withSource(view.Token, config.KeyToken)},
		{"Cluster", withSource(view.Cluster, config.KeyCluster)},
		{"Config file", view.ConfigFile},
	})
}

// maskToken keeps the first and last four characters of long tokens.
func maskToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return strings.Repeat("*", len(token))
	}
	return token[:4] + strings.Repeat("*", 8) + token[len(token)-4:]
}
