// Package cmd implements the neuro command tree.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neuromation/neuro-admin/internal/config"
	"github.com/neuromation/neuro-admin/internal/logging"
	"github.com/neuromation/neuro-admin/internal/output"
	"github.com/neuromation/neuro-admin/sdk"
)

var (
	// Version information (set at build time via ldflags)
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// Streams are the standard streams a command reads from and writes to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// app is the state shared by every command of one invocation.
type app struct {
	streams Streams

	configPath string
	outputFlag string
	verbose    bool
	noColor    bool

	logger  *zap.Logger
	config  *config.Manager
	printer *output.Printer
	client  *sdk.Client
}

// Execute runs the command line args and returns the process exit code.
func Execute(ctx context.Context, streams Streams, args []string) int {
	a := &app{streams: streams}
	root := newRootCmd(a)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if err == nil {
		return ExitOK
	}

	output.NewPrinter(streams.Err, output.FormatTable, a.noColor).Error(err)
	if isUsageError(err) {
		if c, _, findErr := root.Find(args); findErr == nil {
			fmt.Fprintf(streams.Err, "Run '%s --help' for usage.\n", c.CommandPath())
		}
		return ExitUsage
	}
	return ExitError
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "neuro",
		Short: "Platform administration client",
		Long: `neuro manages a compute-cluster platform from the command line.

Use "neuro admin" to create clusters, manage cluster users, their quotas
and the resource presets offered on each cluster. Use "neuro config" to
choose the API endpoint, the token and the default cluster.`,
		Args:              noArgs,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE:              showHelp,
	}
	root.SetIn(a.streams.In)
	root.SetOut(a.streams.Out)
	root.SetErr(a.streams.Err)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Config file (default $NEURO_CONFIG or ~/.neuro/config.yaml)")
	flags.String(config.KeyURL, "", "Admin API URL (overrides NEURO_URL and the config file)")
	flags.String(config.KeyToken, "", "Authentication token (overrides NEURO_TOKEN and the config file)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Print debug diagnostics to stderr")
	flags.StringVarP(&a.outputFlag, "output", "o", string(output.FormatTable), "Output format: table or json")
	flags.BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		newAdminCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup resolves logging, configuration and output before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	format, err := output.ParseFormat(a.outputFlag)
	if err != nil {
		return usageError{err}
	}
	a.printer = output.NewPrinter(a.streams.Out, format, a.noColor)

	logger, err := logging.NewCLILogger(a.verbose, a.noColor)
	if err != nil {
		return err
	}
	a.logger = logger.With(zap.String(logging.FieldCommand, cmd.CommandPath()))
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))

	path := a.configPath
	if path == "" {
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	a.config, err = config.Load(path, cmd.Root().PersistentFlags())
	if err != nil {
		return err
	}
	a.logger.Debug("configuration loaded", zap.String("path", path))
	return nil
}

// apiClient returns the admin API client, creating it on first use.
func (a *app) apiClient() (*sdk.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	cfg, err := a.config.Get()
	if err != nil {
		return nil, err
	}
	if cfg.Token == "" {
		return nil, errors.New("not authenticated: run 'neuro config auth TOKEN' or set NEURO_TOKEN")
	}
	client, err := sdk.NewClient(sdk.ClientConfig{
		BaseURL:   cfg.URL,
		Token:     cfg.Token,
		UserAgent: "neuro/" + Version,
		Logger:    a.logger.Named("sdk"),
	})
	if err != nil {
		return nil, err
	}
	a.client = client
	return client, nil
}

// usageError marks errors caused by how the command was invoked.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...interface{}) error {
	return usageError{fmt.Errorf(format, args...)}
}

func isUsageError(err error) bool {
	var ue usageError
	if errors.As(err, &ue) {
		return true
	}
	// Raised by cobra before any hook of ours runs.
	return strings.HasPrefix(err.Error(), "unknown command ")
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return rangeArgs(n, n)
}

func rangeArgs(min, max int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.RangeArgs(min, max)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// noArgs rejects positional arguments on commands that only group subcommands.
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageErrorf("unknown command %q for %q", args[0], cmd.CommandPath())
	}
	return nil
}

func showHelp(cmd *cobra.Command, _ []string) error {
	return cmd.Help()
}
