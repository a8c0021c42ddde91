// Package cli defines the airmod command tree: the batch pipeline run, the
// single-airline predictor, and the HTTP scoring server.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/airnalytics/air-modernity/internal/config"
	"github.com/airnalytics/air-modernity/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds the global flags shared by every subcommand.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	InputPath  string
	OutputDir  string
}

// CLIContext carries the initialised dependencies through the command tree.
type CLIContext struct {
	Config *config.Config
	Logger logging.Logger
}

type cliContextKey struct{}

// NewRootCommand creates the airmod root command with global flags and all
// subcommands attached.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "airmod",
		Short: "Airline fleet modernity scoring and segmentation",
		Long: "airmod turns a per-aircraft fleet dataset into per-airline modernity\n" +
			"scores, clusters the airlines into segments, and serves a what-if\n" +
			"predictor over the trained artifacts.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: AIRMOD_* env plus built-in defaults)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.InputPath, "input", "i", "", "per-aircraft dataset (CSV or XLSX)")
	pf.StringVarP(&opts.OutputDir, "out", "o", "", "artifact output directory")

	cmd.AddCommand(newPipelineCmd())
	cmd.AddCommand(newPredictCmd())
	cmd.AddCommand(newServeCmd())
	return cmd
}

// persistentPreRun loads configuration, applies flag overrides, and builds
// the logger before any subcommand runs.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	var cfg *config.Config
	var err error
	if opts.ConfigPath != "" {
		cfg, err = config.Load(opts.ConfigPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	// Flags win over file and environment.
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.InputPath != "" {
		cfg.Input.Path = opts.InputPath
	}
	if opts.OutputDir != "" {
		cfg.Output.Dir = opts.OutputDir
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}

	ctx := context.WithValue(cmd.Context(), cliContextKey{}, &CLIContext{
		Config: cfg,
		Logger: log,
	})
	cmd.SetContext(ctx)
	return nil
}

// getCLIContext extracts the initialised dependencies from the command.
func getCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	cc, ok := cmd.Context().Value(cliContextKey{}).(*CLIContext)
	if !ok || cc == nil {
		return nil, fmt.Errorf("cli context not initialised")
	}
	return cc, nil
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
	return 0
}
