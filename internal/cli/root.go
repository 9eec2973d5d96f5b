// Package cli implements the isoortho command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lbtheory/isoortho/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose     bool
	Format      string // "text" | "json" | "yaml"
	ConfigPath  string
	Workers     int
	CachePath   string
	MetricsFile string

	// cfg is the loaded configuration with flags applied; nil until the
	// root command's pre-run hook has run.
	cfg *config.Config
}

// NewRootCommand creates the root command for the isoortho CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "isoortho",
		Short: "Isotropic and orthogonality tensors",
		Long: `Build the isotropic (Δ) and orthogonality (Ο) tensors of order n over
Euclidean spaces of dimension 1, 2 or 3 from Kronecker deltas.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "YAML configuration file")
	cmd.PersistentFlags().IntVar(&opts.Workers, "workers", 0, "worker goroutines per product (0 uses the config)")
	cmd.PersistentFlags().StringVar(&opts.CachePath, "cache", "", "SQLite tensor cache path")
	cmd.PersistentFlags().StringVar(&opts.MetricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	// Add subcommands
	cmd.AddCommand(NewDeltaCommand(opts))
	cmd.AddCommand(NewIsotropicCommand(opts))
	cmd.AddCommand(NewOrthogonalCommand(opts))
	cmd.AddCommand(NewIndicesCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

// load reads the configuration file and overlays explicitly set flags.
func (o *RootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load configuration", err)
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = o.Format
	}
	if flags.Changed("cache") {
		cfg.Cache.Path = o.CachePath
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.Textfile = o.MetricsFile
	}
	if o.Workers > 0 {
		cfg.Parallel.NumWorkers = o.Workers
		cfg.Parallel.Enabled = o.Workers > 1
	}
	if o.Verbose {
		cfg.Log.Level = "debug"
	}

	if !isValidFormat(cfg.Format) {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("invalid format %q: must be one of %v", cfg.Format, config.ValidFormats))
	}
	o.Format = cfg.Format
	o.cfg = &cfg
	return nil
}

// settings returns the loaded configuration, or the defaults with the format
// flag applied when a command runs without the root command.
func (o *RootOptions) settings() config.Config {
	if o.cfg != nil {
		return *o.cfg
	}
	cfg := config.Default()
	if o.Format != "" {
		cfg.Format = o.Format
	}
	if o.Verbose {
		cfg.Log.Level = "debug"
	}
	cfg.Cache.Path = o.CachePath
	cfg.Metrics.Textfile = o.MetricsFile
	return cfg
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range config.ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
