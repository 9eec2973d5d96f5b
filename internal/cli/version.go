package cli

import (
	"runtime"

	"github.com/spf13/cobra"
)

// Version is the CLI version, overridden at link time with
// -ldflags "-X github.com/lbtheory/isoortho/internal/cli.Version=...".
var Version = "v0.1.0-dev"

// VersionResult is the output of the version command.
type VersionResult struct {
	Version string `json:"version" yaml:"version"`
	Go      string `json:"go" yaml:"go"`
}

// Text renders "isoortho <version> (<go version>)".
func (r VersionResult) Text() string {
	return "isoortho " + r.Version + " (" + r.Go + ")"
}

// NewVersionCommand creates the version command.
func NewVersionCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "version",
		Short:         "Show version",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format: rootOpts.settings().Format,
				Writer: cmd.OutOrStdout(),
			}
			return formatter.Success(VersionResult{Version: Version, Go: runtime.Version()})
		},
	}
}
