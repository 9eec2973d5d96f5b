package cli

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/lbtheory/isoortho/internal/builder"
	"github.com/lbtheory/isoortho/internal/serialization"
	"github.com/lbtheory/isoortho/internal/tensor"
)

// ExportResult is the output of the export command.
type ExportResult struct {
	Path    string   `json:"path" yaml:"path"`
	RunID   string   `json:"run_id" yaml:"run_id"`
	Kind    string   `json:"kind" yaml:"kind"`
	Dim     int      `json:"dim" yaml:"dim"`
	Tensors []string `json:"tensors" yaml:"tensors"`
}

// Text summarizes the written file.
func (r ExportResult) Text() string {
	return fmt.Sprintf("wrote %d %s tensor(s) with d=%d to %s (run %s)",
		len(r.Tensors), r.Kind, r.Dim, r.Path, r.RunID)
}

// TensorName is the SafeTensors entry name of the order-n tensor of kind.
func TensorName(kind builder.Kind, n int) string {
	return kind.String() + "_n" + strconv.Itoa(n)
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		kind     string
		maxOrder int
		dim      int
		output   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write tensors of orders 0..N to a SafeTensors file",
		Long: `Build the tensors of orders 0 through --max-order and write them to one
SafeTensors file as I64 data. Entries are named <kind>_n<order>; the header
metadata records the kind, dimension and a run id.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			k, err := builder.ParseKind(kind)
			if err != nil {
				return s.formatter.Fail(ExitCommandError, ErrCodeArgument, err)
			}
			d := s.dim(cmd, dim)
			if err := builder.Validate(k.String(), maxOrder, d); err != nil {
				return failBuild(s.formatter, err)
			}

			runID := uuid.NewString()
			logger := s.logger.WithKind(k.String()).WithDim(d)
			logger.Debug("exporting tensors", "max_order", maxOrder, "run_id", runID)

			tensors := make(map[string]*tensor.Tensor, maxOrder+1)
			names := make([]string, 0, maxOrder+1)
			for n := 0; n <= maxOrder; n++ {
				t, err := s.builder.Build(cmd.Context(), k, n, d)
				if err != nil {
					return failBuild(s.formatter, err)
				}
				name := TensorName(k, n)
				tensors[name] = t
				names = append(names, name)
			}

			metadata := map[string]string{
				"kind":      k.String(),
				"dim":       strconv.Itoa(d),
				"max_order": strconv.Itoa(maxOrder),
				"run_id":    runID,
			}
			if err := serialization.WriteSafeTensors(output, tensors, metadata); err != nil {
				return s.formatter.Fail(ExitCommandError, ErrCodeIO, err)
			}
			logger.Info("export complete", "path", output, "tensors", len(names))

			return s.formatter.Success(ExportResult{
				Path:    output,
				RunID:   runID,
				Kind:    k.String(),
				Dim:     d,
				Tensors: names,
			})
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "isotropic", "tensor kind (isotropic|orthogonal)")
	cmd.Flags().IntVarP(&maxOrder, "max-order", "n", 2, "highest order to export")
	cmd.Flags().IntVarP(&dim, "dim", "d", 3, "space dimension (1, 2 or 3)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output .safetensors file")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
