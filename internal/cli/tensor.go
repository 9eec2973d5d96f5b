package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/lbtheory/isoortho/internal/builder"
	"github.com/lbtheory/isoortho/internal/tensor"
)

// TensorResult is the output of delta, isotropic and orthogonal.
type TensorResult struct {
	Kind  string `json:"kind" yaml:"kind"`
	Order int    `json:"order" yaml:"order"`
	Dim   int    `json:"dim" yaml:"dim"`
	Shape []int  `json:"shape" yaml:"shape,flow"`
	Data  any    `json:"data" yaml:"data"`

	tensor *tensor.Tensor
}

func newTensorResult(kind string, n, d int, t *tensor.Tensor) TensorResult {
	return TensorResult{
		Kind:   kind,
		Order:  n,
		Dim:    d,
		Shape:  []int(t.Shape()),
		Data:   t.Nested(),
		tensor: t,
	}
}

// Text renders a header line followed by the tensor.
func (r TensorResult) Text() string {
	return fmt.Sprintf("%s n=%d d=%d shape=%s\n%s", r.Kind, r.Order, r.Dim, r.tensor.Shape(), r.tensor)
}

// NewDeltaCommand creates the delta command.
func NewDeltaCommand(rootOpts *RootOptions) *cobra.Command {
	var dim int

	cmd := &cobra.Command{
		Use:           "delta",
		Short:         "Print the Kronecker delta",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			d := s.dim(cmd, dim)
			t, err := builder.Delta(d)
			if err != nil {
				return failBuild(s.formatter, err)
			}
			return s.formatter.Success(newTensorResult("delta", 1, d, t))
		},
	}

	cmd.Flags().IntVarP(&dim, "dim", "d", 3, "space dimension (1, 2 or 3)")
	return cmd
}

// NewIsotropicCommand creates the isotropic command.
func NewIsotropicCommand(rootOpts *RootOptions) *cobra.Command {
	return newBuildCommand(rootOpts, builder.Isotropic,
		"Build the isotropic tensor Δ of order N",
		`Build the isotropic tensor Δ of order N (rank 2N) with the combinatorial
product: Δ(N) = δ ⊗ Δ(N-1), summed over unordered label choices.`)
}

// NewOrthogonalCommand creates the orthogonal command.
func NewOrthogonalCommand(rootOpts *RootOptions) *cobra.Command {
	return newBuildCommand(rootOpts, builder.Orthogonal,
		"Build the orthogonality tensor Ο of order N",
		`Build the orthogonality tensor Ο of order N (rank 2N) with the permutatorial
product of N Kronecker deltas, summed over ordered label choices.`)
}

func newBuildCommand(rootOpts *RootOptions, kind builder.Kind, short, long string) *cobra.Command {
	var dim int

	cmd := &cobra.Command{
		Use:           kind.String() + " <order>",
		Short:         short,
		Long:          long,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := strconv.Atoi(args[0])
			if err != nil {
				return s.formatter.Fail(ExitCommandError, ErrCodeArgument,
					fmt.Errorf("order must be an integer, got %q", args[0]))
			}

			d := s.dim(cmd, dim)
			s.logger.WithKind(kind.String()).WithOrder(n).WithDim(d).Debug("building tensor")

			t, err := s.builder.Build(cmd.Context(), kind, n, d)
			if err != nil {
				return failBuild(s.formatter, err)
			}
			return s.formatter.Success(newTensorResult(kind.String(), n, d, t))
		},
	}

	cmd.Flags().IntVarP(&dim, "dim", "d", 3, "space dimension (1, 2 or 3)")
	return cmd
}

// failBuild reports a builder error. Domain errors get their own code.
func failBuild(f *OutputFormatter, err error) error {
	var domainErr *builder.DomainError
	if errors.As(err, &domainErr) {
		return f.Fail(ExitFailure, ErrCodeDomain, err)
	}
	return f.Fail(ExitFailure, ErrCodeGeneric, err)
}
