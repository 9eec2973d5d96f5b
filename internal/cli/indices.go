package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lbtheory/isoortho/internal/index"
)

// IndicesResult is the output of the indices command.
type IndicesResult struct {
	Kind   string        `json:"kind" yaml:"kind"`
	Dims   []int         `json:"dims" yaml:"dims,flow"`
	Fixed  []int         `json:"fixed" yaml:"fixed,flow"`
	Count  int           `json:"count" yaml:"count"`
	Tuples []index.Tuple `json:"tuples" yaml:"tuples"`
}

// Text renders one tuple per line followed by the count.
func (r IndicesResult) Text() string {
	var b strings.Builder
	for _, t := range r.Tuples {
		cells := make([]string, len(t))
		for i, v := range t {
			cells[i] = fmt.Sprint(v)
		}
		fmt.Fprintf(&b, "(%s)\n", strings.Join(cells, ", "))
	}
	fmt.Fprintf(&b, "%d %s tuple(s)", r.Count, r.Kind)
	return b.String()
}

// NewIndicesCommand creates the indices command.
func NewIndicesCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		kind  string
		dims  []int
		fixed []int
	)

	cmd := &cobra.Command{
		Use:   "indices",
		Short: "Enumerate index-assignment tuples",
		Long: `Enumerate the index-assignment tuples of a nonstandard product.

--dims lists the operand ranks, --fixed the 1-based axis positions whose
labels never move. Combination tuples choose labels as unordered sets per
operand; permutation tuples choose them in order.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := rootOpts.settings()
			formatter := &OutputFormatter{
				Format:    cfg.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}

			k, err := index.ParseKind(kind)
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeArgument, err)
			}

			fixedSet := index.NewFixedSet(fixed...)
			count, err := index.Count(k, dims, fixedSet)
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeArgument, err)
			}
			formatter.VerboseLog("enumerating %d %s tuple(s)", count, k)

			tuples, err := index.Generate(k, dims, fixedSet)
			if err != nil {
				return formatter.Fail(ExitFailure, ErrCodeGeneric, err)
			}

			return formatter.Success(IndicesResult{
				Kind:   k.String(),
				Dims:   dims,
				Fixed:  fixedSet.Sorted(),
				Count:  len(tuples),
				Tuples: tuples,
			})
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "combination", "tuple kind (combination|permutation)")
	cmd.Flags().IntSliceVar(&dims, "dims", []int{2, 2}, "operand ranks")
	cmd.Flags().IntSliceVar(&fixed, "fixed", []int{1}, "fixed 1-based axis positions")
	return cmd
}
