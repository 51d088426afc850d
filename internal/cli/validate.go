package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vvakame/gqlir/internal/validations"
)

type ValidateOptions struct {
	*RootOptions
	Parallelism int
}

func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <document>...",
		Short: "Report selections that cannot be merged into one response",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, opts, args)
		},
	}

	cmd.Flags().IntVarP(&opts.Parallelism, "parallelism", "j", 1, "operations and fragments validated concurrently")

	return cmd
}

func runValidate(cmd *cobra.Command, opts *ValidateOptions, documents []string) error {
	formatter := &outputFormatter{format: opts.Format, writer: cmd.OutOrStdout()}

	program, err := loadProgram(opts.RootOptions, documents)
	if err != nil {
		return formatter.writeError(err)
	}

	err = validations.ValidateSelectionConflict(cmd.Context(), program, validations.WithParallelism(opts.Parallelism))
	if err != nil {
		return formatter.writeError(err)
	}

	if opts.Format == "text" {
		fmt.Fprintf(cmd.OutOrStdout(), "%d operation(s), %d fragment(s): no conflicts\n", program.OperationCount(), program.FragmentCount())
		return nil
	}
	return formatter.write(map[string]interface{}{"errors": []diagnosticOutput{}})
}
