package cli

import (
	"github.com/spf13/cobra"
	"github.com/vvakame/gqlir/internal/ir"
)

func NewPrintCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "print <document>...",
		Short: "Print documents as built, without running any pass",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &outputFormatter{format: rootOpts.Format, writer: cmd.OutOrStdout()}

			program, err := loadProgram(rootOpts, args)
			if err != nil {
				return formatter.writeError(err)
			}
			ir.NewPrinter(cmd.OutOrStdout(), program.Schema).PrintProgram(program)
			return nil
		},
	}

	return cmd
}
