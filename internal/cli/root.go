package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vvakame/gqlir/internal/log"
)

type RootOptions struct {
	Schemas   []string
	Format    string
	Verbosity int
}

var validFormats = []string{"text", "json", "yaml"}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "gqlir",
		Short: "Compile GraphQL documents through the selection-tree IR",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, validFormats)
			}
			logger := log.NewStdLogger(cmd.ErrOrStderr(), opts.Verbosity)
			cmd.SetContext(log.WithLogger(cmd.Context(), logger))
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringSliceVarP(&opts.Schemas, "schema", "s", nil, "schema SDL files")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().CountVarP(&opts.Verbosity, "verbose", "v", "log verbosity, repeat for more")

	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewPrintCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range validFormats {
		if f == format {
			return true
		}
	}
	return false
}
