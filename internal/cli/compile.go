package cli

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/vvakame/gqlir/internal/ir"
	"github.com/vvakame/gqlir/internal/pipeline"
)

type CompileOptions struct {
	*RootOptions
	Config      string
	Passes      []string
	Parallelism int
	Output      string
}

type compileResult struct {
	Operations []string `json:"operations" yaml:"operations"`
	Fragments  []string `json:"fragments" yaml:"fragments"`
	Document   string   `json:"document" yaml:"document"`
}

func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <document>...",
		Short: "Run the pass pipeline over documents and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "pipeline config YAML file")
	cmd.Flags().StringSliceVar(&opts.Passes, "passes", nil, "passes to run, overrides the config file")
	cmd.Flags().IntVarP(&opts.Parallelism, "parallelism", "j", 0, "operations and fragments processed concurrently")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the document to a file instead of stdout")

	return cmd
}

func (opts *CompileOptions) pipelineConfig() (*pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()
	if opts.Config != "" {
		var err error
		cfg, err = pipeline.LoadConfig(opts.Config)
		if err != nil {
			return nil, err
		}
	}
	if opts.Passes != nil {
		cfg.Passes = opts.Passes
	}
	if opts.Parallelism != 0 {
		cfg.Parallelism = opts.Parallelism
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runCompile(cmd *cobra.Command, opts *CompileOptions, documents []string) error {
	formatter := &outputFormatter{format: opts.Format, writer: cmd.OutOrStdout()}

	cfg, err := opts.pipelineConfig()
	if err != nil {
		return err
	}
	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	program, err := loadProgram(opts.RootOptions, documents)
	if err != nil {
		return formatter.writeError(err)
	}
	program, err = p.Run(cmd.Context(), program)
	if err != nil {
		return formatter.writeError(err)
	}

	document := ir.PrintProgram(program)
	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(document), 0644); err != nil {
			return err
		}
	}

	if opts.Format == "text" {
		if opts.Output == "" {
			_, err = cmd.OutOrStdout().Write([]byte(document))
		}
		return err
	}

	result := &compileResult{Document: document}
	for _, op := range program.Operations() {
		result.Operations = append(result.Operations, op.Name.Item.Lookup())
	}
	for _, fragment := range program.Fragments() {
		result.Fragments = append(result.Fragments, fragment.Name.Item.Lookup())
	}
	return formatter.write(result)
}
