// Package compiler builds GraphQL documents against a schema into the
// selection-tree IR, runs the configured passes and prints the result.
package compiler

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/gqlir/internal/diagnostics"
	"github.com/vvakame/gqlir/internal/ir"
	"github.com/vvakame/gqlir/internal/irbuild"
	"github.com/vvakame/gqlir/internal/log"
	"github.com/vvakame/gqlir/internal/pipeline"
	"github.com/vvakame/gqlir/internal/schema"
)

type Compiler struct {
	schema   *schema.SDLSchema
	pipeline *pipeline.Pipeline
	logger   *logr.Logger
}

type Result struct {
	// Document is the compiled program printed as GraphQL.
	Document string
	// Operations lists the names of the compiled operations.
	Operations []string
	// Fragments lists the names of the compiled fragments.
	Fragments []string
}

// New loads the schema from SDL sources and prepares the pass pipeline.
func New(schemaSources []*ast.Source, opts ...Option) (*Compiler, error) {
	cfg := &compilerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	pipelineConfig := pipeline.DefaultConfig()
	if cfg.configPath != "" {
		var err error
		pipelineConfig, err = pipeline.LoadConfig(cfg.configPath)
		if err != nil {
			return nil, err
		}
	}
	if cfg.passes != nil {
		pipelineConfig.Passes = cfg.passes
	}
	if cfg.parallelism != 0 {
		pipelineConfig.Parallelism = cfg.parallelism
	}
	if err := pipelineConfig.Validate(); err != nil {
		return nil, err
	}

	p, err := pipeline.New(pipelineConfig)
	if err != nil {
		return nil, err
	}

	s, err := schema.Load(schemaSources...)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}

	return &Compiler{
		schema:   s,
		pipeline: p,
		logger:   cfg.logger,
	}, nil
}

// Compile builds the documents into one program, so fragments may live in a
// different source than the operations spreading them. Problems in the
// documents are returned as a gqlerror.List.
func (c *Compiler) Compile(ctx context.Context, sources ...*ast.Source) (*Result, error) {
	if c.logger != nil {
		if _, err := logr.FromContext(ctx); err != nil {
			ctx = log.WithLogger(ctx, *c.logger)
		}
	}
	logger := log.FromContext(ctx)

	program, err := irbuild.BuildSources(c.schema, sources...)
	if err != nil {
		return nil, toGQLErrors(err)
	}
	logger.V(1).Info("program built", "operations", program.OperationCount(), "fragments", program.FragmentCount())

	program, err = c.pipeline.Run(ctx, program)
	if err != nil {
		return nil, toGQLErrors(err)
	}

	result := &Result{
		Document: ir.PrintProgram(program),
	}
	for _, op := range program.Operations() {
		result.Operations = append(result.Operations, op.Name.Item.Lookup())
	}
	for _, fragment := range program.Fragments() {
		result.Fragments = append(result.Fragments, fragment.Name.Item.Lookup())
	}

	return result, nil
}

func toGQLErrors(err error) error {
	ds, ok := diagnostics.FromError(err)
	if !ok {
		return err
	}
	return ds.ToGQLErrors()
}
