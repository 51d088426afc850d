package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/vvakame/gqlir/internal/ir"
	"github.com/vvakame/gqlir/internal/log"
)

// Pipeline runs passes in order, feeding each the output of the previous.
type Pipeline struct {
	passes []Pass
}

// New builds the pipeline described by cfg.
func New(cfg *Config) (*Pipeline, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	passes := make([]Pass, 0, len(cfg.Passes))
	for _, name := range cfg.Passes {
		pass, err := lookupPass(name, cfg)
		if err != nil {
			return nil, err
		}
		passes = append(passes, pass)
	}
	return &Pipeline{passes: passes}, nil
}

// NewWithPasses builds a pipeline from passes.
func NewWithPasses(passes ...Pass) *Pipeline {
	return &Pipeline{passes: passes}
}

func (p *Pipeline) Passes() []Pass {
	return p.passes
}

// Run stops at the first failing pass and returns its error as is, so
// diagnostics.Diagnostics survive for the caller.
func (p *Pipeline) Run(ctx context.Context, program *ir.Program) (*ir.Program, error) {
	logger := log.FromContext(ctx)

	for _, pass := range p.passes {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("pipeline canceled before %s: %w", pass.Name(), err)
		}

		start := time.Now()
		next, err := pass.Run(ctx, program)
		if err != nil {
			logger.Info("pass failed", "pass", pass.Name(), "duration", time.Since(start))
			return nil, err
		}
		logger.V(1).Info("pass finished", "pass", pass.Name(), "duration", time.Since(start), "changed", next != program)
		program = next
	}

	return program, nil
}
