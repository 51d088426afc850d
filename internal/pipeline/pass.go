package pipeline

import (
	"context"

	"github.com/vvakame/gqlir/internal/ir"
)

// Pass is one step of a pipeline. A pass returns the program it was given
// when it has nothing to change.
type Pass interface {
	Name() string
	Run(ctx context.Context, program *ir.Program) (*ir.Program, error)
}

type transformPass struct {
	name string
	fn   func(ctx context.Context, program *ir.Program) (*ir.Program, error)
}

// TransformPass wraps a function producing a new program.
func TransformPass(name string, fn func(ctx context.Context, program *ir.Program) (*ir.Program, error)) Pass {
	return &transformPass{name: name, fn: fn}
}

func (p *transformPass) Name() string {
	return p.name
}

func (p *transformPass) Run(ctx context.Context, program *ir.Program) (*ir.Program, error) {
	return p.fn(ctx, program)
}

type validationPass struct {
	name string
	fn   func(ctx context.Context, program *ir.Program) error
}

// ValidationPass wraps a function checking the program without changing it.
func ValidationPass(name string, fn func(ctx context.Context, program *ir.Program) error) Pass {
	return &validationPass{name: name, fn: fn}
}

func (p *validationPass) Name() string {
	return p.name
}

func (p *validationPass) Run(ctx context.Context, program *ir.Program) (*ir.Program, error) {
	if err := p.fn(ctx, program); err != nil {
		return nil, err
	}
	return program, nil
}
