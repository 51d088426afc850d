package pipeline

import (
	"context"
	"fmt"
	"sort"

	"github.com/vvakame/gqlir/internal/ir"
	"github.com/vvakame/gqlir/internal/transforms"
	"github.com/vvakame/gqlir/internal/validations"
)

const (
	SkipUnreachableNode       = "skip_unreachable_node"
	ValidateSelectionConflict = "validate_selection_conflict"
	SkipRedundantNodes        = "skip_redundant_nodes"
)

type passFactory func(cfg *Config) Pass

var registry = map[string]passFactory{
	SkipUnreachableNode: func(cfg *Config) Pass {
		return TransformPass(SkipUnreachableNode, func(ctx context.Context, program *ir.Program) (*ir.Program, error) {
			return transforms.SkipUnreachableNode(ctx, program)
		})
	},
	ValidateSelectionConflict: func(cfg *Config) Pass {
		return ValidationPass(ValidateSelectionConflict, func(ctx context.Context, program *ir.Program) error {
			return validations.ValidateSelectionConflict(ctx, program, validations.WithParallelism(cfg.Parallelism))
		})
	},
	SkipRedundantNodes: func(cfg *Config) Pass {
		return TransformPass(SkipRedundantNodes, func(ctx context.Context, program *ir.Program) (*ir.Program, error) {
			return transforms.SkipRedundantNodes(ctx, program, transforms.WithParallelism(cfg.Parallelism))
		})
	},
}

// PassNames returns the names of every built-in pass in lexical order.
func PassNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupPass(name string, cfg *Config) (Pass, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown pass %q, available passes are %v", name, PassNames())
	}
	return factory(cfg), nil
}
