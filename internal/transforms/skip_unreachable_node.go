package transforms

import (
	"context"

	"github.com/vvakame/gqlir/internal/intern"
	"github.com/vvakame/gqlir/internal/ir"
	"github.com/vvakame/gqlir/internal/log"
)

// SkipUnreachableNode resolves conditions with a constant test. A passing
// condition is replaced by its selections, a failing one is removed along
// with everything left empty by the removal: fields, inline fragments,
// fragments and the spreads of those fragments.
//
// Fragments are resolved on demand from their spreads, so roots are
// processed one by one whatever the parallelism option says.
func SkipUnreachableNode(ctx context.Context, program *ir.Program, _ ...Option) (*ir.Program, error) {
	p := &skipUnreachableNode{
		program:    program,
		results:    make(map[intern.StringKey]ir.Transformed[*ir.FragmentDefinition]),
		inProgress: make(map[intern.StringKey]struct{}),
	}
	transformer := ir.NewTransformer(p, ir.TransformerOptions{})
	next, err := transformer.TransformProgram(ctx, program)
	if err != nil {
		return nil, err
	}

	log.FromContext(ctx).V(1).Info("skip unreachable node", "changed", next != program)

	return next, nil
}

type skipUnreachableNode struct {
	program *ir.Program

	results    map[intern.StringKey]ir.Transformed[*ir.FragmentDefinition]
	inProgress map[intern.StringKey]struct{}
}

var _ ir.FragmentTransformer = (*skipUnreachableNode)(nil)
var _ ir.SelectionsTransformer = (*skipUnreachableNode)(nil)
var _ ir.FragmentSpreadTransformer = (*skipUnreachableNode)(nil)

func (p *skipUnreachableNode) TransformFragment(t *ir.Transformer, fragment *ir.FragmentDefinition) ir.Transformed[*ir.FragmentDefinition] {
	return p.fragmentResult(t, fragment.Name.Item)
}

func (p *skipUnreachableNode) fragmentResult(t *ir.Transformer, name intern.StringKey) ir.Transformed[*ir.FragmentDefinition] {
	if result, ok := p.results[name]; ok {
		return result
	}
	fragment := p.program.Fragment(name)
	if fragment == nil {
		return ir.Keep[*ir.FragmentDefinition]()
	}
	// a spread cycle back to a fragment being resolved keeps the spread
	if _, ok := p.inProgress[name]; ok {
		return ir.Keep[*ir.FragmentDefinition]()
	}

	p.inProgress[name] = struct{}{}
	result := t.DefaultTransformFragment(fragment)
	delete(p.inProgress, name)
	p.results[name] = result

	return result
}

func (p *skipUnreachableNode) TransformFragmentSpread(t *ir.Transformer, spread *ir.FragmentSpread) ir.Transformed[ir.Selection] {
	if p.fragmentResult(t, spread.FragmentName.Item).IsDelete() {
		return ir.Delete[ir.Selection]()
	}
	return t.DefaultTransformFragmentSpread(spread)
}

// TransformSelections splices the selections of passing constant conditions
// into the enclosing list.
func (p *skipUnreachableNode) TransformSelections(t *ir.Transformer, selections []ir.Selection) ir.Transformed[[]ir.Selection] {
	var result []ir.Selection
	changed := false
	for i, sel := range selections {
		var replacement []ir.Selection
		if condition, ok := sel.(*ir.Condition); ok && condition.Value.IsConstant() {
			if condition.Value.Constant == condition.PassingValue {
				replacement = t.TransformSelections(condition.Selections).Or(condition.Selections)
			}
		} else {
			transformed := t.TransformSelection(sel)
			if transformed.IsKeep() {
				if changed {
					result = append(result, sel)
				}
				continue
			}
			if transformed.IsReplace() {
				replacement = []ir.Selection{transformed.Value()}
			}
		}

		if !changed {
			changed = true
			result = make([]ir.Selection, 0, len(selections))
			result = append(result, selections[:i]...)
		}
		result = append(result, replacement...)
	}
	if !changed {
		return ir.Keep[[]ir.Selection]()
	}
	return ir.Replace(result)
}
