package transforms

import (
	"context"
	"sync"

	"github.com/vvakame/gqlir/internal/diagnostics"
	"github.com/vvakame/gqlir/internal/ir"
	"github.com/vvakame/gqlir/internal/log"
	"github.com/vvakame/gqlir/internal/schema"
	"go.uber.org/atomic"
)

// SkipRedundantNodes removes selections that are already fetched by an
// earlier selection at the same scope or by an enclosing scope, e.g.
//
//	{ id ... on User @include(if: $c) { id name } }
//
// becomes
//
//	{ id ... on User @include(if: $c) { name } }
//
// Fields are processed before inline fragments and conditions, so the
// unconditional field wins regardless of source order. Conditions and inline
// fragments see a fork of the enclosing scope; what they fetch does not
// leak into their siblings.
func SkipRedundantNodes(ctx context.Context, program *ir.Program, opts ...Option) (*ir.Program, error) {
	o := newOptions(opts)
	p := &skipRedundantNodes{
		schema: program.Schema,
		shared: countSharedNodes(program),
	}

	transformer := ir.NewTransformer(p, ir.TransformerOptions{Parallelism: o.parallelism})
	next, err := transformer.TransformProgram(ctx, program)
	if err != nil {
		return nil, err
	}

	hits, misses := p.cacheHits.Load(), p.cacheMisses.Load()
	if o.stats != nil {
		o.stats.CacheHits = hits
		o.stats.CacheMisses = misses
	}
	log.FromContext(ctx).V(1).Info("skip redundant nodes", "changed", next != program, "cacheHits", hits, "cacheMisses", misses)

	return next, nil
}

type skipRedundantNodes struct {
	schema schema.Schema
	// shared holds composite nodes referenced by more than one parent.
	shared map[ir.Selection]struct{}
	// cache maps a shared node to its result in an empty scope.
	cache sync.Map

	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
}

type cachedResult struct {
	result       ir.Transformed[ir.Selection]
	selectionMap *SelectionMap
}

var _ ir.OperationTransformer = (*skipRedundantNodes)(nil)
var _ ir.FragmentTransformer = (*skipRedundantNodes)(nil)

// countSharedNodes finds linked fields and inline fragments reachable from
// more than one parent. Only those can be met again in the same run.
func countSharedNodes(program *ir.Program) map[ir.Selection]struct{} {
	counts := make(map[ir.Selection]int)
	shared := make(map[ir.Selection]struct{})
	ir.VisitProgram(program, func(sel ir.Selection) bool {
		switch sel.(type) {
		case *ir.LinkedField, *ir.InlineFragment:
			counts[sel]++
			if counts[sel] > 1 {
				shared[sel] = struct{}{}
				return false
			}
		}
		return true
	})
	return shared
}

func (p *skipRedundantNodes) TransformOperation(_ *ir.Transformer, op *ir.OperationDefinition) ir.Transformed[*ir.OperationDefinition] {
	selections := p.transformSelections(op.Selections, NewSelectionMap())
	switch {
	case selections.IsKeep():
		return ir.Keep[*ir.OperationDefinition]()
	case len(selections.Value()) == 0:
		return ir.Delete[*ir.OperationDefinition]()
	default:
		return ir.Replace(op.WithSelections(selections.Value()))
	}
}

func (p *skipRedundantNodes) TransformFragment(_ *ir.Transformer, fragment *ir.FragmentDefinition) ir.Transformed[*ir.FragmentDefinition] {
	selections := p.transformSelections(fragment.Selections, NewSelectionMap())
	switch {
	case selections.IsKeep():
		return ir.Keep[*ir.FragmentDefinition]()
	case len(selections.Value()) == 0:
		return ir.Delete[*ir.FragmentDefinition]()
	default:
		return ir.Replace(fragment.WithSelections(selections.Value()))
	}
}

// transformSelections visits fields first and the other selections after
// them. Surviving selections keep their source order.
func (p *skipRedundantNodes) transformSelections(selections []ir.Selection, m *SelectionMap) ir.Transformed[[]ir.Selection] {
	order := partitionSelections(selections)
	results := make([]ir.Transformed[ir.Selection], len(selections))
	changed := false
	for _, i := range order {
		results[i] = p.transformSelection(selections[i], m)
		if !results[i].IsKeep() {
			changed = true
		}
	}
	if !changed {
		return ir.Keep[[]ir.Selection]()
	}

	i := 0
	return ir.TransformList(selections, func(ir.Selection) ir.Transformed[ir.Selection] {
		result := results[i]
		i++
		return result
	})
}

// partitionSelections returns the indexes of selections with fields first,
// each group in source order.
func partitionSelections(selections []ir.Selection) []int {
	order := make([]int, 0, len(selections))
	for i, sel := range selections {
		if isField(sel) {
			order = append(order, i)
		}
	}
	for i, sel := range selections {
		if !isField(sel) {
			order = append(order, i)
		}
	}
	return order
}

func isField(sel ir.Selection) bool {
	switch sel.(type) {
	case *ir.ScalarField, *ir.LinkedField:
		return true
	default:
		return false
	}
}

func (p *skipRedundantNodes) transformSelection(sel ir.Selection, m *SelectionMap) ir.Transformed[ir.Selection] {
	id := ir.NewNodeIdentifier(p.schema, sel)
	switch sel := sel.(type) {
	case *ir.ScalarField, *ir.FragmentSpread:
		if m.Contains(id) {
			return ir.Delete[ir.Selection]()
		}
		m.Insert(id, nil)
		return ir.Keep[ir.Selection]()

	case *ir.LinkedField:
		if nested, ok := m.GetMut(id); ok && nested != nil {
			return p.transformComposite(sel, nested)
		}
		nested := NewSelectionMap()
		result := p.transformComposite(sel, nested)
		if result.IsDelete() {
			nested.release()
		} else {
			m.Insert(id, nested)
		}
		return result

	case *ir.InlineFragment, *ir.Condition:
		if nested, ok := m.GetMut(id); ok && nested != nil {
			return p.transformComposite(sel, nested)
		}
		forked := m.Fork()
		result := p.transformComposite(sel, forked)
		if result.IsDelete() {
			forked.release()
		} else {
			m.Insert(id, forked)
		}
		return result

	default:
		diagnostics.InvariantViolation("unexpected selection type %T", sel)
		return ir.Keep[ir.Selection]()
	}
}

// transformComposite transforms the children of sel within m. Results for
// shared nodes in an empty scope do not depend on anything but the node and
// are memoized.
func (p *skipRedundantNodes) transformComposite(sel ir.Selection, m *SelectionMap) ir.Transformed[ir.Selection] {
	_, shared := p.shared[sel]
	if !shared || !m.IsEmpty() {
		return p.transformChildren(sel, m)
	}

	if cached, ok := p.cache.Load(sel); ok {
		p.cacheHits.Inc()
		c := cached.(*cachedResult)
		m.adopt(c.selectionMap)
		return c.result
	}

	p.cacheMisses.Inc()
	result := p.transformChildren(sel, m)
	stored := m.Fork()
	if _, loaded := p.cache.LoadOrStore(sel, &cachedResult{
		result:       result,
		selectionMap: stored,
	}); loaded {
		stored.release()
	}
	return result
}

func (p *skipRedundantNodes) transformChildren(sel ir.Selection, m *SelectionMap) ir.Transformed[ir.Selection] {
	selections := p.transformSelections(ir.ChildSelections(sel), m)
	if selections.IsKeep() {
		return ir.Keep[ir.Selection]()
	}
	if len(selections.Value()) == 0 {
		return ir.Delete[ir.Selection]()
	}

	switch sel := sel.(type) {
	case *ir.LinkedField:
		return ir.Replace[ir.Selection](sel.WithSelections(selections.Value()))
	case *ir.InlineFragment:
		return ir.Replace[ir.Selection](sel.WithSelections(selections.Value()))
	case *ir.Condition:
		return ir.Replace[ir.Selection](sel.WithSelections(selections.Value()))
	default:
		diagnostics.InvariantViolation("selection %T has no children", sel)
		return ir.Keep[ir.Selection]()
	}
}
