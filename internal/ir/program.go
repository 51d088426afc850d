package ir

import (
	"sort"

	"github.com/vvakame/gqlir/internal/intern"
	"github.com/vvakame/gqlir/internal/schema"
)

// Program is a set of operations and fragments over one schema.
// Passes never mutate a Program they are given; they build a new one.
type Program struct {
	Schema schema.Schema

	operations map[intern.StringKey]*OperationDefinition
	fragments  map[intern.StringKey]*FragmentDefinition
}

func NewProgram(s schema.Schema) *Program {
	return &Program{
		Schema:     s,
		operations: make(map[intern.StringKey]*OperationDefinition),
		fragments:  make(map[intern.StringKey]*FragmentDefinition),
	}
}

// InsertOperation adds op, replacing any operation of the same name.
func (p *Program) InsertOperation(op *OperationDefinition) {
	p.operations[op.Name.Item] = op
}

// InsertFragment adds f, replacing any fragment of the same name.
func (p *Program) InsertFragment(f *FragmentDefinition) {
	p.fragments[f.Name.Item] = f
}

func (p *Program) Operation(name intern.StringKey) *OperationDefinition {
	return p.operations[name]
}

func (p *Program) Fragment(name intern.StringKey) *FragmentDefinition {
	return p.fragments[name]
}

// Operations returns every operation ordered by name.
func (p *Program) Operations() []*OperationDefinition {
	ops := make([]*OperationDefinition, 0, len(p.operations))
	for _, op := range p.operations {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool {
		return ops[i].Name.Item.Less(ops[j].Name.Item)
	})
	return ops
}

// Fragments returns every fragment ordered by name.
func (p *Program) Fragments() []*FragmentDefinition {
	fragments := make([]*FragmentDefinition, 0, len(p.fragments))
	for _, f := range p.fragments {
		fragments = append(fragments, f)
	}
	sort.Slice(fragments, func(i, j int) bool {
		return fragments[i].Name.Item.Less(fragments[j].Name.Item)
	})
	return fragments
}

func (p *Program) OperationCount() int {
	return len(p.operations)
}

func (p *Program) FragmentCount() int {
	return len(p.fragments)
}
