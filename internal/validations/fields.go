package validations

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/gqlir/internal/intern"
	"github.com/vvakame/gqlir/internal/ir"
	"github.com/vvakame/gqlir/internal/schema"
)

// field is a linked or scalar field reached in a merge scope.
type field struct {
	linked *ir.LinkedField
	scalar *ir.ScalarField
}

func (f field) selection() ir.Selection {
	if f.linked != nil {
		return f.linked
	}
	return f.scalar
}

func (f field) definition() schema.FieldID {
	if f.linked != nil {
		return f.linked.Definition.Item
	}
	return f.scalar.Definition.Item
}

func (f field) arguments() []*ir.Argument {
	if f.linked != nil {
		return f.linked.Arguments
	}
	return f.scalar.Arguments
}

func (f field) location() ir.Location {
	return f.selection().GetLocation()
}

func (f field) responseKey(s schema.Schema) intern.StringKey {
	if f.linked != nil {
		return f.linked.AliasOrName(s)
	}
	return f.scalar.AliasOrName(s)
}

func (f field) isStreamed() bool {
	return ir.NamedDirective(ir.Directives(f.selection()), intern.Stream) != nil
}

func (f field) fieldType(s schema.Schema) *ast.Type {
	return s.Field(f.definition()).Type
}

func (f field) parentType(s schema.Schema) schema.Type {
	return s.Field(f.definition()).ParentType
}

// fields is the set of fields merged into one response object, grouped by
// response key. Keys keep the order in which they were first seen.
type fields struct {
	names  []intern.StringKey
	byName map[intern.StringKey][]field
}

func newFields() *fields {
	return &fields{byName: make(map[intern.StringKey][]field)}
}

func (fs *fields) get(name intern.StringKey) []field {
	return fs.byName[name]
}

func (fs *fields) add(name intern.StringKey, f field) {
	if _, ok := fs.byName[name]; !ok {
		fs.names = append(fs.names, name)
	}
	fs.byName[name] = append(fs.byName[name], f)
}
