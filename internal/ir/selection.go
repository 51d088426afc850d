package ir

import (
	"fmt"

	"github.com/vvakame/gqlir/internal/intern"
	"github.com/vvakame/gqlir/internal/schema"
)

// Selection is one of *ScalarField, *LinkedField, *InlineFragment,
// *FragmentSpread or *Condition.
type Selection interface {
	isSelection()
	GetLocation() Location
}

var _ Selection = (*ScalarField)(nil)
var _ Selection = (*LinkedField)(nil)
var _ Selection = (*InlineFragment)(nil)
var _ Selection = (*FragmentSpread)(nil)
var _ Selection = (*Condition)(nil)

// ScalarField is a field of leaf type.
type ScalarField struct {
	Alias      *WithLocation[intern.StringKey]
	Definition WithLocation[schema.FieldID]
	Arguments  []*Argument
	Directives []*Directive
}

func (*ScalarField) isSelection() {}

func (f *ScalarField) GetLocation() Location {
	if f.Alias != nil {
		return f.Alias.Location
	}
	return f.Definition.Location
}

// AliasOrName returns the response key of the field.
func (f *ScalarField) AliasOrName(s schema.Schema) intern.StringKey {
	return responseKey(f.Alias, f.Definition.Item, s)
}

// LinkedField is a field of composite type. Selections is never empty.
type LinkedField struct {
	Alias      *WithLocation[intern.StringKey]
	Definition WithLocation[schema.FieldID]
	Arguments  []*Argument
	Directives []*Directive
	Selections []Selection
}

func (*LinkedField) isSelection() {}

func (f *LinkedField) GetLocation() Location {
	if f.Alias != nil {
		return f.Alias.Location
	}
	return f.Definition.Location
}

func (f *LinkedField) AliasOrName(s schema.Schema) intern.StringKey {
	return responseKey(f.Alias, f.Definition.Item, s)
}

// WithSelections returns a copy of f which holds selections.
func (f *LinkedField) WithSelections(selections []Selection) *LinkedField {
	copied := *f
	copied.Selections = selections
	return &copied
}

func responseKey(alias *WithLocation[intern.StringKey], id schema.FieldID, s schema.Schema) intern.StringKey {
	if alias != nil {
		return alias.Item
	}
	return intern.Intern(s.Field(id).Name)
}

// InlineFragment narrows the parent type when TypeCondition is set.
type InlineFragment struct {
	TypeCondition  *schema.Type
	Directives     []*Directive
	Selections     []Selection
	SpreadLocation Location
}

func (*InlineFragment) isSelection() {}

func (f *InlineFragment) GetLocation() Location {
	return f.SpreadLocation
}

func (f *InlineFragment) WithSelections(selections []Selection) *InlineFragment {
	copied := *f
	copied.Selections = selections
	return &copied
}

// FragmentSpread references a FragmentDefinition by name.
type FragmentSpread struct {
	FragmentName WithLocation[intern.StringKey]
	Arguments    []*Argument
	Directives   []*Directive
}

func (*FragmentSpread) isSelection() {}

func (s *FragmentSpread) GetLocation() Location {
	return s.FragmentName.Location
}

// Condition includes Selections only when Value evaluates to PassingValue.
// It has no directives of its own.
type Condition struct {
	Selections   []Selection
	Value        ConditionValue
	PassingValue bool
	Location     Location
}

func (*Condition) isSelection() {}

func (c *Condition) GetLocation() Location {
	return c.Location
}

func (c *Condition) WithSelections(selections []Selection) *Condition {
	copied := *c
	copied.Selections = selections
	return &copied
}

// DirectiveName returns the directive this condition was built from.
func (c *Condition) DirectiveName() intern.StringKey {
	if c.PassingValue {
		return intern.Include
	}
	return intern.Skip
}

// Directives returns the directives of sel. Conditions carry no directives
// and calling this on one is a programming error.
func Directives(sel Selection) []*Directive {
	switch sel := sel.(type) {
	case *ScalarField:
		return sel.Directives
	case *LinkedField:
		return sel.Directives
	case *InlineFragment:
		return sel.Directives
	case *FragmentSpread:
		return sel.Directives
	case *Condition:
		panic("ir: Directives called on a Condition")
	default:
		panic(fmt.Sprintf("ir: unexpected selection type %T", sel))
	}
}

// ChildSelections returns the nested selections of sel, or nil for leaves
// and spreads.
func ChildSelections(sel Selection) []Selection {
	switch sel := sel.(type) {
	case *LinkedField:
		return sel.Selections
	case *InlineFragment:
		return sel.Selections
	case *Condition:
		return sel.Selections
	default:
		return nil
	}
}
