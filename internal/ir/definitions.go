package ir

import (
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/gqlir/internal/intern"
	"github.com/vvakame/gqlir/internal/schema"
)

type VariableDefinition struct {
	Name         WithLocation[intern.StringKey]
	Type         *ast.Type
	DefaultValue Value
	Directives   []*Directive
}

type OperationDefinition struct {
	Kind                schema.OperationKind
	Name                WithLocation[intern.StringKey]
	RootType            schema.Type
	VariableDefinitions []*VariableDefinition
	Directives          []*Directive
	Selections          []Selection
}

func (op *OperationDefinition) WithSelections(selections []Selection) *OperationDefinition {
	copied := *op
	copied.Selections = selections
	return &copied
}

type FragmentDefinition struct {
	Name                WithLocation[intern.StringKey]
	VariableDefinitions []*VariableDefinition
	// UsedGlobalVariables lists operation variables referenced by the body
	// which the fragment does not declare itself.
	UsedGlobalVariables []*VariableDefinition
	TypeCondition       schema.Type
	Directives          []*Directive
	Selections          []Selection
}

func (f *FragmentDefinition) WithSelections(selections []Selection) *FragmentDefinition {
	copied := *f
	copied.Selections = selections
	return &copied
}
