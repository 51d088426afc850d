// Package irbuild lowers parsed GraphQL documents into IR.
package irbuild

import (
	"github.com/hashicorp/go-multierror"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vvakame/gqlir/internal/diagnostics"
	"github.com/vvakame/gqlir/internal/intern"
	"github.com/vvakame/gqlir/internal/ir"
	"github.com/vvakame/gqlir/internal/schema"
)

const (
	CodeUnknownType            = "UNKNOWN_TYPE"
	CodeUnknownField           = "UNKNOWN_FIELD"
	CodeUnknownFragment        = "UNKNOWN_FRAGMENT"
	CodeMissingRootType        = "MISSING_ROOT_TYPE"
	CodeMissingSelectionSet    = "MISSING_SELECTION_SET"
	CodeUnexpectedSelectionSet = "UNEXPECTED_SELECTION_SET"
	CodeDuplicateOperation     = "DUPLICATE_OPERATION"
	CodeDuplicateFragment      = "DUPLICATE_FRAGMENT"
	CodeInvalidCondition       = "INVALID_CONDITION"
	CodeInvalidArgumentDef     = "INVALID_ARGUMENT_DEFINITION"
)

// BuildSources parses every source and builds one Program from all of them,
// so fragments may be spread across files. Parse errors of all sources are
// reported together.
func BuildSources(s schema.Schema, sources ...*ast.Source) (*ir.Program, error) {
	var result *multierror.Error
	merged := &ast.QueryDocument{}
	for _, source := range sources {
		doc, err := parser.ParseQuery(source)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		merged.Operations = append(merged.Operations, doc.Operations...)
		merged.Fragments = append(merged.Fragments, doc.Fragments...)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	return Build(s, merged)
}

// Build lowers doc into a Program. Every problem found is reported through
// the returned diagnostics.Diagnostics.
func Build(s schema.Schema, doc *ast.QueryDocument) (*ir.Program, error) {
	b := &builder{
		schema:    s,
		fragments: make(map[string]*ast.FragmentDefinition, len(doc.Fragments)),
	}

	for _, fragment := range doc.Fragments {
		if prev, ok := b.fragments[fragment.Name]; ok {
			b.errorf(CodeDuplicateFragment, fragment.Position, "There can be only one fragment named %q.", fragment.Name).
				Annotate("previous definition", ir.LocationFromPosition(prev.Position))
			continue
		}
		b.fragments[fragment.Name] = fragment
	}

	program := ir.NewProgram(s)
	seenOperations := make(map[string]*ast.OperationDefinition, len(doc.Operations))
	for _, op := range doc.Operations {
		if prev, ok := seenOperations[op.Name]; ok {
			b.errorf(CodeDuplicateOperation, op.Position, "There can be only one operation named %q.", op.Name).
				Annotate("previous definition", ir.LocationFromPosition(prev.Position))
			continue
		}
		seenOperations[op.Name] = op
		if built := b.buildOperation(op); built != nil {
			program.InsertOperation(built)
		}
	}
	for _, fragment := range doc.Fragments {
		if b.fragments[fragment.Name] != fragment {
			continue
		}
		if built := b.buildFragment(fragment); built != nil {
			program.InsertFragment(built)
		}
	}

	if len(b.errs) != 0 {
		errs := b.errs.Dedupe()
		errs.Sort()
		return nil, errs
	}
	return program, nil
}

type builder struct {
	schema    schema.Schema
	fragments map[string]*ast.FragmentDefinition
	errs      diagnostics.Diagnostics
}

// scope holds the variables visible while building one definition.
type scope struct {
	variables map[string]*ast.Type
}

func (b *builder) errorf(code string, pos *ast.Position, format string, args ...interface{}) *diagnostics.Diagnostic {
	d := diagnostics.Errorf(code, ir.LocationFromPosition(pos), format, args...)
	b.errs = append(b.errs, d)
	return d
}

func (b *builder) buildOperation(op *ast.OperationDefinition) *ir.OperationDefinition {
	kind := schema.OperationKind(op.Operation)
	rootType, ok := b.schema.RootType(kind)
	if !ok {
		b.errorf(CodeMissingRootType, op.Position, "Schema does not define a %s root type.", kind)
		return nil
	}

	sc := &scope{variables: make(map[string]*ast.Type, len(op.VariableDefinitions))}
	variables := make([]*ir.VariableDefinition, 0, len(op.VariableDefinitions))
	for _, variable := range op.VariableDefinitions {
		sc.variables[variable.Variable] = variable.Type
		variables = append(variables, &ir.VariableDefinition{
			Name:         ir.At(intern.Intern(variable.Variable), ir.LocationFromPosition(variable.Position)),
			Type:         variable.Type,
			DefaultValue: b.buildValue(sc, variable.DefaultValue, variable.Type),
			Directives:   b.buildDirectives(sc, variable.Directives),
		})
	}

	return &ir.OperationDefinition{
		Kind:                kind,
		Name:                ir.At(intern.Intern(op.Name), ir.LocationFromPosition(op.Position)),
		RootType:            rootType,
		VariableDefinitions: variables,
		Directives:          b.buildDirectives(sc, op.Directives),
		Selections:          b.buildSelections(sc, rootType, op.SelectionSet),
	}
}

func (b *builder) buildFragment(fragment *ast.FragmentDefinition) *ir.FragmentDefinition {
	typeCondition, ok := b.schema.GetType(fragment.TypeCondition)
	if !ok || !typeCondition.IsComposite() {
		b.errorf(CodeUnknownType, fragment.Position, "Unknown composite type %q.", fragment.TypeCondition)
		return nil
	}

	sc := &scope{variables: make(map[string]*ast.Type)}
	var variables []*ir.VariableDefinition
	var directives ast.DirectiveList
	for _, directive := range fragment.Directives {
		if directive.Name != intern.ArgumentDefinitions.Lookup() {
			directives = append(directives, directive)
			continue
		}
		for _, arg := range directive.Arguments {
			variable := b.buildArgumentDefinition(arg)
			if variable == nil {
				continue
			}
			sc.variables[arg.Name] = variable.Type
			variables = append(variables, variable)
		}
	}

	selections := b.buildSelections(sc, typeCondition, fragment.SelectionSet)

	var globals []*ir.VariableDefinition
	seen := make(map[intern.StringKey]struct{})
	ir.VisitVariables(selections, func(variable *ir.Variable, loc ir.Location) {
		if _, ok := sc.variables[variable.Name.Lookup()]; ok {
			return
		}
		if _, ok := seen[variable.Name]; ok {
			return
		}
		seen[variable.Name] = struct{}{}
		globals = append(globals, &ir.VariableDefinition{
			Name: ir.At(variable.Name, loc),
			Type: variable.Type,
		})
	})

	return &ir.FragmentDefinition{
		Name:                ir.At(intern.Intern(fragment.Name), ir.LocationFromPosition(fragment.Position)),
		VariableDefinitions: variables,
		UsedGlobalVariables: globals,
		TypeCondition:       typeCondition,
		Directives:          b.buildDirectives(sc, directives),
		Selections:          selections,
	}
}

// buildArgumentDefinition reads one entry of @argumentDefinitions, e.g.
// `count: {type: "Int!", defaultValue: 10}`.
func (b *builder) buildArgumentDefinition(arg *ast.Argument) *ir.VariableDefinition {
	if arg.Value == nil || arg.Value.Kind != ast.ObjectValue {
		b.errorf(CodeInvalidArgumentDef, arg.Position, "Expected an object value for argument definition %q.", arg.Name)
		return nil
	}
	typeValue := arg.Value.Children.ForName("type")
	if typeValue == nil || typeValue.Kind != ast.StringValue {
		b.errorf(CodeInvalidArgumentDef, arg.Position, "Expected a string \"type\" for argument definition %q.", arg.Name)
		return nil
	}
	typ, err := parseTypeReference(typeValue.Raw)
	if err != nil {
		b.errorf(CodeInvalidArgumentDef, typeValue.Position, "Invalid type for argument definition %q: %s", arg.Name, err.Error())
		return nil
	}

	return &ir.VariableDefinition{
		Name:         ir.At(intern.Intern(arg.Name), ir.LocationFromPosition(arg.Position)),
		Type:         typ,
		DefaultValue: b.buildValue(&scope{}, arg.Value.Children.ForName("defaultValue"), typ),
	}
}

func (b *builder) buildSelections(sc *scope, parentType schema.Type, set ast.SelectionSet) []ir.Selection {
	selections := make([]ir.Selection, 0, len(set))
	for _, sel := range set {
		if built := b.buildSelection(sc, parentType, sel); built != nil {
			selections = append(selections, built)
		}
	}
	return selections
}

func (b *builder) buildSelection(sc *scope, parentType schema.Type, sel ast.Selection) ir.Selection {
	switch sel := sel.(type) {
	case *ast.Field:
		directives, conditions := b.splitConditions(sc, sel.Directives)
		built := b.buildField(sc, parentType, sel, directives)
		if built == nil {
			return nil
		}
		return wrapConditions(built, conditions)

	case *ast.InlineFragment:
		directives, conditions := b.splitConditions(sc, sel.Directives)
		fragment := &ir.InlineFragment{
			Directives:     directives,
			SpreadLocation: ir.LocationFromPosition(sel.Position),
		}
		innerType := parentType
		if sel.TypeCondition != "" {
			typeCondition, ok := b.schema.GetType(sel.TypeCondition)
			if !ok || !typeCondition.IsComposite() {
				b.errorf(CodeUnknownType, sel.Position, "Unknown composite type %q.", sel.TypeCondition)
				return nil
			}
			fragment.TypeCondition = &typeCondition
			innerType = typeCondition
		}
		fragment.Selections = b.buildSelections(sc, innerType, sel.SelectionSet)
		if len(fragment.Selections) == 0 {
			return nil
		}
		if fragment.TypeCondition == nil && len(directives) == 0 && len(conditions) != 0 {
			// `... @include(if: $c) { ... }` only guards its selections
			return wrapSelections(fragment.Selections, conditions)
		}
		return wrapConditions(fragment, conditions)

	case *ast.FragmentSpread:
		if _, ok := b.fragments[sel.Name]; !ok {
			b.errorf(CodeUnknownFragment, sel.Position, "Unknown fragment %q.", sel.Name)
			return nil
		}
		directives, conditions := b.splitConditions(sc, sel.Directives)
		spread := &ir.FragmentSpread{
			FragmentName: ir.At(intern.Intern(sel.Name), ir.LocationFromPosition(sel.Position)),
		}
		for _, directive := range directives {
			if directive.Name.Item == intern.Arguments {
				spread.Arguments = append(spread.Arguments, directive.Arguments...)
				continue
			}
			spread.Directives = append(spread.Directives, directive)
		}
		return wrapConditions(spread, conditions)

	default:
		diagnostics.InvariantViolation("unexpected selection type %T", sel)
		return nil
	}
}

func (b *builder) buildField(sc *scope, parentType schema.Type, field *ast.Field, directives []*ir.Directive) ir.Selection {
	id, ok := b.schema.NamedField(parentType, field.Name)
	if !ok {
		b.errorf(CodeUnknownField, field.Position, "Cannot query field %q on type %q.", field.Name, b.schema.GetTypeName(parentType))
		return nil
	}
	def := b.schema.Field(id)
	loc := ir.LocationFromPosition(field.Position)

	var alias *ir.WithLocation[intern.StringKey]
	if field.Alias != "" && field.Alias != field.Name {
		a := ir.At(intern.Intern(field.Alias), loc)
		alias = &a
	}
	arguments := make([]*ir.Argument, 0, len(field.Arguments))
	for _, arg := range field.Arguments {
		var expected *ast.Type
		if argDef := def.Arguments.ForName(arg.Name); argDef != nil {
			expected = argDef.Type
		}
		arguments = append(arguments, &ir.Argument{
			Name:  ir.At(intern.Intern(arg.Name), ir.LocationFromPosition(arg.Position)),
			Value: b.buildValue(sc, arg.Value, expected),
		})
	}

	fieldType, ok := b.schema.GetType(def.Type.Name())
	if ok && fieldType.IsComposite() {
		if len(field.SelectionSet) == 0 {
			b.errorf(CodeMissingSelectionSet, field.Position, "Field %q of type %q must have a selection of subfields.", field.Name, def.Type.String())
			return nil
		}
		selections := b.buildSelections(sc, fieldType, field.SelectionSet)
		if len(selections) == 0 {
			return nil
		}
		return &ir.LinkedField{
			Alias:      alias,
			Definition: ir.At(id, loc),
			Arguments:  arguments,
			Directives: directives,
			Selections: selections,
		}
	}

	if len(field.SelectionSet) != 0 {
		b.errorf(CodeUnexpectedSelectionSet, field.Position, "Field %q must not have a selection since type %q has no subfields.", field.Name, def.Type.String())
		return nil
	}
	return &ir.ScalarField{
		Alias:      alias,
		Definition: ir.At(id, loc),
		Arguments:  arguments,
		Directives: directives,
	}
}

type condition struct {
	value   ir.ConditionValue
	passing bool
	loc     ir.Location
}

// splitConditions separates @include and @skip from the other directives.
func (b *builder) splitConditions(sc *scope, list ast.DirectiveList) ([]*ir.Directive, []condition) {
	var conditions []condition
	var rest ast.DirectiveList
	for _, directive := range list {
		var passing bool
		switch directive.Name {
		case intern.Include.Lookup():
			passing = true
		case intern.Skip.Lookup():
			passing = false
		default:
			rest = append(rest, directive)
			continue
		}

		arg := directive.Arguments.ForName(intern.If.Lookup())
		if arg == nil || arg.Value == nil {
			b.errorf(CodeInvalidCondition, directive.Position, "Directive @%s requires an \"if\" argument.", directive.Name)
			continue
		}
		var value ir.ConditionValue
		switch arg.Value.Kind {
		case ast.BooleanValue:
			value = ir.ConstantCondition(arg.Value.Raw == "true")
		case ast.Variable:
			value = ir.VariableCondition(intern.Intern(arg.Value.Raw))
			value.Variable.Type = sc.variables[arg.Value.Raw]
			if value.Variable.Type == nil {
				value.Variable.Type = ast.NonNullNamedType("Boolean", nil)
			}
		default:
			b.errorf(CodeInvalidCondition, arg.Position, "Expected a Boolean or a variable for @%s(if:).", directive.Name)
			continue
		}
		conditions = append(conditions, condition{
			value:   value,
			passing: passing,
			loc:     ir.LocationFromPosition(directive.Position),
		})
	}

	return b.buildDirectives(sc, rest), conditions
}

// wrapConditions nests sel in conditions, the first directive outermost.
func wrapConditions(sel ir.Selection, conditions []condition) ir.Selection {
	if len(conditions) == 0 {
		return sel
	}
	return wrapSelections([]ir.Selection{sel}, conditions)
}

// wrapSelections nests selections in conditions, the first condition
// outermost. conditions must not be empty.
func wrapSelections(selections []ir.Selection, conditions []condition) ir.Selection {
	var sel ir.Selection
	for i := len(conditions) - 1; i >= 0; i-- {
		sel = &ir.Condition{
			Selections:   selections,
			Value:        conditions[i].value,
			PassingValue: conditions[i].passing,
			Location:     conditions[i].loc,
		}
		selections = []ir.Selection{sel}
	}
	return sel
}

func (b *builder) buildDirectives(sc *scope, list ast.DirectiveList) []*ir.Directive {
	if len(list) == 0 {
		return nil
	}
	directives := make([]*ir.Directive, 0, len(list))
	for _, directive := range list {
		built := &ir.Directive{
			Name: ir.At(intern.Intern(directive.Name), ir.LocationFromPosition(directive.Position)),
		}
		var argDefs ast.ArgumentDefinitionList
		if def := b.schema.DirectiveDefinition(directive.Name); def != nil {
			argDefs = def.Arguments
		}
		for _, arg := range directive.Arguments {
			var expected *ast.Type
			if argDef := argDefs.ForName(arg.Name); argDef != nil {
				expected = argDef.Type
			}
			built.Arguments = append(built.Arguments, &ir.Argument{
				Name:  ir.At(intern.Intern(arg.Name), ir.LocationFromPosition(arg.Position)),
				Value: b.buildValue(sc, arg.Value, expected),
			})
		}
		directives = append(directives, built)
	}
	return directives
}

// buildValue converts v. expected is the type of the input position and is
// recorded on variables found there.
func (b *builder) buildValue(sc *scope, v *ast.Value, expected *ast.Type) ir.Value {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case ast.Variable:
		typ := expected
		if declared, ok := sc.variables[v.Raw]; ok {
			typ = declared
		}
		return &ir.Variable{Name: intern.Intern(v.Raw), Type: typ}
	case ast.IntValue:
		return ir.Int(v.Raw)
	case ast.FloatValue:
		return &ir.Constant{Kind: ir.FloatConstant, Raw: v.Raw}
	case ast.StringValue, ast.BlockValue:
		return ir.String(v.Raw)
	case ast.BooleanValue:
		return ir.Boolean(v.Raw == "true")
	case ast.NullValue:
		return ir.Null()
	case ast.EnumValue:
		return ir.Enum(v.Raw)
	case ast.ListValue:
		var elem *ast.Type
		if expected != nil {
			elem = expected.Elem
		}
		list := &ir.ListValue{Items: make([]ir.Value, 0, len(v.Children))}
		for _, child := range v.Children {
			list.Items = append(list.Items, b.buildValue(sc, child.Value, elem))
		}
		return list
	case ast.ObjectValue:
		object := &ir.ObjectValue{Fields: make([]*ir.Argument, 0, len(v.Children))}
		for _, child := range v.Children {
			object.Fields = append(object.Fields, &ir.Argument{
				Name:  ir.At(intern.Intern(child.Name), ir.LocationFromPosition(child.Position)),
				Value: b.buildValue(sc, child.Value, nil),
			})
		}
		return object
	default:
		diagnostics.InvariantViolation("unexpected value kind %d", v.Kind)
		return nil
	}
}
