package ir

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Hooks a pass may implement. NewTransformer registers those the pass
// implements; the rest fall back to the Default* methods of Transformer.
// A hook receives the Transformer so it can delegate to the defaults.
type (
	OperationTransformer interface {
		TransformOperation(t *Transformer, op *OperationDefinition) Transformed[*OperationDefinition]
	}
	FragmentTransformer interface {
		TransformFragment(t *Transformer, fragment *FragmentDefinition) Transformed[*FragmentDefinition]
	}
	SelectionsTransformer interface {
		TransformSelections(t *Transformer, selections []Selection) Transformed[[]Selection]
	}
	ScalarFieldTransformer interface {
		TransformScalarField(t *Transformer, field *ScalarField) Transformed[Selection]
	}
	LinkedFieldTransformer interface {
		TransformLinkedField(t *Transformer, field *LinkedField) Transformed[Selection]
	}
	InlineFragmentTransformer interface {
		TransformInlineFragment(t *Transformer, fragment *InlineFragment) Transformed[Selection]
	}
	FragmentSpreadTransformer interface {
		TransformFragmentSpread(t *Transformer, spread *FragmentSpread) Transformed[Selection]
	}
	ConditionTransformer interface {
		TransformCondition(t *Transformer, condition *Condition) Transformed[Selection]
	}
	ArgumentTransformer interface {
		TransformArgument(t *Transformer, arg *Argument) Transformed[*Argument]
	}
	DirectiveTransformer interface {
		TransformDirective(t *Transformer, directive *Directive) Transformed[*Directive]
	}
	ValueTransformer interface {
		TransformValue(t *Transformer, value Value) TransformedValue[Value]
	}
)

type TransformerOptions struct {
	// VisitArguments enables traversal of field, spread and directive arguments.
	VisitArguments bool
	// VisitDirectives enables traversal of directive lists.
	VisitDirectives bool
	// Parallelism bounds how many roots TransformProgram processes at once.
	// Values below 2 process roots one by one.
	Parallelism int
}

// Transformer rewrites IR trees. Unchanged subtrees are returned as-is and a
// change rebuilds only the nodes above it.
type Transformer struct {
	opts TransformerOptions

	operation      OperationTransformer
	fragment       FragmentTransformer
	selections     SelectionsTransformer
	scalarField    ScalarFieldTransformer
	linkedField    LinkedFieldTransformer
	inlineFragment InlineFragmentTransformer
	fragmentSpread FragmentSpreadTransformer
	condition      ConditionTransformer
	argument       ArgumentTransformer
	directive      DirectiveTransformer
	value          ValueTransformer
}

func NewTransformer(pass interface{}, opts TransformerOptions) *Transformer {
	t := &Transformer{opts: opts}
	if h, ok := pass.(OperationTransformer); ok {
		t.operation = h
	}
	if h, ok := pass.(FragmentTransformer); ok {
		t.fragment = h
	}
	if h, ok := pass.(SelectionsTransformer); ok {
		t.selections = h
	}
	if h, ok := pass.(ScalarFieldTransformer); ok {
		t.scalarField = h
	}
	if h, ok := pass.(LinkedFieldTransformer); ok {
		t.linkedField = h
	}
	if h, ok := pass.(InlineFragmentTransformer); ok {
		t.inlineFragment = h
	}
	if h, ok := pass.(FragmentSpreadTransformer); ok {
		t.fragmentSpread = h
	}
	if h, ok := pass.(ConditionTransformer); ok {
		t.condition = h
	}
	if h, ok := pass.(ArgumentTransformer); ok {
		t.argument = h
	}
	if h, ok := pass.(DirectiveTransformer); ok {
		t.directive = h
	}
	if h, ok := pass.(ValueTransformer); ok {
		t.value = h
	}
	return t
}

func (t *Transformer) Options() TransformerOptions {
	return t.opts
}

// TransformProgram transforms every operation and fragment of program.
// When nothing changed the same *Program is returned. The only error is the
// cancellation of ctx, which is checked between roots.
func (t *Transformer) TransformProgram(ctx context.Context, program *Program) (*Program, error) {
	operations := program.Operations()
	fragments := program.Fragments()
	operationResults := make([]Transformed[*OperationDefinition], len(operations))
	fragmentResults := make([]Transformed[*FragmentDefinition], len(fragments))

	if t.opts.Parallelism < 2 {
		for i, op := range operations {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			operationResults[i] = t.TransformOperation(op)
		}
		for i, fragment := range fragments {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			fragmentResults[i] = t.TransformFragment(fragment)
		}
	} else {
		eg, ctx := errgroup.WithContext(ctx)
		eg.SetLimit(t.opts.Parallelism)
		for i, op := range operations {
			eg.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				operationResults[i] = t.TransformOperation(op)
				return nil
			})
		}
		for i, fragment := range fragments {
			eg.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				fragmentResults[i] = t.TransformFragment(fragment)
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	}

	changed := false
	next := NewProgram(program.Schema)
	for i, op := range operations {
		result := operationResults[i]
		if !result.IsKeep() {
			changed = true
		}
		if !result.IsDelete() {
			next.InsertOperation(result.Or(op))
		}
	}
	for i, fragment := range fragments {
		result := fragmentResults[i]
		if !result.IsKeep() {
			changed = true
		}
		if !result.IsDelete() {
			next.InsertFragment(result.Or(fragment))
		}
	}
	if !changed {
		return program, nil
	}

	return next, nil
}

func (t *Transformer) TransformOperation(op *OperationDefinition) Transformed[*OperationDefinition] {
	if t.operation != nil {
		return t.operation.TransformOperation(t, op)
	}
	return t.DefaultTransformOperation(op)
}

// DefaultTransformOperation transforms the variable definitions, directives
// and selections of op. An operation left without selections is deleted.
func (t *Transformer) DefaultTransformOperation(op *OperationDefinition) Transformed[*OperationDefinition] {
	variables := t.TransformVariableDefinitions(op.VariableDefinitions)
	directives := t.TransformDirectives(op.Directives)
	selections := t.TransformSelections(op.Selections)
	if variables.IsKeep() && directives.IsKeep() && selections.IsKeep() {
		return Keep[*OperationDefinition]()
	}
	if selections.IsReplace() && len(selections.Value()) == 0 {
		return Delete[*OperationDefinition]()
	}

	copied := *op
	copied.VariableDefinitions = variables.Or(op.VariableDefinitions)
	copied.Directives = directives.Or(op.Directives)
	copied.Selections = selections.Or(op.Selections)
	return Replace(&copied)
}

func (t *Transformer) TransformFragment(fragment *FragmentDefinition) Transformed[*FragmentDefinition] {
	if t.fragment != nil {
		return t.fragment.TransformFragment(t, fragment)
	}
	return t.DefaultTransformFragment(fragment)
}

// DefaultTransformFragment transforms the variable definitions, directives
// and selections of fragment. A fragment left without selections is deleted.
func (t *Transformer) DefaultTransformFragment(fragment *FragmentDefinition) Transformed[*FragmentDefinition] {
	variables := t.TransformVariableDefinitions(fragment.VariableDefinitions)
	directives := t.TransformDirectives(fragment.Directives)
	selections := t.TransformSelections(fragment.Selections)
	if variables.IsKeep() && directives.IsKeep() && selections.IsKeep() {
		return Keep[*FragmentDefinition]()
	}
	if selections.IsReplace() && len(selections.Value()) == 0 {
		return Delete[*FragmentDefinition]()
	}

	copied := *fragment
	copied.VariableDefinitions = variables.Or(fragment.VariableDefinitions)
	copied.Directives = directives.Or(fragment.Directives)
	copied.Selections = selections.Or(fragment.Selections)
	return Replace(&copied)
}

func (t *Transformer) TransformSelections(selections []Selection) Transformed[[]Selection] {
	if t.selections != nil {
		return t.selections.TransformSelections(t, selections)
	}
	return t.DefaultTransformSelections(selections)
}

func (t *Transformer) DefaultTransformSelections(selections []Selection) Transformed[[]Selection] {
	return TransformList(selections, t.TransformSelection)
}

// TransformSelection dispatches sel to the hook for its kind.
func (t *Transformer) TransformSelection(sel Selection) Transformed[Selection] {
	switch sel := sel.(type) {
	case *ScalarField:
		if t.scalarField != nil {
			return t.scalarField.TransformScalarField(t, sel)
		}
		return t.DefaultTransformScalarField(sel)
	case *LinkedField:
		if t.linkedField != nil {
			return t.linkedField.TransformLinkedField(t, sel)
		}
		return t.DefaultTransformLinkedField(sel)
	case *InlineFragment:
		if t.inlineFragment != nil {
			return t.inlineFragment.TransformInlineFragment(t, sel)
		}
		return t.DefaultTransformInlineFragment(sel)
	case *FragmentSpread:
		if t.fragmentSpread != nil {
			return t.fragmentSpread.TransformFragmentSpread(t, sel)
		}
		return t.DefaultTransformFragmentSpread(sel)
	case *Condition:
		if t.condition != nil {
			return t.condition.TransformCondition(t, sel)
		}
		return t.DefaultTransformCondition(sel)
	default:
		panic(fmt.Sprintf("ir: unexpected selection type %T", sel))
	}
}

func (t *Transformer) DefaultTransformScalarField(field *ScalarField) Transformed[Selection] {
	arguments := t.TransformArguments(field.Arguments)
	directives := t.TransformDirectives(field.Directives)
	if arguments.IsKeep() && directives.IsKeep() {
		return Keep[Selection]()
	}

	copied := *field
	copied.Arguments = arguments.Or(field.Arguments)
	copied.Directives = directives.Or(field.Directives)
	return Replace[Selection](&copied)
}

// DefaultTransformLinkedField transforms the arguments, directives and
// selections of field. A field left without selections is deleted.
func (t *Transformer) DefaultTransformLinkedField(field *LinkedField) Transformed[Selection] {
	arguments := t.TransformArguments(field.Arguments)
	directives := t.TransformDirectives(field.Directives)
	selections := t.TransformSelections(field.Selections)
	if arguments.IsKeep() && directives.IsKeep() && selections.IsKeep() {
		return Keep[Selection]()
	}
	if selections.IsReplace() && len(selections.Value()) == 0 {
		return Delete[Selection]()
	}

	copied := *field
	copied.Arguments = arguments.Or(field.Arguments)
	copied.Directives = directives.Or(field.Directives)
	copied.Selections = selections.Or(field.Selections)
	return Replace[Selection](&copied)
}

func (t *Transformer) DefaultTransformInlineFragment(fragment *InlineFragment) Transformed[Selection] {
	directives := t.TransformDirectives(fragment.Directives)
	selections := t.TransformSelections(fragment.Selections)
	if directives.IsKeep() && selections.IsKeep() {
		return Keep[Selection]()
	}
	if selections.IsReplace() && len(selections.Value()) == 0 {
		return Delete[Selection]()
	}

	copied := *fragment
	copied.Directives = directives.Or(fragment.Directives)
	copied.Selections = selections.Or(fragment.Selections)
	return Replace[Selection](&copied)
}

func (t *Transformer) DefaultTransformFragmentSpread(spread *FragmentSpread) Transformed[Selection] {
	arguments := t.TransformArguments(spread.Arguments)
	directives := t.TransformDirectives(spread.Directives)
	if arguments.IsKeep() && directives.IsKeep() {
		return Keep[Selection]()
	}

	copied := *spread
	copied.Arguments = arguments.Or(spread.Arguments)
	copied.Directives = directives.Or(spread.Directives)
	return Replace[Selection](&copied)
}

func (t *Transformer) DefaultTransformCondition(condition *Condition) Transformed[Selection] {
	selections := t.TransformSelections(condition.Selections)
	if selections.IsKeep() {
		return Keep[Selection]()
	}
	if len(selections.Value()) == 0 {
		return Delete[Selection]()
	}
	return Replace[Selection](condition.WithSelections(selections.Value()))
}

// TransformVariableDefinitions visits the directives and default values of
// variables according to the options.
func (t *Transformer) TransformVariableDefinitions(variables []*VariableDefinition) Transformed[[]*VariableDefinition] {
	if !t.opts.VisitArguments && !t.opts.VisitDirectives {
		return Keep[[]*VariableDefinition]()
	}
	return TransformList(variables, t.DefaultTransformVariableDefinition)
}

func (t *Transformer) DefaultTransformVariableDefinition(variable *VariableDefinition) Transformed[*VariableDefinition] {
	directives := t.TransformDirectives(variable.Directives)
	defaultValue := KeepValue[Value]()
	if t.opts.VisitArguments && variable.DefaultValue != nil {
		defaultValue = t.TransformValue(variable.DefaultValue)
	}
	if directives.IsKeep() && defaultValue.IsKeep() {
		return Keep[*VariableDefinition]()
	}

	copied := *variable
	copied.Directives = directives.Or(variable.Directives)
	copied.DefaultValue = defaultValue.Or(variable.DefaultValue)
	return Replace(&copied)
}

func (t *Transformer) TransformDirectives(directives []*Directive) Transformed[[]*Directive] {
	if !t.opts.VisitDirectives {
		return Keep[[]*Directive]()
	}
	return TransformList(directives, t.TransformDirective)
}

func (t *Transformer) TransformDirective(directive *Directive) Transformed[*Directive] {
	if t.directive != nil {
		return t.directive.TransformDirective(t, directive)
	}
	return t.DefaultTransformDirective(directive)
}

func (t *Transformer) DefaultTransformDirective(directive *Directive) Transformed[*Directive] {
	arguments := t.TransformArguments(directive.Arguments)
	if arguments.IsKeep() {
		return Keep[*Directive]()
	}

	copied := *directive
	copied.Arguments = arguments.Value()
	return Replace(&copied)
}

func (t *Transformer) TransformArguments(arguments []*Argument) Transformed[[]*Argument] {
	if !t.opts.VisitArguments {
		return Keep[[]*Argument]()
	}
	return TransformList(arguments, t.TransformArgument)
}

func (t *Transformer) TransformArgument(arg *Argument) Transformed[*Argument] {
	if t.argument != nil {
		return t.argument.TransformArgument(t, arg)
	}
	return t.DefaultTransformArgument(arg)
}

func (t *Transformer) DefaultTransformArgument(arg *Argument) Transformed[*Argument] {
	value := t.TransformValue(arg.Value)
	if value.IsKeep() {
		return Keep[*Argument]()
	}
	return Replace(&Argument{Name: arg.Name, Value: value.Or(arg.Value)})
}

func (t *Transformer) TransformValue(value Value) TransformedValue[Value] {
	if t.value != nil {
		return t.value.TransformValue(t, value)
	}
	return t.DefaultTransformValue(value)
}

// DefaultTransformValue descends into list items and object fields.
func (t *Transformer) DefaultTransformValue(value Value) TransformedValue[Value] {
	switch value := value.(type) {
	case *ListValue:
		items := TransformList(value.Items, func(item Value) Transformed[Value] {
			result := t.TransformValue(item)
			if result.IsKeep() {
				return Keep[Value]()
			}
			return Replace(result.Or(item))
		})
		if items.IsKeep() {
			return KeepValue[Value]()
		}
		return ReplaceValue[Value](&ListValue{Items: items.Value()})
	case *ObjectValue:
		fields := TransformList(value.Fields, t.TransformArgument)
		if fields.IsKeep() {
			return KeepValue[Value]()
		}
		return ReplaceValue[Value](&ObjectValue{Fields: fields.Value()})
	default:
		return KeepValue[Value]()
	}
}
