package validations

import (
	"context"
	"math"
	"sync"

	"github.com/vvakame/gqlir/internal/diagnostics"
	"github.com/vvakame/gqlir/internal/ir"
	"github.com/vvakame/gqlir/internal/log"
	"github.com/vvakame/gqlir/internal/schema"
	"github.com/vvakame/gqlir/internal/utils"
	"golang.org/x/sync/errgroup"
)

const (
	CodeAmbiguousAlias      = "AMBIGUOUS_ALIAS"
	CodeAmbiguousFieldType  = "AMBIGUOUS_FIELD_TYPE"
	CodeDifferentArguments  = "DIFFERENT_ARGUMENTS"
	CodeStreamConflict      = "STREAM_CONFLICT"
	CodeStreamOnOneSideOnly = "STREAM_ON_ONE_SIDE_ONLY"
)

// ValidateSelectionConflict checks that selections merged into the same
// response key can be merged: same field, same arguments, compatible types
// and at most one @stream. Fields of two different concrete object types
// never appear together in a response and only need compatible types.
//
// Every operation and fragment is validated. The returned error is nil or a
// diagnostics.Diagnostics holding every conflict found.
func ValidateSelectionConflict(ctx context.Context, program *ir.Program, opts ...Option) error {
	o := newOptions(opts)
	v := &selectionConflictValidator{
		program:   program,
		schema:    program.Schema,
		collector: &diagnostics.Collector{},
	}

	eg, ctx := errgroup.WithContext(ctx)
	if o.parallelism > 1 {
		eg.SetLimit(o.parallelism)
	} else {
		eg.SetLimit(1)
	}
	for _, op := range program.Operations() {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			st := &walkState{inProgress: make(map[*ir.FragmentDefinition]int)}
			v.collectSelections(st, op.Selections, newFields())
			return nil
		})
	}
	for _, fragment := range program.Fragments() {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			st := &walkState{inProgress: make(map[*ir.FragmentDefinition]int)}
			v.fragmentFields(st, fragment)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	log.FromContext(ctx).V(1).Info("validate selection conflict", "diagnostics", v.collector.Len())

	return v.collector.Err()
}

type selectionConflictValidator struct {
	program   *ir.Program
	schema    schema.Schema
	collector *diagnostics.Collector

	// fragmentCache maps *ir.FragmentDefinition to its merged *fields.
	fragmentCache sync.Map
	// linkedFieldCache maps *ir.LinkedField to the merged *fields of its selections.
	linkedFieldCache sync.Map
	// pairCache records field pairs already compared.
	pairCache sync.Map
}

type fieldPair struct {
	left, right       ir.Selection
	mutuallyExclusive bool
}

// walkState tracks the fragments and linked fields being merged by one
// goroutine. A result depending on a fragment still being merged further up
// the stack is incomplete and is not cached.
type walkState struct {
	frames     []frame
	inProgress map[*ir.FragmentDefinition]int
}

type frame struct {
	low int
}

func (st *walkState) enter() int {
	st.frames = append(st.frames, frame{low: math.MaxInt})
	return len(st.frames) - 1
}

// exit pops the frame at index and reports whether its result is complete.
func (st *walkState) exit(index int) bool {
	f := st.frames[index]
	st.frames = st.frames[:index]
	if f.low >= index {
		return true
	}
	if index > 0 {
		st.frames[index-1].low = min(st.frames[index-1].low, f.low)
	}
	return false
}

func (st *walkState) referInProgress(index int) {
	if len(st.frames) == 0 {
		return
	}
	top := len(st.frames) - 1
	st.frames[top].low = min(st.frames[top].low, index)
}

func (v *selectionConflictValidator) fragmentFields(st *walkState, fragment *ir.FragmentDefinition) *fields {
	if cached, ok := v.fragmentCache.Load(fragment); ok {
		return cached.(*fields)
	}
	if index, ok := st.inProgress[fragment]; ok {
		st.referInProgress(index)
		return newFields()
	}

	index := st.enter()
	st.inProgress[fragment] = index
	fs := newFields()
	v.collectSelections(st, fragment.Selections, fs)
	delete(st.inProgress, fragment)
	if st.exit(index) {
		actual, _ := v.fragmentCache.LoadOrStore(fragment, fs)
		return actual.(*fields)
	}
	return fs
}

func (v *selectionConflictValidator) linkedFieldFields(st *walkState, linked *ir.LinkedField) *fields {
	if cached, ok := v.linkedFieldCache.Load(linked); ok {
		return cached.(*fields)
	}

	index := st.enter()
	fs := newFields()
	v.collectSelections(st, linked.Selections, fs)
	if st.exit(index) {
		actual, _ := v.linkedFieldCache.LoadOrStore(linked, fs)
		return actual.(*fields)
	}
	return fs
}

// collectSelections merges selections into fs. Conditions and inline
// fragments do not open a new response object, their fields merge into the
// enclosing one, as do the fields of spread fragments.
func (v *selectionConflictValidator) collectSelections(st *walkState, selections []ir.Selection, fs *fields) {
	for _, sel := range selections {
		switch sel := sel.(type) {
		case *ir.ScalarField:
			v.addField(st, fs, field{scalar: sel})
		case *ir.LinkedField:
			v.linkedFieldFields(st, sel)
			v.addField(st, fs, field{linked: sel})
		case *ir.InlineFragment:
			v.collectSelections(st, sel.Selections, fs)
		case *ir.Condition:
			v.collectSelections(st, sel.Selections, fs)
		case *ir.FragmentSpread:
			fragment := v.program.Fragment(sel.FragmentName.Item)
			if fragment == nil {
				diagnostics.InvariantViolation("fragment %s is not defined", sel.FragmentName.Item)
			}
			spread := v.fragmentFields(st, fragment)
			for _, name := range spread.names {
				for _, f := range spread.get(name) {
					v.addField(st, fs, f)
				}
			}
		}
	}
}

func (v *selectionConflictValidator) addField(st *walkState, fs *fields, f field) {
	name := f.responseKey(v.schema)
	existing := fs.get(name)
	for _, other := range existing {
		if other.selection() == f.selection() {
			return
		}
	}
	for _, other := range existing {
		v.validateFields(st, other, f, false)
	}
	fs.add(name, f)
}

// validateFieldsAgainst compares every field of right with the fields of
// left sharing its response key.
func (v *selectionConflictValidator) validateFieldsAgainst(st *walkState, left, right *fields, mutuallyExclusive bool) {
	for _, name := range right.names {
		leftFields := left.get(name)
		if len(leftFields) == 0 {
			continue
		}
		for _, r := range right.get(name) {
			for _, l := range leftFields {
				v.validateFields(st, l, r, mutuallyExclusive)
			}
		}
	}
}

func (v *selectionConflictValidator) validateFields(st *walkState, left, right field, mutuallyExclusive bool) {
	if left.selection() == right.selection() {
		return
	}
	if right.location().Compare(left.location()) < 0 {
		left, right = right, left
	}

	leftParent, rightParent := left.parentType(v.schema), right.parentType(v.schema)
	if leftParent != rightParent && leftParent.IsObject() && rightParent.IsObject() {
		mutuallyExclusive = true
	}

	pair := fieldPair{left: left.selection(), right: right.selection(), mutuallyExclusive: mutuallyExclusive}
	if _, loaded := v.pairCache.LoadOrStore(pair, struct{}{}); loaded {
		return
	}

	if !mutuallyExclusive {
		v.validateSameField(left, right)
	}

	leftType, rightType := left.fieldType(v.schema), right.fieldType(v.schema)
	key := right.responseKey(v.schema).Lookup()
	switch {
	case left.linked != nil && right.linked != nil:
		if !utils.SameTypeWrapping(leftType, rightType) {
			v.ambiguousType(key, left, right)
			return
		}
		v.validateFieldsAgainst(st, v.linkedFieldFields(st, left.linked), v.linkedFieldFields(st, right.linked), mutuallyExclusive)
	case left.scalar != nil && right.scalar != nil:
		if !utils.SameType(leftType, rightType) {
			v.ambiguousType(key, left, right)
		}
	default:
		v.ambiguousType(key, left, right)
	}
}

func (v *selectionConflictValidator) validateSameField(left, right field) {
	key := right.responseKey(v.schema).Lookup()
	leftDef, rightDef := v.schema.Field(left.definition()), v.schema.Field(right.definition())

	if leftDef.Name != rightDef.Name {
		v.collector.Add(
			diagnostics.Errorf(CodeAmbiguousAlias, left.location(),
				"Field '%s' is ambiguous because it references two different fields: '%s' and '%s'",
				key, leftDef.Name, rightDef.Name,
			).Annotate("the other field", right.location()),
		)
	} else if !ir.ArgumentsEqual(left.arguments(), right.arguments()) {
		v.collector.Add(
			diagnostics.Errorf(CodeDifferentArguments, left.location(),
				"Field '%s' is ambiguous because it references fields with different arguments",
				key,
			).
				Annotate("with arguments ("+ir.FormatArguments(left.arguments())+")", left.location()).
				Annotate("with arguments ("+ir.FormatArguments(right.arguments())+")", right.location()),
		)
	}

	leftStreamed, rightStreamed := left.isStreamed(), right.isStreamed()
	switch {
	case leftStreamed && rightStreamed:
		v.collector.Add(
			diagnostics.Errorf(CodeStreamConflict, left.location(),
				"Field '%s' is marked with @stream in multiple places. Use an alias to distinguish them",
				key,
			).Annotate("the other field", right.location()),
		)
	case leftStreamed || rightStreamed:
		v.collector.Add(
			diagnostics.Errorf(CodeStreamOnOneSideOnly, left.location(),
				"Field '%s' is marked with @stream in one place and not in another. Use an alias to distinguish them",
				key,
			).Annotate("the other field", right.location()),
		)
	}
}

func (v *selectionConflictValidator) ambiguousType(key string, left, right field) {
	v.collector.Add(
		diagnostics.Errorf(CodeAmbiguousFieldType, left.location(),
			"Field '%s' is ambiguous because it has different types: '%s' and '%s'",
			key, left.fieldType(v.schema).String(), right.fieldType(v.schema).String(),
		).Annotate("the other field", right.location()),
	)
}
