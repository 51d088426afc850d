package ir

import (
	"sort"
	"strconv"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/gqlir/internal/intern"
)

type Value interface {
	isValue()
}

var _ Value = (*Constant)(nil)
var _ Value = (*Variable)(nil)
var _ Value = (*ListValue)(nil)
var _ Value = (*ObjectValue)(nil)

type ConstantKind uint8

const (
	IntConstant ConstantKind = iota + 1
	FloatConstant
	StringConstant
	BooleanConstant
	EnumConstant
	NullConstant
)

// Constant is a literal scalar value. Raw holds the value without quoting.
type Constant struct {
	Kind ConstantKind
	Raw  string
}

func (*Constant) isValue() {}

func Int(raw string) *Constant    { return &Constant{Kind: IntConstant, Raw: raw} }
func String(raw string) *Constant { return &Constant{Kind: StringConstant, Raw: raw} }
func Enum(raw string) *Constant   { return &Constant{Kind: EnumConstant, Raw: raw} }
func Null() *Constant             { return &Constant{Kind: NullConstant} }

func Boolean(b bool) *Constant {
	return &Constant{Kind: BooleanConstant, Raw: strconv.FormatBool(b)}
}

type Variable struct {
	Name intern.StringKey
	Type *ast.Type // optional
}

func (*Variable) isValue() {}

type ListValue struct {
	Items []Value
}

func (*ListValue) isValue() {}

type ObjectValue struct {
	Fields []*Argument
}

func (*ObjectValue) isValue() {}

type Argument struct {
	Name  WithLocation[intern.StringKey]
	Value Value
}

type Directive struct {
	Name      WithLocation[intern.StringKey]
	Arguments []*Argument
}

func (d *Directive) Argument(name intern.StringKey) *Argument {
	return NamedArgument(d.Arguments, name)
}

func NamedArgument(args []*Argument, name intern.StringKey) *Argument {
	for _, arg := range args {
		if arg.Name.Item == name {
			return arg
		}
	}
	return nil
}

func NamedDirective(directives []*Directive, name intern.StringKey) *Directive {
	for _, d := range directives {
		if d.Name.Item == name {
			return d
		}
	}
	return nil
}

// ConditionValue is the test of a Condition: either a constant or a variable.
type ConditionValue struct {
	Variable *Variable
	Constant bool
}

func ConstantCondition(b bool) ConditionValue {
	return ConditionValue{Constant: b}
}

func VariableCondition(name intern.StringKey) ConditionValue {
	return ConditionValue{Variable: &Variable{Name: name}}
}

func (v ConditionValue) IsConstant() bool {
	return v.Variable == nil
}

func (v ConditionValue) Equal(other ConditionValue) bool {
	if v.IsConstant() != other.IsConstant() {
		return false
	}
	if v.IsConstant() {
		return v.Constant == other.Constant
	}
	return v.Variable.Name == other.Variable.Name
}

// ValueEqual compares values structurally. Variables compare by name, object
// fields ignore their order, list items do not.
func ValueEqual(a, b Value) bool {
	switch a := a.(type) {
	case *Constant:
		b, ok := b.(*Constant)
		return ok && a.Kind == b.Kind && a.Raw == b.Raw
	case *Variable:
		b, ok := b.(*Variable)
		return ok && a.Name == b.Name
	case *ListValue:
		b, ok := b.(*ListValue)
		if !ok || len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !ValueEqual(a.Items[i], b.Items[i]) {
				return false
			}
		}
		return true
	case *ObjectValue:
		b, ok := b.(*ObjectValue)
		return ok && ArgumentsEqual(a.Fields, b.Fields)
	case nil:
		return b == nil
	default:
		return false
	}
}

// ArgumentsEqual reports whether both lists hold the same name/value pairs,
// regardless of their order.
func ArgumentsEqual(a, b []*Argument) bool {
	if len(a) != len(b) {
		return false
	}
	for _, left := range a {
		right := NamedArgument(b, left.Name.Item)
		if right == nil || !ValueEqual(left.Value, right.Value) {
			return false
		}
	}
	return true
}

func valueIdentityKey(value Value) string {
	switch value := value.(type) {
	case *Variable:
		return "$" + value.Name.Lookup()
	case *Constant:
		switch value.Kind {
		case IntConstant:
			return "i" + value.Raw
		case FloatConstant:
			return "f" + value.Raw
		case EnumConstant:
			return "e" + value.Raw
		case StringConstant:
			return "s" + strconv.Quote(value.Raw)
		case BooleanConstant:
			return "b" + value.Raw
		default:
			return "<null>"
		}
	case *ListValue:
		keys := make([]string, 0, len(value.Items))
		for _, item := range value.Items {
			keys = append(keys, valueIdentityKey(item))
		}
		return "[" + strings.Join(keys, ",") + "]"
	case *ObjectValue:
		return "{" + argumentsIdentityKey(value.Fields) + "}"
	default:
		return "<nil>"
	}
}

func argumentsIdentityKey(args []*Argument) string {
	keys := make([]string, 0, len(args))
	for _, arg := range args {
		keys = append(keys, arg.Name.Item.Lookup()+":"+valueIdentityKey(arg.Value))
	}
	sort.Strings(keys)

	return strings.Join(keys, ",")
}

func directivesIdentityKey(directives []*Directive) string {
	keys := make([]string, 0, len(directives))
	for _, d := range directives {
		keys = append(keys, "@"+d.Name.Item.Lookup()+"("+argumentsIdentityKey(d.Arguments)+")")
	}
	sort.Strings(keys)

	return strings.Join(keys, "")
}
