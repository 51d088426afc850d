package ir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vvakame/gqlir/internal/intern"
	"github.com/vvakame/gqlir/internal/schema"
)

// NodeIdentifier is a location independent key of a selection. Two
// selections with the same identifier fetch the same data.
type NodeIdentifier struct {
	key string
}

// NewNodeIdentifier computes the identifier of sel. Fields are keyed by
// name rather than by definition, since an interface field and the same
// field of an implementing object fetch the same data. Arguments and
// directives are compared regardless of their order.
func NewNodeIdentifier(s schema.Schema, sel Selection) NodeIdentifier {
	var b strings.Builder
	switch sel := sel.(type) {
	case *ScalarField:
		b.WriteString("S|")
		writeFieldKey(&b, s.Field(sel.Definition.Item).Name, sel.Alias, sel.Arguments, sel.Directives)
	case *LinkedField:
		b.WriteString("L|")
		writeFieldKey(&b, s.Field(sel.Definition.Item).Name, sel.Alias, sel.Arguments, sel.Directives)
	case *InlineFragment:
		b.WriteString("I|")
		if sel.TypeCondition != nil {
			fmt.Fprintf(&b, "%d.%d", sel.TypeCondition.Kind, sel.TypeCondition.Index)
		}
		b.WriteString("|")
		b.WriteString(directivesIdentityKey(sel.Directives))
	case *FragmentSpread:
		b.WriteString("F|")
		b.WriteString(sel.FragmentName.Item.Lookup())
		b.WriteString("|")
		b.WriteString(argumentsIdentityKey(sel.Arguments))
		b.WriteString("|")
		b.WriteString(directivesIdentityKey(sel.Directives))
	case *Condition:
		b.WriteString("C|")
		if sel.Value.IsConstant() {
			b.WriteString(strconv.FormatBool(sel.Value.Constant))
		} else {
			b.WriteString("$")
			b.WriteString(sel.Value.Variable.Name.Lookup())
		}
		b.WriteString("|")
		b.WriteString(strconv.FormatBool(sel.PassingValue))
	default:
		panic(fmt.Sprintf("ir: unexpected selection type %T", sel))
	}

	return NodeIdentifier{key: b.String()}
}

func writeFieldKey(b *strings.Builder, name string, alias *WithLocation[intern.StringKey], args []*Argument, directives []*Directive) {
	b.WriteString(name)
	b.WriteString("|")
	if alias != nil {
		b.WriteString(alias.Item.Lookup())
	}
	b.WriteString("|")
	b.WriteString(argumentsIdentityKey(args))
	b.WriteString("|")
	b.WriteString(directivesIdentityKey(directives))
}

func (id NodeIdentifier) String() string {
	return id.key
}
