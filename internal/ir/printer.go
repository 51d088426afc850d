package ir

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/vvakame/gqlir/internal/intern"
	"github.com/vvakame/gqlir/internal/schema"
)

// Printer writes IR in GraphQL syntax. Conditions are printed as inline
// fragments carrying @include or @skip.
type Printer interface {
	PrintProgram(program *Program)
	PrintOperation(op *OperationDefinition)
	PrintFragment(fragment *FragmentDefinition)
	PrintSelections(selections []Selection)
}

func NewPrinter(w io.Writer, s schema.Schema) Printer {
	return &printer{writer: w, schema: s, lineHead: true}
}

// PrintProgram returns the text of every operation and fragment of program.
func PrintProgram(program *Program) string {
	var buf bytes.Buffer
	NewPrinter(&buf, program.Schema).PrintProgram(program)
	return buf.String()
}

type printer struct {
	writer io.Writer
	schema schema.Schema

	indent int

	padNext  bool
	lineHead bool
}

func (p *printer) writeString(s string) {
	_, _ = p.writer.Write([]byte(s))
}

func (p *printer) writeIndent() *printer {
	if p.lineHead {
		p.writeString(strings.Repeat("\t", p.indent))
	}
	p.lineHead = false
	p.padNext = false

	return p
}

func (p *printer) WriteNewline() *printer {
	p.writeString("\n")
	p.lineHead = true
	p.padNext = false

	return p
}

func (p *printer) WriteWord(word string) *printer {
	if p.lineHead {
		p.writeIndent()
	}
	if p.padNext {
		p.writeString(" ")
	}
	p.writeString(strings.TrimSpace(word))
	p.padNext = true

	return p
}

func (p *printer) WriteString(s string) *printer {
	if p.lineHead {
		p.writeIndent()
	}
	if p.padNext {
		p.writeString(" ")
	}
	p.writeString(s)
	p.padNext = false

	return p
}

func (p *printer) NoPadding() *printer {
	p.padNext = false

	return p
}

func (p *printer) PrintProgram(program *Program) {
	first := true
	for _, op := range program.Operations() {
		if !first {
			p.WriteNewline()
		}
		first = false
		p.PrintOperation(op)
	}
	for _, fragment := range program.Fragments() {
		if !first {
			p.WriteNewline()
		}
		first = false
		p.PrintFragment(fragment)
	}
}

func (p *printer) PrintOperation(op *OperationDefinition) {
	p.WriteWord(string(op.Kind))
	if !op.Name.Item.IsEmpty() {
		p.WriteWord(op.Name.Item.Lookup())
	}
	p.printVariableDefinitions(op.VariableDefinitions)
	p.printDirectives(op.Directives)
	p.printSelectionSet(op.Selections)
}

func (p *printer) PrintFragment(fragment *FragmentDefinition) {
	p.WriteWord("fragment")
	p.WriteWord(fragment.Name.Item.Lookup())
	p.WriteWord("on")
	p.WriteWord(p.schema.GetTypeName(fragment.TypeCondition))
	if len(fragment.VariableDefinitions) != 0 {
		p.WriteWord("@" + intern.ArgumentDefinitions.Lookup())
		p.NoPadding().WriteString("(")
		for i, variable := range fragment.VariableDefinitions {
			if i != 0 {
				p.NoPadding().WriteWord(",")
			}
			p.WriteWord(variable.Name.Item.Lookup() + ":")
			p.WriteWord("{")
			p.WriteWord("type:")
			p.WriteWord(strconv.Quote(variable.Type.String()))
			if variable.DefaultValue != nil {
				p.NoPadding().WriteWord(",")
				p.WriteWord("defaultValue:")
				p.printValue(variable.DefaultValue)
			}
			p.WriteWord("}")
		}
		p.NoPadding().WriteWord(")")
	}
	p.printDirectives(fragment.Directives)
	p.printSelectionSet(fragment.Selections)
}

func (p *printer) PrintSelections(selections []Selection) {
	for _, sel := range selections {
		p.printSelection(sel)
	}
}

func (p *printer) printSelectionSet(selections []Selection) {
	p.WriteWord("{").WriteNewline()
	p.indent++
	p.PrintSelections(selections)
	p.indent--
	p.WriteWord("}").WriteNewline()
}

func (p *printer) printSelection(sel Selection) {
	switch sel := sel.(type) {
	case *ScalarField:
		p.printField(sel.Alias, sel.Definition.Item, sel.Arguments, sel.Directives)
		p.WriteNewline()
	case *LinkedField:
		p.printField(sel.Alias, sel.Definition.Item, sel.Arguments, sel.Directives)
		p.printSelectionSet(sel.Selections)
	case *InlineFragment:
		p.WriteWord("...")
		if sel.TypeCondition != nil {
			p.WriteWord("on")
			p.WriteWord(p.schema.GetTypeName(*sel.TypeCondition))
		}
		p.printDirectives(sel.Directives)
		p.printSelectionSet(sel.Selections)
	case *FragmentSpread:
		p.WriteString("...").NoPadding().WriteWord(sel.FragmentName.Item.Lookup())
		if len(sel.Arguments) != 0 {
			p.WriteWord("@" + intern.Arguments.Lookup())
			p.printArguments(sel.Arguments)
		}
		p.printDirectives(sel.Directives)
		p.WriteNewline()
	case *Condition:
		p.WriteWord("...")
		p.WriteWord("@" + sel.DirectiveName().Lookup())
		p.NoPadding().WriteString("(")
		p.WriteWord("if:")
		if sel.Value.IsConstant() {
			p.WriteWord(strconv.FormatBool(sel.Value.Constant))
		} else {
			p.WriteWord("$" + sel.Value.Variable.Name.Lookup())
		}
		p.NoPadding().WriteWord(")")
		p.printSelectionSet(sel.Selections)
	}
}

func (p *printer) printField(alias *WithLocation[intern.StringKey], id schema.FieldID, arguments []*Argument, directives []*Directive) {
	if alias != nil {
		p.WriteWord(alias.Item.Lookup() + ":")
	}
	p.WriteWord(p.schema.Field(id).Name)
	p.printArguments(arguments)
	p.printDirectives(directives)
}

func (p *printer) printVariableDefinitions(variables []*VariableDefinition) {
	if len(variables) == 0 {
		return
	}
	p.NoPadding().WriteString("(")
	for i, variable := range variables {
		if i != 0 {
			p.NoPadding().WriteWord(",")
		}
		p.WriteWord("$" + variable.Name.Item.Lookup() + ":")
		p.WriteWord(variable.Type.String())
		if variable.DefaultValue != nil {
			p.WriteWord("=")
			p.printValue(variable.DefaultValue)
		}
		p.printDirectives(variable.Directives)
	}
	p.NoPadding().WriteWord(")")
}

func (p *printer) printArguments(arguments []*Argument) {
	if len(arguments) == 0 {
		return
	}
	p.NoPadding().WriteString("(")
	for i, arg := range arguments {
		if i != 0 {
			p.NoPadding().WriteWord(",")
		}
		p.WriteWord(arg.Name.Item.Lookup() + ":")
		p.printValue(arg.Value)
	}
	p.NoPadding().WriteWord(")")
}

func (p *printer) printDirectives(directives []*Directive) {
	for _, directive := range directives {
		p.WriteWord("@" + directive.Name.Item.Lookup())
		p.printArguments(directive.Arguments)
	}
}

func (p *printer) printValue(value Value) {
	p.WriteWord(FormatValue(value))
}

// FormatValue renders value in GraphQL syntax.
func FormatValue(value Value) string {
	switch value := value.(type) {
	case *Variable:
		return "$" + value.Name.Lookup()
	case *Constant:
		switch value.Kind {
		case StringConstant:
			return strconv.Quote(value.Raw)
		case NullConstant:
			return "null"
		default:
			return value.Raw
		}
	case *ListValue:
		items := make([]string, 0, len(value.Items))
		for _, item := range value.Items {
			items = append(items, FormatValue(item))
		}
		return "[" + strings.Join(items, ", ") + "]"
	case *ObjectValue:
		return "{" + FormatArguments(value.Fields) + "}"
	default:
		return ""
	}
}

// FormatArguments renders arguments as a comma separated name: value list.
func FormatArguments(arguments []*Argument) string {
	parts := make([]string, 0, len(arguments))
	for _, arg := range arguments {
		parts = append(parts, arg.Name.Item.Lookup()+": "+FormatValue(arg.Value))
	}
	return strings.Join(parts, ", ")
}
