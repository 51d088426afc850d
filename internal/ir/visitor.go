package ir

// Visit calls fn for every selection reachable from selections in pre-order,
// without following fragment spreads. The children of a selection are
// visited only when fn returns true.
func Visit(selections []Selection, fn func(sel Selection) bool) {
	for _, sel := range selections {
		if !fn(sel) {
			continue
		}
		Visit(ChildSelections(sel), fn)
	}
}

// VisitProgram visits the selections of every operation and fragment.
func VisitProgram(program *Program, fn func(sel Selection) bool) {
	for _, op := range program.Operations() {
		Visit(op.Selections, fn)
	}
	for _, fragment := range program.Fragments() {
		Visit(fragment.Selections, fn)
	}
}

// VisitVariables calls fn for every variable referenced by the arguments,
// directives and conditions below selections.
func VisitVariables(selections []Selection, fn func(variable *Variable, loc Location)) {
	Visit(selections, func(sel Selection) bool {
		switch sel := sel.(type) {
		case *ScalarField:
			visitArgumentVariables(sel.Arguments, fn)
			visitDirectiveVariables(sel.Directives, fn)
		case *LinkedField:
			visitArgumentVariables(sel.Arguments, fn)
			visitDirectiveVariables(sel.Directives, fn)
		case *InlineFragment:
			visitDirectiveVariables(sel.Directives, fn)
		case *FragmentSpread:
			visitArgumentVariables(sel.Arguments, fn)
			visitDirectiveVariables(sel.Directives, fn)
		case *Condition:
			if !sel.Value.IsConstant() {
				fn(sel.Value.Variable, sel.Location)
			}
		}
		return true
	})
}

func visitDirectiveVariables(directives []*Directive, fn func(*Variable, Location)) {
	for _, directive := range directives {
		visitArgumentVariables(directive.Arguments, fn)
	}
}

func visitArgumentVariables(arguments []*Argument, fn func(*Variable, Location)) {
	for _, arg := range arguments {
		visitValueVariables(arg.Value, arg.Name.Location, fn)
	}
}

func visitValueVariables(value Value, loc Location, fn func(*Variable, Location)) {
	switch value := value.(type) {
	case *Variable:
		fn(value, loc)
	case *ListValue:
		for _, item := range value.Items {
			visitValueVariables(item, loc, fn)
		}
	case *ObjectValue:
		visitArgumentVariables(value.Fields, fn)
	}
}
