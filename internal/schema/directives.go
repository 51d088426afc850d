package schema

import "github.com/vektah/gqlparser/v2/ast"

var blankBuiltInPos = &ast.Position{
	Src: &ast.Source{
		BuiltIn: true,
	},
}

// Used to deliver the items of a list field incrementally.
var StreamDirective = &ast.DirectiveDefinition{
	Description: "Directs the executor to stream the items of this list field.",
	Name:        "stream",
	Arguments: ast.ArgumentDefinitionList{
		&ast.ArgumentDefinition{
			Description: "Number of items delivered with the initial response.",
			Name:        "initialCount",
			DefaultValue: &ast.Value{
				Raw:  "0",
				Kind: ast.IntValue,
			},
			Type: ast.NonNullNamedType("Int", nil),
		},
		&ast.ArgumentDefinition{
			Description: "Streamed only when true.",
			Name:        "if",
			DefaultValue: &ast.Value{
				Raw:  "true",
				Kind: ast.BooleanValue,
			},
			Type: ast.NamedType("Boolean", nil),
		},
		&ast.ArgumentDefinition{
			Description: "Identifies the streamed payloads.",
			Name:        "label",
			Type:        ast.NamedType("String", nil),
		},
	},
	Locations: []ast.DirectiveLocation{
		ast.LocationField,
	},
	Position: blankBuiltInPos,
}

// Used to pass arguments to a fragment declaring @argumentDefinitions. It
// takes any argument the fragment declares.
var ArgumentsDirective = &ast.DirectiveDefinition{
	Description: "Passes arguments to the spread fragment.",
	Name:        "arguments",
	Locations: []ast.DirectiveLocation{
		ast.LocationFragmentSpread,
	},
	Position: blankBuiltInPos,
}

// Used to declare the local variables of a fragment.
var ArgumentDefinitionsDirective = &ast.DirectiveDefinition{
	Description: "Declares the arguments of this fragment.",
	Name:        "argumentDefinitions",
	Locations: []ast.DirectiveLocation{
		ast.LocationFragmentDefinition,
	},
	Position: blankBuiltInPos,
}

// CompilerDirectives are understood by the compiler whether the schema
// declares them or not.
var CompilerDirectives = ast.DirectiveDefinitionList{
	StreamDirective,
	ArgumentsDirective,
	ArgumentDefinitionsDirective,
}
