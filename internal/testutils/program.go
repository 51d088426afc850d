package testutils

import (
	_ "embed"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/gqlir/internal/ir"
	"github.com/vvakame/gqlir/internal/irbuild"
	"github.com/vvakame/gqlir/internal/schema"
)

//go:embed testdata/schema.graphql
var testSchemaSDL string

// TestSchema returns the schema shared by package tests.
func TestSchema(t TestingT) *schema.SDLSchema {
	t.Helper()

	return LoadSchema(t, testSchemaSDL)
}

func LoadSchema(t TestingT, sdl string) *schema.SDLSchema {
	t.Helper()

	s, err := schema.Load(&ast.Source{Name: "schema.graphql", Input: sdl})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// BuildProgram builds the documents against s and fails the test on any
// diagnostic.
func BuildProgram(t TestingT, s schema.Schema, documents ...string) *ir.Program {
	t.Helper()

	sources := make([]*ast.Source, 0, len(documents))
	for _, doc := range documents {
		sources = append(sources, &ast.Source{Name: "query.graphql", Input: doc})
	}
	program, err := irbuild.BuildSources(s, sources...)
	if err != nil {
		t.Fatal(err)
	}
	return program
}
