package ir_test

import (
	"bytes"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
	"github.com/vvakame/gqlir/internal/intern"
	"github.com/vvakame/gqlir/internal/ir"
	"github.com/vvakame/gqlir/internal/testutils"
)

func TestPrinter(t *testing.T) {
	s := testutils.TestSchema(t)
	program := testutils.BuildProgram(t, s, heredoc.Doc(`
		query Q($id: ID!, $cond: Boolean!) {
			node(id: $id) {
				id
				... on User {
					handle: name
					friends(first: 10) @include(if: $cond) {
						...F @arguments(size: 32)
					}
				}
			}
		}
		fragment F on User @argumentDefinitions(size: {type: "Int"}) {
			avatar(size: $size)
		}
	`))

	var buf bytes.Buffer
	ir.NewPrinter(&buf, s).PrintOperation(program.Operation(intern.Intern("Q")))

	expected := "query Q($id: ID!, $cond: Boolean!) {\n" +
		"\tnode(id: $id) {\n" +
		"\t\tid\n" +
		"\t\t... on User {\n" +
		"\t\t\thandle: name\n" +
		"\t\t\t... @include(if: $cond) {\n" +
		"\t\t\t\tfriends(first: 10) {\n" +
		"\t\t\t\t\t...F @arguments(size: 32)\n" +
		"\t\t\t\t}\n" +
		"\t\t\t}\n" +
		"\t\t}\n" +
		"\t}\n" +
		"}\n"
	assert.Equal(t, expected, buf.String())
}

func TestPrintProgram(t *testing.T) {
	s := testutils.TestSchema(t)
	program := testutils.BuildProgram(t, s, heredoc.Doc(`
		query Q {
			search(text: "gopher") {
				... on Page {
					name
				}
			}
		}
		fragment F on User @argumentDefinitions(size: {type: "Int", defaultValue: 1}) {
			avatar(size: $size)
		}
	`))

	testutils.CheckGoldenFile(t, []byte(ir.PrintProgram(program)), "testdata/print_program.graphql.golden")
}
