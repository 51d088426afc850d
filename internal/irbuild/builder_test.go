package irbuild_test

import (
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/gqlir/internal/diagnostics"
	"github.com/vvakame/gqlir/internal/intern"
	"github.com/vvakame/gqlir/internal/ir"
	"github.com/vvakame/gqlir/internal/irbuild"
	"github.com/vvakame/gqlir/internal/testutils"
)

func TestBuildSources(t *testing.T) {
	s := testutils.TestSchema(t)

	program, err := irbuild.BuildSources(s,
		&ast.Source{Name: "query.graphql", Input: heredoc.Doc(`
			query Viewer($withFriends: Boolean!, $size: Int) {
				me {
					id
					handle: name
					avatar(size: $size)
					friends(first: 10) @include(if: $withFriends) {
						...UserName
					}
				}
			}
		`)},
		&ast.Source{Name: "fragments.graphql", Input: heredoc.Doc(`
			fragment UserName on User @argumentDefinitions(size: {type: "Int", defaultValue: 32}) {
				name
				avatar(size: $size)
				bestFriend @skip(if: $hideFriend) {
					id
				}
			}
		`)},
	)
	require.NoError(t, err)
	require.Equal(t, 1, program.OperationCount())
	require.Equal(t, 1, program.FragmentCount())

	op := program.Operation(intern.Intern("Viewer"))
	require.NotNil(t, op)
	queryType, _ := s.GetType("Query")
	assert.Equal(t, queryType, op.RootType)
	require.Len(t, op.VariableDefinitions, 2)

	require.Len(t, op.Selections, 1)
	me, ok := op.Selections[0].(*ir.LinkedField)
	require.True(t, ok)
	require.Len(t, me.Selections, 4)

	handle, ok := me.Selections[1].(*ir.ScalarField)
	require.True(t, ok)
	require.NotNil(t, handle.Alias)
	assert.Equal(t, "handle", handle.AliasOrName(s).Lookup())
	assert.Equal(t, "name", s.Field(handle.Definition.Item).Name)

	avatar, ok := me.Selections[2].(*ir.ScalarField)
	require.True(t, ok)
	require.Len(t, avatar.Arguments, 1)
	variable, ok := avatar.Arguments[0].Value.(*ir.Variable)
	require.True(t, ok)
	assert.Equal(t, "Int", variable.Type.String())

	condition, ok := me.Selections[3].(*ir.Condition)
	require.True(t, ok)
	assert.True(t, condition.PassingValue)
	assert.Equal(t, "withFriends", condition.Value.Variable.Name.Lookup())
	friends, ok := condition.Selections[0].(*ir.LinkedField)
	require.True(t, ok)
	assert.Empty(t, friends.Directives)
	_, ok = friends.Selections[0].(*ir.FragmentSpread)
	assert.True(t, ok)

	fragment := program.Fragment(intern.Intern("UserName"))
	require.NotNil(t, fragment)
	assert.Equal(t, "User", s.GetTypeName(fragment.TypeCondition))
	assert.Empty(t, fragment.Directives)
	require.Len(t, fragment.VariableDefinitions, 1)
	assert.Equal(t, "size", fragment.VariableDefinitions[0].Name.Item.Lookup())
	assert.Equal(t, "Int", fragment.VariableDefinitions[0].Type.String())
	assert.Equal(t, ir.Int("32"), fragment.VariableDefinitions[0].DefaultValue)
	require.Len(t, fragment.UsedGlobalVariables, 1)
	assert.Equal(t, "hideFriend", fragment.UsedGlobalVariables[0].Name.Item.Lookup())

	skip, ok := fragment.Selections[2].(*ir.Condition)
	require.True(t, ok)
	assert.False(t, skip.PassingValue)
	assert.Equal(t, intern.Skip, skip.DirectiveName())
	assert.Equal(t, "fragments.graphql", skip.Location.Source)
}

func TestBuild_conditions(t *testing.T) {
	s := testutils.TestSchema(t)

	program := testutils.BuildProgram(t, s, heredoc.Doc(`
		query Q($a: Boolean!, $b: Boolean!) {
			me @include(if: $a) @skip(if: $b) {
				id
			}
			node(id: "1") @include(if: true) {
				id
			}
		}
	`))

	op := program.Operation(intern.Intern("Q"))
	require.Len(t, op.Selections, 2)

	outer, ok := op.Selections[0].(*ir.Condition)
	require.True(t, ok)
	assert.True(t, outer.PassingValue)
	assert.Equal(t, "a", outer.Value.Variable.Name.Lookup())
	inner, ok := outer.Selections[0].(*ir.Condition)
	require.True(t, ok)
	assert.False(t, inner.PassingValue)
	assert.Equal(t, "b", inner.Value.Variable.Name.Lookup())

	constant, ok := op.Selections[1].(*ir.Condition)
	require.True(t, ok)
	assert.True(t, constant.Value.IsConstant())
	assert.True(t, constant.Value.Constant)
}

func TestBuild_conditionalInlineFragment(t *testing.T) {
	s := testutils.TestSchema(t)

	program := testutils.BuildProgram(t, s, heredoc.Doc(`
		query Q($a: Boolean!) {
			me {
				... @include(if: $a) @skip(if: true) { id name }
				... on User @include(if: $a) { email }
				... @relay(mask: false) { name }
			}
		}
	`))

	me := program.Operation(intern.Intern("Q")).Selections[0].(*ir.LinkedField)
	require.Len(t, me.Selections, 3)

	outer, ok := me.Selections[0].(*ir.Condition)
	require.True(t, ok)
	assert.Equal(t, "a", outer.Value.Variable.Name.Lookup())
	inner, ok := outer.Selections[0].(*ir.Condition)
	require.True(t, ok)
	assert.True(t, inner.Value.IsConstant())
	require.Len(t, inner.Selections, 2)
	assert.IsType(t, (*ir.ScalarField)(nil), inner.Selections[0])
	assert.IsType(t, (*ir.ScalarField)(nil), inner.Selections[1])

	typed, ok := me.Selections[1].(*ir.Condition)
	require.True(t, ok)
	fragment, ok := typed.Selections[0].(*ir.InlineFragment)
	require.True(t, ok)
	assert.NotNil(t, fragment.TypeCondition)

	directed, ok := me.Selections[2].(*ir.InlineFragment)
	require.True(t, ok)
	assert.Nil(t, directed.TypeCondition)
	assert.Len(t, directed.Directives, 1)
}

func TestBuild_fragmentSpreadArguments(t *testing.T) {
	s := testutils.TestSchema(t)

	program := testutils.BuildProgram(t, s, heredoc.Doc(`
		query Q {
			me {
				...Avatar @arguments(size: 64) @relay(mask: false)
			}
		}
		fragment Avatar on User @argumentDefinitions(size: {type: "Int!"}) {
			avatar(size: $size)
		}
	`))

	me := program.Operation(intern.Intern("Q")).Selections[0].(*ir.LinkedField)
	spread, ok := me.Selections[0].(*ir.FragmentSpread)
	require.True(t, ok)
	assert.Equal(t, "Avatar", spread.FragmentName.Item.Lookup())
	require.Len(t, spread.Arguments, 1)
	assert.Equal(t, "size", spread.Arguments[0].Name.Item.Lookup())
	require.Len(t, spread.Directives, 1)
	assert.Equal(t, "relay", spread.Directives[0].Name.Item.Lookup())

	fragment := program.Fragment(intern.Intern("Avatar"))
	assert.Equal(t, "Int!", fragment.VariableDefinitions[0].Type.String())
	assert.Empty(t, fragment.UsedGlobalVariables)
}

func TestBuild_directiveArgumentTypes(t *testing.T) {
	s := testutils.TestSchema(t)

	program := testutils.BuildProgram(t, s, heredoc.Doc(`
		query Q($label: String) {
			me {
				friends @stream(initialCount: $count, label: $label) { id }
			}
		}
	`))

	me := program.Operation(intern.Intern("Q")).Selections[0].(*ir.LinkedField)
	friends := me.Selections[0].(*ir.LinkedField)
	stream := ir.NamedDirective(friends.Directives, intern.Stream)
	require.NotNil(t, stream)

	count := stream.Argument(intern.Intern("initialCount")).Value.(*ir.Variable)
	assert.Equal(t, "Int!", count.Type.String())
	label := stream.Argument(intern.Intern("label")).Value.(*ir.Variable)
	assert.Equal(t, "String", label.Type.String())
}

func TestBuild_errors(t *testing.T) {
	s := testutils.TestSchema(t)

	tests := []struct {
		name  string
		query string
		codes []string
	}{
		{
			name: "unknown field",
			query: heredoc.Doc(`
				query Q { me { id unknown } }
			`),
			codes: []string{irbuild.CodeUnknownField},
		},
		{
			name: "unknown fragment and type",
			query: heredoc.Doc(`
				query Q { me { ...Missing ... on Missing { id } } }
			`),
			codes: []string{irbuild.CodeUnknownFragment, irbuild.CodeUnknownType},
		},
		{
			name: "selection sets",
			query: heredoc.Doc(`
				query Q { me { id { x } bestFriend } }
			`),
			codes: []string{irbuild.CodeUnexpectedSelectionSet, irbuild.CodeMissingSelectionSet},
		},
		{
			name: "duplicate definitions",
			query: heredoc.Doc(`
				query Q { me { id } }
				query Q { me { name } }
				fragment F on User { id }
				fragment F on User { name }
			`),
			codes: []string{irbuild.CodeDuplicateOperation, irbuild.CodeDuplicateFragment},
		},
		{
			name: "invalid condition",
			query: heredoc.Doc(`
				query Q { me { id @include(if: "yes") } }
			`),
			codes: []string{irbuild.CodeInvalidCondition},
		},
		{
			name: "missing root type",
			query: heredoc.Doc(`
				subscription S { me { id } }
			`),
			codes: []string{irbuild.CodeMissingRootType},
		},
		{
			name: "invalid argument definition",
			query: heredoc.Doc(`
				fragment F on User @argumentDefinitions(size: {type: "[Int"}) { id }
			`),
			codes: []string{irbuild.CodeInvalidArgumentDef},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := irbuild.BuildSources(s, &ast.Source{Name: "query.graphql", Input: tt.query})
			require.Error(t, err)

			ds, ok := err.(diagnostics.Diagnostics)
			require.True(t, ok, "%T", err)
			var codes []string
			for _, d := range ds {
				codes = append(codes, d.Code)
			}
			assert.Equal(t, tt.codes, codes)
		})
	}
}

func TestBuildSources_parseErrors(t *testing.T) {
	s := testutils.TestSchema(t)

	_, err := irbuild.BuildSources(s,
		&ast.Source{Name: "a.graphql", Input: "query {"},
		&ast.Source{Name: "b.graphql", Input: "fragment on"},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 errors occurred")
	assert.Contains(t, err.Error(), "a.graphql")
	assert.Contains(t, err.Error(), "b.graphql")
}

func TestParseTypeReference(t *testing.T) {
	program := testutils.BuildProgram(t, testutils.TestSchema(t), heredoc.Doc(`
		fragment F on User @argumentDefinitions(
			a: {type: "[ID!]!"}
			b: {type: " [ [Int] ] "}
		) {
			id
		}
	`))
	fragment := program.Fragment(intern.Intern("F"))
	require.Len(t, fragment.VariableDefinitions, 2)
	assert.Equal(t, "[ID!]!", fragment.VariableDefinitions[0].Type.String())
	assert.Equal(t, "[[Int]]", fragment.VariableDefinitions[1].Type.String())
}
