package schema

import (
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
)

const testSDL = `
type Query {
	node(id: ID!): Node
	search(term: String!): [SearchResult!]!
}

type Mutation {
	rename(id: ID!, name: String!): User
}

interface Node {
	id: ID!
}

type User implements Node {
	id: ID!
	name: String
}

type Page implements Node {
	id: ID!
	title: String!
}

union SearchResult = User | Page
`

func load(t *testing.T) *SDLSchema {
	t.Helper()

	s, err := Load(&ast.Source{Name: "schema.graphqls", Input: heredoc.Doc(testSDL)})
	require.NoError(t, err)

	return s
}

func TestSDLSchemaFields(t *testing.T) {
	s := load(t)

	user, ok := s.GetType("User")
	require.True(t, ok)
	assert.True(t, user.IsObject())
	assert.Equal(t, "User", s.GetTypeName(user))

	node, ok := s.GetType("Node")
	require.True(t, ok)
	assert.True(t, node.IsAbstract())

	userID, ok := s.NamedField(user, "id")
	require.True(t, ok)
	nodeID, ok := s.NamedField(node, "id")
	require.True(t, ok)
	assert.NotEqual(t, userID, nodeID)

	field := s.Field(userID)
	assert.Equal(t, "id", field.Name)
	assert.Equal(t, user, field.ParentType)
	assert.Equal(t, "ID!", field.Type.String())

	typename, ok := s.NamedField(node, "__typename")
	require.True(t, ok)
	assert.Equal(t, "String!", s.Field(typename).Type.String())

	_, ok = s.NamedField(user, "title")
	assert.False(t, ok)
}

func TestSDLSchemaPossibleTypes(t *testing.T) {
	s := load(t)

	node, _ := s.GetType("Node")
	result, _ := s.GetType("SearchResult")
	user, _ := s.GetType("User")
	page, _ := s.GetType("Page")

	assert.Equal(t, []Type{page, user}, s.ImplementingObjects(node))
	assert.Equal(t, []Type{page, user}, s.UnionMembers(result))
	assert.Empty(t, s.UnionMembers(node))
	assert.Equal(t, []Type{user}, s.PossibleTypes(user))
}

func TestSDLSchemaRootTypes(t *testing.T) {
	s := load(t)

	query, ok := s.RootType(Query)
	require.True(t, ok)
	assert.Equal(t, "Query", s.GetTypeName(query))

	mutation, ok := s.RootType(Mutation)
	require.True(t, ok)
	assert.Equal(t, "Mutation", s.GetTypeName(mutation))

	_, ok = s.RootType(Subscription)
	assert.False(t, ok)
}

func TestLoadInvalidSchema(t *testing.T) {
	_, err := Load(&ast.Source{Name: "broken.graphqls", Input: "type Query { node: Missing }"})
	assert.Error(t, err)
}

func TestSDLSchemaDirectiveDefinition(t *testing.T) {
	s := load(t)

	include := s.DirectiveDefinition("include")
	require.NotNil(t, include)
	assert.Equal(t, "Boolean!", include.Arguments.ForName("if").Type.String())

	stream := s.DirectiveDefinition("stream")
	require.NotNil(t, stream)
	assert.Same(t, StreamDirective, stream)
	assert.Equal(t, "Int!", stream.Arguments.ForName("initialCount").Type.String())

	assert.Nil(t, s.DirectiveDefinition("live"))
}
