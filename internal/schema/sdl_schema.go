package schema

import (
	"fmt"
	"sort"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vvakame/gqlir/internal/utils"
)

var _ Schema = (*SDLSchema)(nil)

var typenameType = ast.NonNullNamedType("String", nil)

// SDLSchema is a read-only Schema backed by a validated gqlparser schema.
// All tables are built once in New; lookups never mutate it.
type SDLSchema struct {
	schema *ast.Schema

	types     []*ast.Definition
	typeIndex map[string]Type

	fields     []*Field
	fieldIndex map[fieldKey]FieldID

	possibleTypes map[Type][]Type
}

type fieldKey struct {
	parent Type
	name   string
}

// Load parses and validates SDL sources on top of the built-in prelude.
func Load(sources ...*ast.Source) (*SDLSchema, error) {
	schema, gErr := gqlparser.LoadSchema(sources...)
	if gErr != nil {
		return nil, gErr
	}

	return New(schema)
}

func New(schema *ast.Schema) (*SDLSchema, error) {
	s := &SDLSchema{
		schema:        schema,
		typeIndex:     make(map[string]Type, len(schema.Types)),
		fieldIndex:    make(map[fieldKey]FieldID),
		possibleTypes: make(map[Type][]Type),
	}

	names := make([]string, 0, len(schema.Types))
	for name := range schema.Types {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := schema.Types[name]
		kind, err := kindOf(def)
		if err != nil {
			return nil, err
		}
		typ := Type{Kind: kind, Index: uint32(len(s.types))}
		s.types = append(s.types, def)
		s.typeIndex[name] = typ
	}

	for _, name := range names {
		def := schema.Types[name]
		if !utils.IsCompositeType(def) {
			continue
		}
		parent := s.typeIndex[name]

		for _, fieldDef := range def.Fields {
			s.addField(parent, fieldDef.Name, fieldDef.Type, fieldDef.Arguments, fieldDef.Directives)
		}
		s.addField(parent, "__typename", typenameType, nil, nil)

		var possible []Type
		for _, objDef := range utils.PossibleObjectTypes(schema, def) {
			possible = append(possible, s.typeIndex[objDef.Name])
		}
		s.possibleTypes[parent] = possible
	}

	return s, nil
}

func (s *SDLSchema) addField(parent Type, name string, typ *ast.Type, args ast.ArgumentDefinitionList, directives ast.DirectiveList) {
	id := FieldID(len(s.fields))
	s.fields = append(s.fields, &Field{
		ID:         id,
		Name:       name,
		Type:       typ,
		Arguments:  args,
		ParentType: parent,
		Directives: directives,
	})
	s.fieldIndex[fieldKey{parent: parent, name: name}] = id
}

func kindOf(def *ast.Definition) (Kind, error) {
	switch def.Kind {
	case ast.Scalar:
		return KindScalar, nil
	case ast.Enum:
		return KindEnum, nil
	case ast.Object:
		return KindObject, nil
	case ast.Interface:
		return KindInterface, nil
	case ast.Union:
		return KindUnion, nil
	case ast.InputObject:
		return KindInputObject, nil
	default:
		return 0, fmt.Errorf("unexpected definition kind %q of %s", def.Kind, def.Name)
	}
}

// AST returns the underlying gqlparser schema.
func (s *SDLSchema) AST() *ast.Schema {
	return s.schema
}

func (s *SDLSchema) Field(id FieldID) *Field {
	if int(id) >= len(s.fields) {
		panic(fmt.Sprintf("unknown field id %d", id))
	}
	return s.fields[id]
}

func (s *SDLSchema) NamedField(parent Type, name string) (FieldID, bool) {
	id, ok := s.fieldIndex[fieldKey{parent: parent, name: name}]
	return id, ok
}

func (s *SDLSchema) GetType(name string) (Type, bool) {
	typ, ok := s.typeIndex[name]
	return typ, ok
}

func (s *SDLSchema) GetTypeName(typ Type) string {
	return s.definition(typ).Name
}

// Definition returns the gqlparser definition of typ.
func (s *SDLSchema) Definition(typ Type) *ast.Definition {
	return s.definition(typ)
}

func (s *SDLSchema) definition(typ Type) *ast.Definition {
	if int(typ.Index) >= len(s.types) {
		panic(fmt.Sprintf("unknown type index %d", typ.Index))
	}
	return s.types[typ.Index]
}

func (s *SDLSchema) ImplementingObjects(iface Type) []Type {
	if !iface.IsInterface() {
		return nil
	}
	return s.possibleTypes[iface]
}

func (s *SDLSchema) UnionMembers(union Type) []Type {
	if !union.IsUnion() {
		return nil
	}
	return s.possibleTypes[union]
}

func (s *SDLSchema) PossibleTypes(typ Type) []Type {
	return s.possibleTypes[typ]
}

func (s *SDLSchema) RootType(kind OperationKind) (Type, bool) {
	var def *ast.Definition
	switch kind {
	case Query:
		def = s.schema.Query
	case Mutation:
		def = s.schema.Mutation
	case Subscription:
		def = s.schema.Subscription
	}
	if def == nil {
		return Type{}, false
	}

	return s.GetType(def.Name)
}

func (s *SDLSchema) DirectiveDefinition(name string) *ast.DirectiveDefinition {
	if def, ok := s.schema.Directives[name]; ok {
		return def
	}
	for _, def := range CompilerDirectives {
		if def.Name == name {
			return def
		}
	}
	return nil
}
