// Package schema exposes the narrow schema capability consumed by the IR and its passes.
//
// Every lookup the compiler core needs goes through the Schema interface:
// resolving field ids to their definition, type names to types, and abstract
// types to their concrete members. SDLSchema implements it on top of a
// gqlparser schema.
package schema

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
)

type Kind uint8

const (
	KindScalar Kind = iota + 1
	KindEnum
	KindObject
	KindInterface
	KindUnion
	KindInputObject
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "SCALAR"
	case KindEnum:
		return "ENUM"
	case KindObject:
		return "OBJECT"
	case KindInterface:
		return "INTERFACE"
	case KindUnion:
		return "UNION"
	case KindInputObject:
		return "INPUT_OBJECT"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Type identifies a named type of a schema. It is comparable and cheap to copy.
type Type struct {
	Kind  Kind
	Index uint32
}

func (t Type) IsObject() bool    { return t.Kind == KindObject }
func (t Type) IsInterface() bool { return t.Kind == KindInterface }
func (t Type) IsUnion() bool     { return t.Kind == KindUnion }
func (t Type) IsAbstract() bool  { return t.Kind == KindInterface || t.Kind == KindUnion }

func (t Type) IsComposite() bool {
	return t.Kind == KindObject || t.Kind == KindInterface || t.Kind == KindUnion
}

// FieldID identifies a field of a specific parent type. Interface fields and
// the fields implementing them have different ids.
type FieldID uint32

// Field is the resolved definition of a FieldID.
type Field struct {
	ID         FieldID
	Name       string
	Type       *ast.Type
	Arguments  ast.ArgumentDefinitionList
	ParentType Type
	Directives ast.DirectiveList
}

type OperationKind string

const (
	Query        OperationKind = "query"
	Mutation     OperationKind = "mutation"
	Subscription OperationKind = "subscription"
)

type Schema interface {
	Field(id FieldID) *Field
	NamedField(parent Type, name string) (FieldID, bool)

	GetType(name string) (Type, bool)
	GetTypeName(typ Type) string

	ImplementingObjects(iface Type) []Type
	UnionMembers(union Type) []Type
	// PossibleTypes returns the concrete object types typ may be at runtime.
	PossibleTypes(typ Type) []Type

	RootType(kind OperationKind) (Type, bool)

	// DirectiveDefinition finds a directive of the schema or one of
	// CompilerDirectives. It returns nil for unknown directives.
	DirectiveDefinition(name string) *ast.DirectiveDefinition
}
