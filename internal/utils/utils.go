package utils

import (
	"sort"

	"github.com/vektah/gqlparser/v2/ast"
)

func IsAbstractType(def *ast.Definition) bool {
	switch def.Kind {
	case ast.Interface, ast.Union:
		return true
	default:
		return false
	}
}

func IsCompositeType(def *ast.Definition) bool {
	switch def.Kind {
	case ast.Object, ast.Interface, ast.Union:
		return true
	default:
		return false
	}
}

// PossibleObjectTypes returns the concrete object types of def sorted by name.
// An object type is its own single possible type.
func PossibleObjectTypes(schema *ast.Schema, def *ast.Definition) []*ast.Definition {
	if def.Kind == ast.Object {
		return []*ast.Definition{def}
	}
	if !IsAbstractType(def) {
		return nil
	}

	var result []*ast.Definition
	for _, possible := range schema.GetPossibleTypes(def) {
		if possible.Kind == ast.Object {
			result = append(result, possible)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// SameTypeWrapping reports whether a and b have the same list / non-null
// structure, ignoring the named type at the bottom.
func SameTypeWrapping(a, b *ast.Type) bool {
	for {
		if a.NonNull != b.NonNull {
			return false
		}
		if (a.Elem == nil) != (b.Elem == nil) {
			return false
		}
		if a.Elem == nil {
			return true
		}
		a, b = a.Elem, b.Elem
	}
}

// SameType reports whether a and b are the exact same type reference.
func SameType(a, b *ast.Type) bool {
	return SameTypeWrapping(a, b) && a.Name() == b.Name()
}
