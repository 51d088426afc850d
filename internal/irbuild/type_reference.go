package irbuild

import (
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

// parseTypeReference parses a type reference such as "[ID!]!".
func parseTypeReference(s string) (*ast.Type, error) {
	typ, rest, err := parseTypeReferencePrefix(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	if rest != "" {
		return nil, fmt.Errorf("unexpected %q in type %q", rest, s)
	}
	return typ, nil
}

func parseTypeReferencePrefix(s string) (*ast.Type, string, error) {
	var typ *ast.Type
	switch {
	case strings.HasPrefix(s, "["):
		elem, rest, err := parseTypeReferencePrefix(strings.TrimSpace(s[1:]))
		if err != nil {
			return nil, "", err
		}
		rest = strings.TrimSpace(rest)
		if !strings.HasPrefix(rest, "]") {
			return nil, "", fmt.Errorf("missing ] in type %q", s)
		}
		typ = ast.ListType(elem, nil)
		s = strings.TrimSpace(rest[1:])
	default:
		end := 0
		for end < len(s) && isNameChar(s[end], end == 0) {
			end++
		}
		if end == 0 {
			return nil, "", fmt.Errorf("expected a type name in %q", s)
		}
		typ = ast.NamedType(s[:end], nil)
		s = strings.TrimSpace(s[end:])
	}
	if strings.HasPrefix(s, "!") {
		typ.NonNull = true
		s = strings.TrimSpace(s[1:])
	}
	return typ, s, nil
}

func isNameChar(c byte, first bool) bool {
	switch {
	case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		return true
	case '0' <= c && c <= '9':
		return !first
	default:
		return false
	}
}
