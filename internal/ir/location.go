package ir

import (
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

// Location is a span in a source document. The zero value is a generated
// location which has no source.
type Location struct {
	Source string
	Start  int
	End    int
	Line   int
	Column int
}

var GeneratedLocation = Location{}

func LocationFromPosition(pos *ast.Position) Location {
	if pos == nil {
		return GeneratedLocation
	}
	loc := Location{
		Start:  pos.Start,
		End:    pos.End,
		Line:   pos.Line,
		Column: pos.Column,
	}
	if pos.Src != nil {
		loc.Source = pos.Src.Name
	}
	return loc
}

func (l Location) IsGenerated() bool {
	return l == GeneratedLocation
}

// Compare orders locations by source name, then by offset. Generated
// locations sort last.
func (l Location) Compare(other Location) int {
	switch {
	case l.IsGenerated() && other.IsGenerated():
		return 0
	case l.IsGenerated():
		return 1
	case other.IsGenerated():
		return -1
	}
	if c := strings.Compare(l.Source, other.Source); c != 0 {
		return c
	}
	if l.Start != other.Start {
		if l.Start < other.Start {
			return -1
		}
		return 1
	}
	if l.End != other.End {
		if l.End < other.End {
			return -1
		}
		return 1
	}
	return 0
}

func (l Location) String() string {
	if l.IsGenerated() {
		return "<generated>"
	}
	source := l.Source
	if source == "" {
		source = "input"
	}
	return fmt.Sprintf("%s:%d:%d", source, l.Line, l.Column)
}

// WithLocation attaches a source location to an item.
type WithLocation[T any] struct {
	Item     T
	Location Location
}

func At[T any](item T, loc Location) WithLocation[T] {
	return WithLocation[T]{Item: item, Location: loc}
}
