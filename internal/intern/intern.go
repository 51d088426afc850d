// Package intern provides the process-wide string pool used for names in the IR.
//
// Interned keys compare in constant time and are safe to use as map keys from
// any goroutine. The pool is append-only.
package intern

import "unique"

// StringKey is an interned string.
type StringKey struct {
	h unique.Handle[string]
}

// Intern returns the key for s, adding it to the pool on first use.
func Intern(s string) StringKey {
	return StringKey{h: unique.Make(s)}
}

// Lookup returns the interned string. The zero key yields "".
func (k StringKey) Lookup() string {
	if k.IsEmpty() {
		return ""
	}
	return k.h.Value()
}

func (k StringKey) String() string {
	return k.Lookup()
}

// IsEmpty reports whether k is the zero key.
func (k StringKey) IsEmpty() bool {
	return k == StringKey{}
}

// Less orders keys by their string value.
func (k StringKey) Less(other StringKey) bool {
	return k.Lookup() < other.Lookup()
}

func (k StringKey) MarshalText() ([]byte, error) {
	return []byte(k.Lookup()), nil
}

// Well known names. Initialized once at package init, never mutated.
var (
	Include             = Intern("include")
	Skip                = Intern("skip")
	If                  = Intern("if")
	Stream              = Intern("stream")
	Defer               = Intern("defer")
	Arguments           = Intern("arguments")
	ArgumentDefinitions = Intern("argumentDefinitions")
	Typename            = Intern("__typename")
	Label               = Intern("label")
	InitialCount        = Intern("initialCount")
)
