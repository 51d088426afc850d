package ir

type transformedKind uint8

const (
	keepKind transformedKind = iota
	replaceKind
	deleteKind
)

// Transformed is the outcome of transforming one node: Keep, Replace or
// Delete. The zero value is Keep.
type Transformed[T any] struct {
	kind  transformedKind
	value T
}

// Keep reports no change. The caller reuses the original node.
func Keep[T any]() Transformed[T] {
	return Transformed[T]{kind: keepKind}
}

// Replace substitutes v for the original node.
func Replace[T any](v T) Transformed[T] {
	return Transformed[T]{kind: replaceKind, value: v}
}

// Delete removes the node from its containing list.
func Delete[T any]() Transformed[T] {
	return Transformed[T]{kind: deleteKind}
}

func (t Transformed[T]) IsKeep() bool    { return t.kind == keepKind }
func (t Transformed[T]) IsReplace() bool { return t.kind == replaceKind }
func (t Transformed[T]) IsDelete() bool  { return t.kind == deleteKind }

// Value returns the replacement. It is the zero value unless IsReplace.
func (t Transformed[T]) Value() T {
	return t.value
}

// Or returns the replacement, or original when the result is Keep.
func (t Transformed[T]) Or(original T) T {
	if t.kind == replaceKind {
		return t.value
	}
	return original
}

// TransformedValue is the outcome for nodes that cannot be deleted.
type TransformedValue[T any] struct {
	changed bool
	value   T
}

func KeepValue[T any]() TransformedValue[T] {
	return TransformedValue[T]{}
}

func ReplaceValue[T any](v T) TransformedValue[T] {
	return TransformedValue[T]{changed: true, value: v}
}

func (t TransformedValue[T]) IsKeep() bool { return !t.changed }

func (t TransformedValue[T]) Or(original T) T {
	if t.changed {
		return t.value
	}
	return original
}

// TransformList applies f to every item. The result is Keep when every item
// is kept; otherwise it is a new list where deleted items are dropped and
// replaced items substituted. The output is allocated at the first change.
func TransformList[T any](items []T, f func(T) Transformed[T]) Transformed[[]T] {
	var result []T
	changed := false
	for i, item := range items {
		t := f(item)
		if t.IsKeep() {
			if changed {
				result = append(result, item)
			}
			continue
		}
		if !changed {
			changed = true
			result = make([]T, 0, len(items))
			result = append(result, items[:i]...)
		}
		if t.IsReplace() {
			result = append(result, t.Value())
		}
	}
	if !changed {
		return Keep[[]T]()
	}
	return Replace(result)
}
