package transforms

import (
	"github.com/vvakame/gqlir/internal/ir"
	"go.uber.org/atomic"
)

// SelectionMap records the selections already fetched in a scope and, for
// composite selections, what is fetched beneath them.
//
// Fork is O(1): both maps share one backing until either is written to, at
// which point the writer copies the backing. Nested maps are forked by that
// copy rather than duplicated, so each level is copied only when written.
type SelectionMap struct {
	backing *selectionMapBacking
}

type selectionMapBacking struct {
	owners  atomic.Int32
	entries map[ir.NodeIdentifier]*SelectionMap
}

func newSelectionMapBacking(entries map[ir.NodeIdentifier]*SelectionMap) *selectionMapBacking {
	b := &selectionMapBacking{entries: entries}
	b.owners.Store(1)
	return b
}

func NewSelectionMap() *SelectionMap {
	return &SelectionMap{backing: newSelectionMapBacking(make(map[ir.NodeIdentifier]*SelectionMap))}
}

// Fork returns a map with the same content. Writes to either map are not
// visible to the other.
func (m *SelectionMap) Fork() *SelectionMap {
	m.backing.owners.Inc()
	return &SelectionMap{backing: m.backing}
}

func (m *SelectionMap) IsEmpty() bool {
	return len(m.backing.entries) == 0
}

func (m *SelectionMap) Len() int {
	return len(m.backing.entries)
}

func (m *SelectionMap) Contains(id ir.NodeIdentifier) bool {
	_, ok := m.backing.entries[id]
	return ok
}

// Get returns the nested map registered for id for reading only.
func (m *SelectionMap) Get(id ir.NodeIdentifier) (*SelectionMap, bool) {
	nested, ok := m.backing.entries[id]
	return nested, ok
}

// GetMut returns the nested map registered for id. The nested map may be
// written to without affecting forks of m.
func (m *SelectionMap) GetMut(id ir.NodeIdentifier) (*SelectionMap, bool) {
	if _, ok := m.backing.entries[id]; !ok {
		return nil, false
	}
	m.makeUnique()
	nested := m.backing.entries[id]
	return nested, true
}

// Insert registers id with an optional nested map, which m takes over.
func (m *SelectionMap) Insert(id ir.NodeIdentifier, nested *SelectionMap) {
	m.makeUnique()
	m.backing.entries[id] = nested
}

// adopt replaces the content of m with that of other.
func (m *SelectionMap) adopt(other *SelectionMap) {
	old := m.backing
	other.backing.owners.Inc()
	m.backing = other.backing
	old.release()
}

// release drops m's claim on its backing. m must not be used afterwards.
func (m *SelectionMap) release() {
	m.backing.release()
}

func (b *selectionMapBacking) release() {
	if b.owners.Dec() > 0 {
		return
	}
	for _, nested := range b.entries {
		if nested != nil {
			nested.release()
		}
	}
}

func (m *SelectionMap) makeUnique() {
	if m.backing.owners.Load() == 1 {
		return
	}

	old := m.backing
	entries := make(map[ir.NodeIdentifier]*SelectionMap, len(old.entries)+1)
	for id, nested := range old.entries {
		if nested != nil {
			nested = nested.Fork()
		}
		entries[id] = nested
	}
	m.backing = newSelectionMapBacking(entries)
	old.owners.Dec()
}
