// Package ir defines the selection-tree intermediate representation of GraphQL
// documents and the machinery to rewrite it.
//
// IR nodes are immutable and shared: a node may be referenced by several
// parents, and by several Programs produced by successive passes. A change is
// always made by copying the node and replacing the reference in a new parent
// (copy-on-write), never by editing a node in place. Because unchanged
// subtrees are reused as-is, pointer identity is a sound cache key within one
// Program snapshot.
//
// Transformer walks a Program with per-kind hooks and rebuilds only the spine
// above changed nodes.
package ir
