// Package tree provides a namespace trie keyed by dot-delimited path segments.
//
// A Node owns its children directly; there are no parent pointers or shared
// nodes. Children are kept in byte-wise ascending order of their segment name,
// so every traversal is deterministic regardless of insertion order.
//
// The trie is built once through Insert/Ensure and then handed to readers.
// Nothing in this package locks: concurrent reads are safe only after the
// last insertion.
package tree

import (
	"slices"
	"strings"
)

// RootName is the segment name given to the root node.
const RootName = "root"

// Separator splits a dotted name into path segments.
const Separator = "."

// Node is a single path segment in the trie.
type Node[T any] struct {
	// Name is the path segment this node represents.
	Name string
	// Path is the cumulative dotted path from the root ("" for the root).
	Path string

	value    T
	hasValue bool

	children map[string]*Node[T]
	order    []string // child names, ascending
}

// New returns an empty root node.
func New[T any]() *Node[T] {
	return &Node[T]{Name: RootName}
}

func newChild[T any](parentPath, name string) *Node[T] {
	path := name
	if parentPath != "" {
		path = parentPath + Separator + name
	}
	return &Node[T]{Name: name, Path: path}
}

// Value returns the payload attached to this exact path, if any.
func (n *Node[T]) Value() (T, bool) {
	return n.value, n.hasValue
}

// HasValue reports whether this path was explicitly inserted with a value.
func (n *Node[T]) HasValue() bool {
	return n.hasValue
}

// Insert attaches value at path, creating valueless intermediate nodes as
// needed. A prior value at path is overwritten; existing children are kept.
// The empty path addresses the root. There is no way to clear a value once
// set: a node that should stay valueless is created with Ensure, which never
// disturbs a value already present.
func (n *Node[T]) Insert(path string, value T) *Node[T] {
	node := n.Ensure(path)
	node.value = value
	node.hasValue = true
	return node
}

// Ensure returns the node at path, creating it and any missing ancestors
// without a value. The value of an existing node is left untouched.
func (n *Node[T]) Ensure(path string) *Node[T] {
	if path == "" {
		return n
	}
	current := n
	for _, segment := range strings.Split(path, Separator) {
		current = current.child(segment)
	}
	return current
}

func (n *Node[T]) child(name string) *Node[T] {
	if existing, ok := n.children[name]; ok {
		return existing
	}
	if n.children == nil {
		n.children = make(map[string]*Node[T])
	}
	created := newChild[T](n.Path, name)
	n.children[name] = created
	idx, _ := slices.BinarySearch(n.order, name)
	n.order = slices.Insert(n.order, idx, name)
	return created
}

// Lookup walks path from n without creating nodes. The empty path returns n
// itself. A missing segment yields (nil, false); that is the "not found"
// result, not an error.
func (n *Node[T]) Lookup(path string) (*Node[T], bool) {
	if path == "" {
		return n, true
	}
	current := n
	for _, segment := range strings.Split(path, Separator) {
		next, ok := current.children[segment]
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// Children returns the direct children in ascending segment order.
// The returned slice is a fresh copy; the nodes are shared.
func (n *Node[T]) Children() []*Node[T] {
	out := make([]*Node[T], 0, len(n.order))
	for _, name := range n.order {
		out = append(out, n.children[name])
	}
	return out
}

// ChildNames returns the direct child segment names in ascending order.
func (n *Node[T]) ChildNames() []string {
	return slices.Clone(n.order)
}

// Len returns the number of direct children.
func (n *Node[T]) Len() int {
	return len(n.order)
}

// IsLeaf reports whether n has no children.
func (n *Node[T]) IsLeaf() bool {
	return len(n.order) == 0
}

// HasGrandchild reports whether any direct child has children of its own.
func (n *Node[T]) HasGrandchild() bool {
	for _, c := range n.children {
		if len(c.order) > 0 {
			return true
		}
	}
	return false
}

// Walk visits n and then every descendant depth-first, children in ascending
// order. Returning SkipChildren from fn skips the node's subtree; any other
// error stops the walk and is returned.
func (n *Node[T]) Walk(fn func(node *Node[T], depth int) error) error {
	err := n.walk(fn, 0)
	if err == SkipChildren {
		return nil
	}
	return err
}

func (n *Node[T]) walk(fn func(node *Node[T], depth int) error, depth int) error {
	if err := fn(n, depth); err != nil {
		return err
	}
	for _, name := range n.order {
		err := n.children[name].walk(fn, depth+1)
		if err == SkipChildren {
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of nodes below n that carry a value.
func (n *Node[T]) Count() int {
	total := 0
	for _, c := range n.children {
		if c.hasValue {
			total++
		}
		total += c.Count()
	}
	return total
}
