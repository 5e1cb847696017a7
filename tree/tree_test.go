package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func childNames[T any](n *Node[T]) []string {
	var names []string
	for _, c := range n.Children() {
		names = append(names, c.Name)
	}
	return names
}

func TestNew(t *testing.T) {
	root := New[int]()

	assert.Equal(t, RootName, root.Name)
	assert.Equal(t, "", root.Path)
	assert.False(t, root.HasValue())
	assert.True(t, root.IsLeaf())
}

func TestInsertAndLookup(t *testing.T) {
	root := New[string]()
	root.Insert("aws.s3.bucket", "abc")
	root.Insert("aws.s3.key", "xyz")
	root.Insert("aws.region", "us-east-1")

	tests := []struct {
		path string
		want string
	}{
		{"aws.s3.bucket", "abc"},
		{"aws.s3.key", "xyz"},
		{"aws.region", "us-east-1"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			node, ok := root.Lookup(tt.path)
			require.True(t, ok)
			got, has := node.Value()
			require.True(t, has)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.path, node.Path)
		})
	}

	_, ok := root.Lookup("aws.s3.nonexistent")
	assert.False(t, ok)
}

func TestIntermediateNodes(t *testing.T) {
	root := New[int]()
	root.Insert("a.b.c", 1)

	for _, path := range []string{"a", "a.b"} {
		node, ok := root.Lookup(path)
		require.True(t, ok, path)
		assert.False(t, node.HasValue(), path)
		assert.False(t, node.IsLeaf(), path)
	}

	leaf, ok := root.Lookup("a.b.c")
	require.True(t, ok)
	v, has := leaf.Value()
	assert.True(t, has)
	assert.Equal(t, 1, v)
	assert.Equal(t, "a.b.c", leaf.Path)
	assert.Equal(t, "c", leaf.Name)
}

func TestLookupEmptyPathReturnsRoot(t *testing.T) {
	root := New[int]()
	root.Insert("x", 1)

	node, ok := root.Lookup("")
	require.True(t, ok)
	assert.Same(t, root, node)
	assert.Empty(t, node.Path)
}

func TestLookupMisses(t *testing.T) {
	root := New[int]()
	root.Insert("a.b", 1)

	for _, path := range []string{"z", "a.c", "a.b.c", "a.b.c.d", "a."} {
		node, ok := root.Lookup(path)
		assert.False(t, ok, path)
		assert.Nil(t, node, path)
	}

	// Lookup never creates nodes.
	assert.Equal(t, []string{"a"}, root.ChildNames())
}

func TestChildrenOrdered(t *testing.T) {
	root := New[int]()
	for i, name := range []string{"zeta", "Alpha", "beta", "alpha", "_x", "b", "10", "9"} {
		root.Insert("ns."+name, i)
	}

	ns, ok := root.Lookup("ns")
	require.True(t, ok)
	// Byte-wise ordering: digits < upper case < underscore < lower case.
	assert.Equal(t, []string{"10", "9", "Alpha", "_x", "alpha", "b", "beta", "zeta"}, childNames(ns))
	assert.Equal(t, childNames(ns), ns.ChildNames())
	assert.Equal(t, 8, ns.Len())
}

func TestReinsertOverwritesValueOnly(t *testing.T) {
	root := New[string]()
	root.Insert("a.b", "old")
	root.Insert("a.b.c", "child")
	root.Insert("a.d", "sibling")

	root.Insert("a.b", "new")

	b, _ := root.Lookup("a.b")
	v, _ := b.Value()
	assert.Equal(t, "new", v)
	assert.Equal(t, []string{"c"}, b.ChildNames())

	d, ok := root.Lookup("a.d")
	require.True(t, ok)
	sibling, _ := d.Value()
	assert.Equal(t, "sibling", sibling)
}

func TestNoCrossContamination(t *testing.T) {
	root := New[int]()
	names := []string{"http.method", "http.status_code", "http", "db.system", "db.system.name"}
	for i, name := range names {
		root.Insert(name, i)
	}
	for i, name := range names {
		node, ok := root.Lookup(name)
		require.True(t, ok, name)
		v, has := node.Value()
		require.True(t, has, name)
		assert.Equal(t, i, v, name)
	}
}

func TestEnsureKeepsValue(t *testing.T) {
	root := New[int]()
	root.Insert("a.b", 5)

	node := root.Ensure("a.b")
	v, has := node.Value()
	assert.True(t, has)
	assert.Equal(t, 5, v)

	created := root.Ensure("x.y")
	assert.False(t, created.HasValue())
	assert.Equal(t, "x.y", created.Path)
}

func TestInsertEmptyPathSetsRoot(t *testing.T) {
	root := New[int]()
	root.Insert("", 42)

	v, has := root.Value()
	assert.True(t, has)
	assert.Equal(t, 42, v)
	assert.True(t, root.IsLeaf())
}

func TestHasGrandchild(t *testing.T) {
	root := New[int]()
	root.Insert("aws.region", 1)
	assert.True(t, root.HasGrandchild())

	aws, _ := root.Lookup("aws")
	assert.False(t, aws.HasGrandchild())
}

func TestWalk(t *testing.T) {
	root := New[int]()
	root.Insert("b.y", 1)
	root.Insert("a", 2)
	root.Insert("b.x", 3)

	var visited []string
	var depths []int
	err := root.Walk(func(n *Node[int], depth int) error {
		visited = append(visited, n.Path)
		depths = append(depths, depth)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"", "a", "b", "b.x", "b.y"}, visited)
	assert.Equal(t, []int{0, 1, 1, 2, 2}, depths)

	t.Run("skip children", func(t *testing.T) {
		var paths []string
		err := root.Walk(func(n *Node[int], _ int) error {
			paths = append(paths, n.Path)
			if n.Path == "b" {
				return SkipChildren
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"", "a", "b"}, paths)
	})
}

func TestCount(t *testing.T) {
	root := New[int]()
	root.Insert("a.b.c", 1)
	root.Insert("a.b", 2)
	root.Insert("d", 3)

	assert.Equal(t, 3, root.Count())
}
