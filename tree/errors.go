package tree

import "github.com/teranos/sembrowse/errors"

// SkipChildren is returned by a Walk callback to skip the current node's
// subtree without stopping the walk.
var SkipChildren = errors.New("skip children")
