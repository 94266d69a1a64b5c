package forest

import "github.com/simar1998/OrcaSlicer-C3PD/pkg/geometry"

// Node is a point of a support tree.
type Node struct {
	pos       geometry.Point
	parent    *Node
	children  []*Node
	sinceNeed int64
	ground    geometry.Point
	grounded  bool
	seq       int32 // allocation order within the forest
	size      int32 // nodes in the subtree, including this one
	created   bool  // created on this layer
	needed    bool  // received a child on this layer
	dead      bool
}

// Position returns the location of the node.
func (n *Node) Position() geometry.Point { return n.pos }

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the node's children in insertion order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

func (n *Node) IsRoot() bool { return n.parent == nil }
func (n *Node) IsLeaf() bool { return len(n.children) == 0 }

// Depth returns the number of edges between the node and its root.
func (n *Node) Depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// SubtreeSize returns the number of nodes in the subtree rooted at n.
func (n *Node) SubtreeSize() int { return int(n.size) }

// SinceNeed returns the downward distance travelled since the node last
// received a child or was created.
func (n *Node) SinceNeed() int64 { return n.sinceNeed }

// Ground returns the interior outline point a root rests on, when one lies
// within the wall supporting radius.
func (n *Node) Ground() (geometry.Point, bool) { return n.ground, n.grounded }

// Created reports whether the node was created on its forest's layer.
func (n *Node) Created() bool { return n.created }

// Seq returns the allocation order of the node within its forest.
func (n *Node) Seq() int { return int(n.seq) }

func (n *Node) addChild(c *Node) {
	c.parent = n
	n.children = append(n.children, c)
	for a := n; a != nil; a = a.parent {
		a.size += c.size
	}
}

func (n *Node) removeChild(c *Node) {
	for i, x := range n.children {
		if x == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			break
		}
	}
	c.parent = nil
}

// arenaChunk is the number of nodes allocated at a time. Chunks are never
// grown in place, so node pointers stay valid for the life of the forest.
const arenaChunk = 256

type arena struct {
	chunks [][]Node
	n      int
}

func (a *arena) alloc() *Node {
	if len(a.chunks) == 0 || len(a.chunks[len(a.chunks)-1]) == arenaChunk {
		a.chunks = append(a.chunks, make([]Node, 0, arenaChunk))
	}
	last := &a.chunks[len(a.chunks)-1]
	*last = append(*last, Node{seq: int32(a.n), size: 1})
	a.n++
	return &(*last)[len(*last)-1]
}
