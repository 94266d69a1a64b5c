package forest

import (
	"iter"
	"slices"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/geometry"
)

// Forest is the set of support trees of one layer.
type Forest struct {
	roots []*Node
	arena arena
	live  int
}

// New returns an empty forest.
func New() *Forest { return &Forest{} }

func (f *Forest) newNode(p geometry.Point) *Node {
	n := f.arena.alloc()
	n.pos = p
	f.live++
	return n
}

// addRoot adds a root at p and returns it.
func (f *Forest) addRoot(p geometry.Point) *Node {
	n := f.newNode(p)
	f.roots = append(f.roots, n)
	return n
}

// addChild adds a child of parent at p and returns it. parent must belong
// to f.
func (f *Forest) addChild(parent *Node, p geometry.Point) *Node {
	n := f.newNode(p)
	parent.addChild(n)
	return n
}

// Roots returns a copy of the forest's roots in insertion order.
func (f *Forest) Roots() []*Node { return slices.Clone(f.roots) }

// Len returns the number of nodes in the forest.
func (f *Forest) Len() int {
	if f == nil {
		return 0
	}
	return f.live
}

// Empty reports whether the forest has no nodes.
func (f *Forest) Empty() bool { return f.Len() == 0 }

// Nodes iterates every node in pre-order: each root followed by its
// subtree, children in insertion order.
func (f *Forest) Nodes() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		if f == nil {
			return
		}
		stack := make([]*Node, 0, 64)
		for i := len(f.roots) - 1; i >= 0; i-- {
			stack = append(stack, f.roots[i])
		}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(n) {
				return
			}
			for i := len(n.children) - 1; i >= 0; i-- {
				stack = append(stack, n.children[i])
			}
		}
	}
}

// Clone returns a deep copy of f with fresh nodes in the same pre-order.
// Per-layer flags are cleared, so the copy describes nodes carried over
// from another layer.
func (f *Forest) Clone() *Forest {
	out := New()
	if f == nil {
		return out
	}
	copies := make(map[*Node]*Node, f.live)
	for n := range f.Nodes() {
		var c *Node
		if n.parent == nil {
			c = out.addRoot(n.pos)
		} else {
			c = out.addChild(copies[n.parent], n.pos)
		}
		c.sinceNeed = n.sinceNeed
		c.ground, c.grounded = n.ground, n.grounded
		copies[n] = c
	}
	return out
}

// Segments returns one segment per edge, from child to parent, in pre-order
// of the child.
func (f *Forest) Segments() [][2]geometry.Point {
	var out [][2]geometry.Point
	for n := range f.Nodes() {
		if n.parent != nil {
			out = append(out, [2]geometry.Point{n.pos, n.parent.pos})
		}
	}
	return out
}

// GroundingSegments returns, for every grounded root, the segment from the
// root to the outline point it rests on.
func (f *Forest) GroundingSegments() [][2]geometry.Point {
	var out [][2]geometry.Point
	if f == nil {
		return out
	}
	for _, r := range f.roots {
		if r.grounded && r.ground != r.pos {
			out = append(out, [2]geometry.Point{r.pos, r.ground})
		}
	}
	return out
}

// Length returns the total edge length of the forest in coordinate units.
func (f *Forest) Length() int64 {
	var l int64
	for _, s := range f.Segments() {
		l += s[0].Dist(s[1])
	}
	return l
}

// Bounds returns the bounding box of all node positions.
func (f *Forest) Bounds() geometry.Box {
	b := geometry.EmptyBox()
	for n := range f.Nodes() {
		b = b.Extend(n.pos)
	}
	return b
}

// recount recomputes subtree sizes and the live count.
func (f *Forest) recount() {
	f.live = 0
	var visit func(n *Node) int32
	visit = func(n *Node) int32 {
		n.size = 1
		for _, c := range n.children {
			n.size += visit(c)
		}
		f.live++
		return n.size
	}
	for _, r := range f.roots {
		visit(r)
	}
}
