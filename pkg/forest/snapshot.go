package forest

import (
	"fmt"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/geometry"
)

// NodeData is the plain-data form of a node.
type NodeData struct {
	ID        int // pre-order index
	Parent    int // pre-order index of the parent, -1 for roots
	Pos       geometry.Point
	SinceNeed int64
	Ground    *geometry.Point // outline point a grounded root rests on
}

// Snapshot is a plain-data copy of a forest, nodes in pre-order.
type Snapshot struct {
	Nodes []NodeData
}

// Snapshot returns a plain-data copy of f. Snapshots of structurally equal
// forests are equal.
func (f *Forest) Snapshot() Snapshot {
	s := Snapshot{Nodes: make([]NodeData, 0, f.Len())}
	ids := make(map[*Node]int, f.Len())
	for n := range f.Nodes() {
		d := NodeData{ID: len(s.Nodes), Parent: -1, Pos: n.pos, SinceNeed: n.sinceNeed}
		if n.parent != nil {
			d.Parent = ids[n.parent]
		}
		if n.grounded {
			g := n.ground
			d.Ground = &g
		}
		ids[n] = d.ID
		s.Nodes = append(s.Nodes, d)
	}
	return s
}

// Roots returns the number of roots in the snapshot.
func (s Snapshot) Roots() int {
	n := 0
	for _, d := range s.Nodes {
		if d.Parent < 0 {
			n++
		}
	}
	return n
}

// Restore rebuilds a forest from a snapshot. Every parent must precede its
// children.
func Restore(s Snapshot) (*Forest, error) {
	f := New()
	nodes := make([]*Node, len(s.Nodes))
	for i, d := range s.Nodes {
		var n *Node
		switch {
		case d.Parent < 0:
			n = f.addRoot(d.Pos)
		case d.Parent < i:
			n = f.addChild(nodes[d.Parent], d.Pos)
		default:
			return nil, fmt.Errorf("%w: node %d has parent %d", ErrBadParent, i, d.Parent)
		}
		n.sinceNeed = d.SinceNeed
		if d.Ground != nil {
			n.ground, n.grounded = *d.Ground, true
		}
		nodes[i] = n
	}
	return f, nil
}
