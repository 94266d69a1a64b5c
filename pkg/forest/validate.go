package forest

import (
	"errors"
	"fmt"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/geometry"
)

// Structural errors reported by Validate and Restore.
var (
	ErrCycle           = errors.New("forest: parent links form a cycle")
	ErrBrokenLink      = errors.New("forest: parent and child links disagree")
	ErrCount           = errors.New("forest: node count mismatch")
	ErrOutsideInterior = errors.New("forest: node outside the interior")
	ErrCrossesBoundary = errors.New("forest: edge crosses the interior boundary")
	ErrBadParent       = errors.New("forest: parent does not precede child")
)

// Validate checks the structure of the forest: every parent link terminates
// at a root within the number of nodes, parent and child links agree, and
// the live count is accurate. When interior is not empty it also checks
// that every node lies inside it and that no edge crosses its boundary.
func (f *Forest) Validate(interior geometry.Polygons) error {
	seen := 0
	for _, r := range f.roots {
		if r.parent != nil {
			return fmt.Errorf("%w: root at %v has a parent", ErrBrokenLink, r.pos)
		}
	}
	for n := range f.Nodes() {
		seen++
		if seen > f.live {
			return fmt.Errorf("%w: more than %d nodes reachable", ErrCount, f.live)
		}
		if n.dead {
			return fmt.Errorf("%w: pruned node at %v still linked", ErrBrokenLink, n.pos)
		}
		steps := 0
		for p := n.parent; p != nil; p = p.parent {
			if steps++; steps > f.live {
				return fmt.Errorf("%w: from node at %v", ErrCycle, n.pos)
			}
		}
		for _, c := range n.children {
			if c.parent != n {
				return fmt.Errorf("%w: child at %v", ErrBrokenLink, c.pos)
			}
		}
	}
	if seen != f.live {
		return fmt.Errorf("%w: %d reachable, %d counted", ErrCount, seen, f.live)
	}
	if interior.Empty() {
		return nil
	}
	idx := geometry.NewEdgeIndex(interior, 0)
	for n := range f.Nodes() {
		if !idx.Contains(n.pos) {
			return fmt.Errorf("%w: %v", ErrOutsideInterior, n.pos)
		}
		if n.parent != nil && idx.CrossesSegment(n.pos, n.parent.pos) {
			return fmt.Errorf("%w: %v to %v", ErrCrossesBoundary, n.pos, n.parent.pos)
		}
	}
	return nil
}
