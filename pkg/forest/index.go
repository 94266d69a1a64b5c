package forest

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/spatial/kdtree"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/geometry"
)

// loc is a k-d tree entry. Query points carry a nil node.
type loc struct {
	p geometry.Point
	n *Node
}

func (l loc) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(loc)
	if d == 0 {
		return float64(l.p.X - q.p.X)
	}
	return float64(l.p.Y - q.p.Y)
}

func (l loc) Dims() int { return 2 }

func (l loc) Distance(c kdtree.Comparable) float64 {
	q := c.(loc)
	dx, dy := float64(l.p.X-q.p.X), float64(l.p.Y-q.p.Y)
	return dx*dx + dy*dy
}

type locs []loc

func (p locs) Index(i int) kdtree.Comparable         { return p[i] }
func (p locs) Len() int                              { return len(p) }
func (p locs) Pivot(d kdtree.Dim) int                { return plane{locs: p, Dim: d}.Pivot() }
func (p locs) Slice(start, end int) kdtree.Interface { return p[start:end] }

type plane struct {
	kdtree.Dim
	locs
}

func (p plane) Less(i, j int) bool {
	if p.Dim == 0 {
		return p.locs[i].p.X < p.locs[j].p.X
	}
	return p.locs[i].p.Y < p.locs[j].p.Y
}
func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.locs = p.locs[start:end]
	return p
}
func (p plane) Swap(i, j int) { p.locs[i], p.locs[j] = p.locs[j], p.locs[i] }

// nodeIndex answers radius queries over the nodes of one forest during one
// growth pass. It is not safe for concurrent use.
type nodeIndex struct {
	tree *kdtree.Tree
}

// newNodeIndex builds a balanced index over every node of f.
func newNodeIndex(f *Forest) *nodeIndex {
	pts := make(locs, 0, f.Len())
	for n := range f.Nodes() {
		pts = append(pts, loc{p: n.pos, n: n})
	}
	if len(pts) == 0 {
		return &nodeIndex{tree: &kdtree.Tree{}}
	}
	return &nodeIndex{tree: kdtree.New(pts, false)}
}

func (idx *nodeIndex) insert(n *Node) {
	idx.tree.Insert(loc{p: n.pos, n: n}, false)
}

type candidate struct {
	n     *Node
	dist2 int64
}

// within returns the live nodes no farther than r from p, nearest first,
// ties in creation order.
func (idx *nodeIndex) within(p geometry.Point, r int64) []candidate {
	if idx.tree.Root == nil || r < 0 {
		return nil
	}
	r2 := r * r
	// Pad the float radius so rounding never loses a node the exact test keeps.
	keep := kdtree.NewDistKeeper(float64(r2)*(1+1e-9) + 16)
	idx.tree.NearestSet(keep, loc{p: p})

	var out []candidate
	for _, c := range keep.Heap {
		if c.Comparable == nil {
			continue
		}
		n := c.Comparable.(loc).n
		if n.dead {
			continue
		}
		if d2 := p.Dist2(n.pos); d2 <= r2 {
			out = append(out, candidate{n, d2})
		}
	}
	slices.SortFunc(out, func(a, b candidate) int {
		if c := cmp.Compare(a.dist2, b.dist2); c != 0 {
			return c
		}
		return cmp.Compare(a.n.seq, b.n.seq)
	})
	return out
}
