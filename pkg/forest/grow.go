package forest

import (
	"cmp"
	"slices"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/geometry"
)

// Config holds the growth parameters, all in coordinate units.
type Config struct {
	// SupportingRadius is how far a node supports the overhang around it.
	SupportingRadius int64
	// WallSupportingRadius is how far a root may sit from the interior
	// outline and still rest on the wall.
	WallSupportingRadius int64
	// PruneLength is how far a leaf may travel down without new need.
	PruneLength int64
	// StraighteningMaxDistance bounds how far straightening moves a node.
	StraighteningMaxDistance int64
	// TieTolerance is the distance difference under which two attachment
	// candidates count as equidistant.
	TieTolerance int64
	// MaxColinearSpan enables removal of chain nodes that lie on the segment
	// between their neighbours, when that segment is no longer than the span.
	// Zero disables removal.
	MaxColinearSpan int64
	// ColinearTolerance is how far off the segment a removable node may lie.
	ColinearTolerance int64
}

// LayerInput is the geometry of the layer being grown.
type LayerInput struct {
	Interior  geometry.Polygons
	Overhang  geometry.Region
	Thickness int64
}

// LayerStats counts what happened while growing one layer.
type LayerStats struct {
	Propagated int // nodes copied from the layer above
	Removed    int // propagated nodes outside the interior
	Rerooted   int // edges cut because they left the interior
	Covered    int // sample points already supported by a propagated node
	Attached   int // sample points attached as children
	NewRoots   int // sample points that started a new tree
	Dropped    int // sample points outside the interior
	Pruned     int // nodes removed by pruning
	Recovered  int // sample points re-covered after their node was pruned
	Moved      int // nodes moved by straightening
	Merged     int // colinear nodes removed
	Nodes      int // nodes in the finished forest
	Roots      int // roots in the finished forest
}

// Grow builds the forest of a layer from the finished forest of the layer
// above, which may be nil. above is not modified.
//
// An empty interior yields an empty forest. A layer without thickness only
// realigns the propagated trees.
func Grow(above *Forest, in LayerInput, cfg Config) (*Forest, LayerStats) {
	f := above.Clone()
	st := LayerStats{Propagated: f.Len()}
	if in.Interior.Empty() {
		st.Removed = f.Len()
		return New(), st
	}

	cell := cfg.SupportingRadius
	if cell <= 0 {
		cell = in.Overhang.Spacing()
	}
	g := &grower{
		f:        f,
		cfg:      cfg,
		interior: geometry.NewEdgeIndex(in.Interior, cell),
		st:       &st,
		claims:   make(map[*Node][]geometry.Point),
	}
	g.realign()
	if in.Thickness > 0 {
		covered := g.cover(g.order(in.Overhang))
		g.updateCounters(in.Thickness)
		g.prune()
		g.recover(covered)
		g.straighten()
		if cfg.MaxColinearSpan > 0 {
			g.mergeColinear()
		}
	}
	g.groundRoots()
	f.recount()
	st.Nodes, st.Roots = f.Len(), len(f.roots)
	return f, st
}

type grower struct {
	f        *Forest
	cfg      Config
	interior *geometry.EdgeIndex
	st       *LayerStats
	// claims maps a propagated node to the sample points it covers.
	claims map[*Node][]geometry.Point
}

// realign drops nodes outside the interior and cuts edges that cross its
// boundary. Children of dropped nodes and lower ends of cut edges become
// roots.
func (g *grower) realign() {
	roots := g.f.roots
	g.f.roots = nil
	var visit func(n, parent *Node)
	visit = func(n, parent *Node) {
		children := n.children
		n.children = nil
		n.parent = nil
		if !g.interior.Contains(n.pos) {
			n.dead = true
			g.st.Removed++
			for _, c := range children {
				visit(c, nil)
			}
			return
		}
		if parent != nil && g.interior.CrossesSegment(n.pos, parent.pos) {
			parent = nil
			g.st.Rerooted++
		}
		if parent == nil {
			g.f.roots = append(g.f.roots, n)
		} else {
			n.parent = parent
			parent.children = append(parent.children, n)
		}
		for _, c := range children {
			visit(c, n)
		}
	}
	for _, r := range roots {
		visit(r, nil)
	}
	g.f.recount()
}

type sample struct {
	p     geometry.Point
	dist2 int64
	hash  uint32
}

// order returns the overhang samples nearest to the interior outline first.
// A lattice hash breaks distance ties so equidistant rings are not walked in
// scanline order.
func (g *grower) order(r geometry.Region) []geometry.Point {
	pts := r.Points()
	s := max(r.Spacing(), 1)
	samples := make([]sample, len(pts))
	for i, p := range pts {
		_, d2, _ := g.interior.Closest(p)
		samples[i] = sample{p: p, dist2: d2, hash: latticeHash(p.X/s, p.Y/s)}
	}
	slices.SortFunc(samples, func(a, b sample) int {
		if c := cmp.Compare(a.dist2, b.dist2); c != 0 {
			return c
		}
		if c := cmp.Compare(a.hash, b.hash); c != 0 {
			return c
		}
		if c := cmp.Compare(a.p.Y, b.p.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.p.X, b.p.X)
	})
	for i := range samples {
		pts[i] = samples[i].p
	}
	return pts
}

func latticeHash(i, j int64) uint32 {
	h := uint64(i)*73856093 ^ uint64(j)*19349663
	return uint32(h % 191)
}

type coverage struct {
	p geometry.Point
	n *Node
}

// cover supports every sample point and returns the points found covered by
// a propagated node, with that node.
func (g *grower) cover(points []geometry.Point) []coverage {
	idx := newNodeIndex(g.f)
	var covered []coverage
	for _, p := range points {
		if !g.interior.Contains(p) {
			g.st.Dropped++
			continue
		}
		if n := g.coveredBy(idx, p); n != nil {
			covered = append(covered, coverage{p, n})
			g.st.Covered++
			continue
		}
		g.support(idx, p)
	}
	return covered
}

// coveredBy returns the nearest propagated node within the supporting
// radius of p, or nil.
func (g *grower) coveredBy(idx *nodeIndex, p geometry.Point) *Node {
	for _, c := range idx.within(p, g.cfg.SupportingRadius) {
		if !c.n.created {
			return c.n
		}
	}
	return nil
}

// support attaches a node at p to the best reachable node, or starts a new
// tree there.
func (g *grower) support(idx *nodeIndex, p geometry.Point) *Node {
	var n *Node
	if parent := g.attachTarget(idx, p); parent != nil {
		n = g.f.addChild(parent, p)
		parent.needed = true
		g.st.Attached++
	} else {
		n = g.f.addRoot(p)
		g.st.NewRoots++
	}
	n.created = true
	idx.insert(n)
	return n
}

// attachTarget picks the parent for a new node at p: the nearest node within
// the supporting radius whose edge to p stays inside the interior. Nodes
// within TieTolerance of the nearest distance are equidistant; among them the
// smallest subtree wins, then the oldest node.
func (g *grower) attachTarget(idx *nodeIndex, p geometry.Point) *Node {
	var (
		best     *Node
		bestDist int64
	)
	for _, c := range idx.within(p, g.cfg.SupportingRadius) {
		if g.interior.CrossesSegment(p, c.n.pos) {
			continue
		}
		d := geometry.ISqrt(c.dist2)
		if best == nil {
			best, bestDist = c.n, d
			continue
		}
		if d-bestDist > g.cfg.TieTolerance {
			break
		}
		if c.n.size < best.size || (c.n.size == best.size && c.n.seq < best.seq) {
			best = c.n
		}
	}
	return best
}

// updateCounters resets the counters of nodes created or extended on this
// layer and advances every other counter by the layer thickness.
func (g *grower) updateCounters(thickness int64) {
	for n := range g.f.Nodes() {
		if n.created || n.needed {
			n.sinceNeed = 0
		} else {
			n.sinceNeed += thickness
		}
	}
}

// prune removes leaves whose counter exceeds the prune length, and then any
// non-root ancestor left without children. A root emptied this way is kept
// only while its own counter is within the prune length.
func (g *grower) prune() {
	var starved []*Node
	for n := range g.f.Nodes() {
		if n.IsLeaf() && n.sinceNeed > g.cfg.PruneLength {
			starved = append(starved, n)
		}
	}
	if len(starved) == 0 {
		return
	}
	for _, n := range starved {
		parent := n.parent
		g.kill(n)
		for parent != nil && parent.parent != nil && parent.IsLeaf() {
			next := parent.parent
			g.kill(parent)
			parent = next
		}
		if parent != nil && !parent.dead && parent.IsRoot() && parent.IsLeaf() && parent.sinceNeed > g.cfg.PruneLength {
			g.kill(parent)
		}
	}
	g.f.roots = slices.DeleteFunc(g.f.roots, func(n *Node) bool { return n.dead })
	g.f.recount()
}

func (g *grower) kill(n *Node) {
	if n.parent != nil {
		n.parent.removeChild(n)
	}
	n.dead = true
	g.st.Pruned++
}

// recover supports again the covered points whose covering node was pruned,
// and records which node covers each covered point.
func (g *grower) recover(covered []coverage) {
	var lost []geometry.Point
	for _, c := range covered {
		if c.n.dead {
			lost = append(lost, c.p)
			continue
		}
		g.claims[c.n] = append(g.claims[c.n], c.p)
	}
	if len(lost) == 0 {
		return
	}
	idx := newNodeIndex(g.f)
	for _, p := range lost {
		if n := g.coveredBy(idx, p); n != nil {
			g.claims[n] = append(g.claims[n], p)
			continue
		}
		n := g.support(idx, p)
		n.sinceNeed = 0
		if n.parent != nil {
			n.parent.sinceNeed = 0
		}
		g.st.Recovered++
	}
}

// groundRoots records, for every root, the nearest interior outline point
// when it lies within the wall supporting radius.
func (g *grower) groundRoots() {
	r2 := g.cfg.WallSupportingRadius * g.cfg.WallSupportingRadius
	for _, r := range g.f.roots {
		q, d2, ok := g.interior.Closest(r.pos)
		r.ground, r.grounded = q, ok && d2 <= r2
		if !r.grounded {
			r.ground = geometry.Point{}
		}
	}
}
