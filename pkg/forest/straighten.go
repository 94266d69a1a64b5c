package forest

import "github.com/simar1998/OrcaSlicer-C3PD/pkg/geometry"

// chainNode reports whether n is an inner node of a chain: a non-root with a
// single child that was carried over from the layer above. Roots, branching
// nodes and nodes created on this layer anchor the chains between them.
func chainNode(n *Node) bool {
	return n.parent != nil && len(n.children) == 1 && !n.created
}

// straighten pulls every chain toward the chord between its ends.
func (g *grower) straighten() {
	if g.cfg.StraighteningMaxDistance <= 0 {
		return
	}
	for n := range g.f.Nodes() {
		if chainNode(n) {
			continue
		}
		for _, c := range n.children {
			var chain []*Node
			end := c
			for chainNode(end) {
				chain = append(chain, end)
				end = end.children[0]
			}
			if len(chain) > 0 {
				g.straightenChain(n, chain, end)
			}
		}
	}
}

// straightenChain moves each inner node toward the point of the chord a→b at
// the same fraction of the chain's arc length. A move is clamped to the
// straightening distance and kept only while the node and its edges stay
// inside the interior and it still reaches every point it covers.
func (g *grower) straightenChain(a *Node, chain []*Node, b *Node) {
	cum := make([]int64, len(chain))
	var total int64
	prev := a.pos
	for i, n := range chain {
		total += prev.Dist(n.pos)
		cum[i] = total
		prev = n.pos
	}
	total += prev.Dist(b.pos)
	if total == 0 {
		return
	}

	prev = a.pos
	for i, n := range chain {
		to := clampMove(n.pos, geometry.Lerp(a.pos, b.pos, cum[i], total), g.cfg.StraighteningMaxDistance)
		next := b.pos
		if i+1 < len(chain) {
			next = chain[i+1].pos
		}
		if to != n.pos && g.canMove(n, to, prev, next) {
			n.pos = to
			g.st.Moved++
		}
		prev = n.pos
	}
}

func (g *grower) canMove(n *Node, to, prev, next geometry.Point) bool {
	if !g.interior.Contains(to) || g.interior.CrossesSegment(prev, to) || g.interior.CrossesSegment(to, next) {
		return false
	}
	r2 := g.cfg.SupportingRadius * g.cfg.SupportingRadius
	for _, p := range g.claims[n] {
		if to.Dist2(p) > r2 {
			return false
		}
	}
	return true
}

// clampMove returns to, or the point at distance at most maxDist from from
// in the direction of to.
func clampMove(from, to geometry.Point, maxDist int64) geometry.Point {
	d := to.Sub(from)
	d2 := d.Norm2()
	if d2 <= maxDist*maxDist {
		return to
	}
	l := geometry.ISqrt(d2) + 1
	return geometry.Point{
		X: from.X + geometry.MulDiv(d.X, maxDist, l),
		Y: from.Y + geometry.MulDiv(d.Y, maxDist, l),
	}
}

// mergeColinear removes inner chain nodes that lie within the colinear
// tolerance of the edge joining their neighbours.
func (g *grower) mergeColinear() {
	var cands []*Node
	for n := range g.f.Nodes() {
		if chainNode(n) && len(g.claims[n]) == 0 {
			cands = append(cands, n)
		}
	}
	span2 := g.cfg.MaxColinearSpan * g.cfg.MaxColinearSpan
	tol2 := g.cfg.ColinearTolerance * g.cfg.ColinearTolerance
	for _, n := range cands {
		if !chainNode(n) {
			continue
		}
		p, c := n.parent, n.children[0]
		if p.pos.Dist2(c.pos) > span2 ||
			geometry.SegmentDist2(n.pos, p.pos, c.pos) > tol2 ||
			g.interior.CrossesSegment(p.pos, c.pos) {
			continue
		}
		for i, x := range p.children {
			if x == n {
				p.children[i] = c
				break
			}
		}
		c.parent = p
		n.parent, n.children, n.dead = nil, nil, true
		g.st.Merged++
	}
	g.f.recount()
}
