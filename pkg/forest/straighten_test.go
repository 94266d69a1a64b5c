package forest

import (
	"testing"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/geometry"
)

// zigzag returns a forest with the chain root → bend → leaf, the bend 100
// units off the chord.
func zigzag() *Forest {
	f := New()
	r := f.addRoot(pt(100, 500))
	b := f.addChild(r, pt(200, 600))
	f.addChild(b, pt(300, 500))
	return f
}

func bend(f *Forest) *Node { return f.Roots()[0].Children()[0] }

func TestStraightenClampsMove(t *testing.T) {
	cfg := testConfig()
	cfg.StraighteningMaxDistance = 30
	f, st := Grow(zigzag(), LayerInput{Interior: square(0, 0, 1000, 1000), Thickness: 10}, cfg)

	if st.Moved != 1 {
		t.Fatalf("Moved = %d, want 1", st.Moved)
	}
	got := bend(f).Position()
	if d2 := got.Dist2(pt(200, 600)); d2 == 0 || d2 > 30*30 {
		t.Errorf("bend moved to %v, want a move of at most 30 toward the chord", got)
	}
	if got.Y >= 600 || got.X != 200 {
		t.Errorf("bend moved to %v, want straight down", got)
	}
	if f.Roots()[0].Position() != pt(100, 500) {
		t.Error("root moved")
	}
	leaf := bend(f).Children()[0]
	if leaf.Position() != pt(300, 500) {
		t.Error("chain end moved")
	}
}

func TestStraightenReachesChord(t *testing.T) {
	cfg := testConfig()
	cfg.StraighteningMaxDistance = 1000
	f, _ := Grow(zigzag(), LayerInput{Interior: square(0, 0, 1000, 1000), Thickness: 10}, cfg)
	if got := bend(f).Position(); got != pt(200, 500) {
		t.Errorf("bend at %v, want (200, 500)", got)
	}
}

func TestStraightenStaysInside(t *testing.T) {
	cfg := testConfig()
	cfg.StraighteningMaxDistance = 1000
	// The chord passes through a hole, so the bend cannot reach it.
	interior := geometry.Polygons{
		geometry.Rect(pt(0, 0), pt(1000, 1000)),
		geometry.Rect(pt(170, 470), pt(230, 530)).Reverse(),
	}
	g, st := Grow(zigzag(), LayerInput{Interior: interior, Thickness: 10}, cfg)
	if st.Moved != 0 {
		t.Errorf("Moved = %d, want 0", st.Moved)
	}
	if got := bend(g).Position(); got != pt(200, 600) {
		t.Errorf("bend at %v, want (200, 600)", got)
	}
	if err := g.Validate(interior); err != nil {
		t.Error(err)
	}
}

func TestStraightenKeepsCoverage(t *testing.T) {
	cfg := testConfig()
	cfg.StraighteningMaxDistance = 1000
	// The bend covers a sample 40 units above it; reaching the chord would
	// take it 140 units away.
	in := LayerInput{Interior: square(0, 0, 1000, 1000), Overhang: region(pt(200, 640)), Thickness: 10}
	f, st := Grow(zigzag(), in, cfg)
	if st.Covered != 1 || st.Moved != 0 {
		t.Errorf("stats = %+v, want the covering bend anchored", st)
	}
	if got := bend(f).Position(); got != pt(200, 600) {
		t.Errorf("bend at %v, want (200, 600)", got)
	}
}

func TestClampMove(t *testing.T) {
	tests := []struct {
		from, to geometry.Point
		max      int64
	}{
		{pt(0, 0), pt(100, 0), 30},
		{pt(0, 0), pt(-70, 70), 25},
		{pt(5, 5), pt(6, 5), 10},
		{pt(0, 0), pt(999_999_937, 3), 1},
	}
	for _, tt := range tests {
		got := clampMove(tt.from, tt.to, tt.max)
		if d2 := got.Dist2(tt.from); d2 > tt.max*tt.max {
			t.Errorf("clampMove(%v, %v, %d) = %v: moved too far", tt.from, tt.to, tt.max, got)
		}
		if tt.from.Dist2(tt.to) <= tt.max*tt.max && got != tt.to {
			t.Errorf("clampMove(%v, %v, %d) = %v, want %v", tt.from, tt.to, tt.max, got, tt.to)
		}
	}
}

func TestMergeColinear(t *testing.T) {
	cfg := testConfig()
	cfg.MaxColinearSpan = 500
	cfg.ColinearTolerance = 2
	f := New()
	r := f.addRoot(pt(100, 500))
	a := f.addChild(r, pt(200, 501))
	b := f.addChild(a, pt(300, 500))
	f.addChild(b, pt(300, 700))

	g, st := Grow(f, LayerInput{Interior: square(0, 0, 1000, 1000), Thickness: 10}, cfg)
	if st.Merged != 1 || g.Len() != 3 {
		t.Fatalf("stats = %+v, want one merged node", st)
	}
	if got := g.Roots()[0].Children()[0].Position(); got != pt(300, 500) {
		t.Errorf("root child at %v, want (300, 500)", got)
	}
	if err := g.Validate(square(0, 0, 1000, 1000)); err != nil {
		t.Error(err)
	}
}

func TestAttachTieBreak(t *testing.T) {
	newGrower := func(tol int64) (*grower, *nodeIndex) {
		f := New()
		r1 := f.addRoot(pt(400, 500))
		f.addChild(r1, pt(390, 500))
		f.addRoot(pt(600, 500))
		for n := range f.Nodes() {
			n.created = true
		}
		cfg := testConfig()
		cfg.SupportingRadius = 150
		cfg.TieTolerance = tol
		g := &grower{f: f, cfg: cfg, interior: geometry.NewEdgeIndex(square(0, 0, 1000, 1000), 150), st: &LayerStats{}}
		return g, newNodeIndex(f)
	}

	t.Run("smaller subtree wins", func(t *testing.T) {
		g, idx := newGrower(0)
		if got := g.attachTarget(idx, pt(500, 500)); got == nil || got.Position() != pt(600, 500) {
			t.Errorf("attachTarget = %v, want the lone root at (600, 500)", got)
		}
	})

	t.Run("earlier node wins among equal subtrees", func(t *testing.T) {
		g, idx := newGrower(20)
		if got := g.attachTarget(idx, pt(500, 500)); got == nil || got.Position() != pt(390, 500) {
			t.Errorf("attachTarget = %v, want the leaf at (390, 500)", got)
		}
	})

	t.Run("edge must stay inside", func(t *testing.T) {
		f := New()
		f.addRoot(pt(600, 480))
		f.addRoot(pt(300, 800))
		cfg := testConfig()
		cfg.SupportingRadius = 400
		g := &grower{f: f, cfg: cfg, interior: geometry.NewEdgeIndex(lShape(), 100), st: &LayerStats{}}
		// The node in the foot is nearer, but the edge to it cuts the notch.
		got := g.attachTarget(newNodeIndex(f), pt(480, 620))
		if got == nil || got.Position() != pt(300, 800) {
			t.Errorf("attachTarget = %v, want (300, 800)", got)
		}
	})
}
