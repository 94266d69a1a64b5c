package forest

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/simar1998/OrcaSlicer-C3PD/pkg/geometry"
)

var pt = geometry.Pt

func square(x0, y0, x1, y1 int64) geometry.Polygons {
	return geometry.Polygons{geometry.Rect(pt(x0, y0), pt(x1, y1))}
}

// lShape is the unit square of side 1000 with its upper right quarter cut out.
func lShape() geometry.Polygons {
	return geometry.Polygons{{pt(0, 0), pt(1000, 0), pt(1000, 500), pt(500, 500), pt(500, 1000), pt(0, 1000)}}
}

func testConfig() Config {
	return Config{
		SupportingRadius:         50,
		WallSupportingRadius:     30,
		PruneLength:              1000,
		StraighteningMaxDistance: 0,
	}
}

func region(pts ...geometry.Point) geometry.Region {
	return geometry.NewRegion(10, pts)
}

func TestGrowSingleIsolatedPoint(t *testing.T) {
	f, st := Grow(nil, LayerInput{Interior: square(0, 0, 1000, 1000), Overhang: region(pt(500, 500)), Thickness: 10}, testConfig())

	want := Snapshot{Nodes: []NodeData{{ID: 0, Parent: -1, Pos: pt(500, 500)}}}
	if diff := cmp.Diff(want, f.Snapshot()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
	if st.NewRoots != 1 || st.Attached != 0 || st.Nodes != 1 || st.Roots != 1 {
		t.Errorf("stats = %+v", st)
	}
}

func TestGrowTwoPointsWithinRadius(t *testing.T) {
	in := LayerInput{Interior: square(0, 0, 1000, 1000), Overhang: region(pt(500, 500), pt(520, 500)), Thickness: 10}
	f, st := Grow(nil, in, testConfig())

	// (520,500) is nearer the outline, so it is processed first and roots the tree.
	want := Snapshot{Nodes: []NodeData{
		{ID: 0, Parent: -1, Pos: pt(520, 500)},
		{ID: 1, Parent: 0, Pos: pt(500, 500)},
	}}
	if diff := cmp.Diff(want, f.Snapshot()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
	if st.NewRoots != 1 || st.Attached != 1 {
		t.Errorf("stats = %+v, want one root and one attached child", st)
	}
}

func TestGrowPointsOutOfReachStartNewTrees(t *testing.T) {
	in := LayerInput{Interior: square(0, 0, 1000, 1000), Overhang: region(pt(300, 500), pt(700, 500)), Thickness: 10}
	f, st := Grow(nil, in, testConfig())
	if st.NewRoots != 2 || f.Len() != 2 || len(f.Roots()) != 2 {
		t.Errorf("stats = %+v, want two independent roots", st)
	}
}

func TestGrowCoveredByPropagatedNode(t *testing.T) {
	above := New()
	above.addRoot(pt(500, 500))

	in := LayerInput{Interior: square(0, 0, 1000, 1000), Overhang: region(pt(530, 500)), Thickness: 10}
	f, st := Grow(above, in, testConfig())
	if st.Covered != 1 || st.Attached != 0 || st.NewRoots != 0 {
		t.Errorf("stats = %+v, want the point covered", st)
	}
	if f.Len() != 1 {
		t.Fatalf("Len = %d, want 1", f.Len())
	}
	if got := f.Roots()[0].SinceNeed(); got != 10 {
		t.Errorf("SinceNeed = %d, want 10", got)
	}
	// The forest above is untouched.
	if above.Roots()[0].SinceNeed() != 0 || above.Len() != 1 {
		t.Error("Grow modified the forest above")
	}
}

func TestGrowEmptyLayer(t *testing.T) {
	f, st := Grow(nil, LayerInput{Interior: square(0, 0, 1000, 1000), Thickness: 10}, testConfig())
	if !f.Empty() || st.Nodes != 0 {
		t.Errorf("empty overhang and no forest above: got %d nodes", f.Len())
	}
}

func TestGrowEmptyInteriorDropsForest(t *testing.T) {
	above := New()
	r := above.addRoot(pt(500, 500))
	above.addChild(r, pt(520, 500))

	f, st := Grow(above, LayerInput{Overhang: region(pt(10, 10)), Thickness: 10}, testConfig())
	if !f.Empty() {
		t.Errorf("got %d nodes, want none", f.Len())
	}
	if st.Propagated != 2 || st.Removed != 2 {
		t.Errorf("stats = %+v", st)
	}
}

func TestGrowDropsSamplesOutsideInterior(t *testing.T) {
	in := LayerInput{Interior: square(0, 0, 100, 100), Overhang: region(pt(50, 50), pt(500, 500)), Thickness: 10}
	f, st := Grow(nil, in, testConfig())
	if st.Dropped != 1 || f.Len() != 1 {
		t.Errorf("stats = %+v, want one dropped point", st)
	}
}

func TestGrowZeroThicknessOnlyRealigns(t *testing.T) {
	above := New()
	above.addRoot(pt(500, 500))
	f, st := Grow(above, LayerInput{Interior: square(0, 0, 1000, 1000), Overhang: region(pt(100, 100))}, testConfig())
	if f.Len() != 1 || st.NewRoots != 0 {
		t.Errorf("stats = %+v, want the forest passed through", st)
	}
	if f.Roots()[0].SinceNeed() != 0 {
		t.Error("counter advanced on a zero-thickness layer")
	}
}

func TestRealign(t *testing.T) {
	t.Run("node outside interior", func(t *testing.T) {
		above := New()
		r := above.addRoot(pt(500, 500))
		out := above.addChild(r, pt(1500, 500))
		above.addChild(out, pt(900, 500))

		f, st := Grow(above, LayerInput{Interior: square(0, 0, 1000, 1000), Thickness: 10}, testConfig())
		if st.Removed != 1 {
			t.Errorf("Removed = %d, want 1", st.Removed)
		}
		// The child of the removed node survives as a root.
		if got := len(f.Roots()); got != 2 {
			t.Errorf("roots = %d, want 2", got)
		}
		if err := f.Validate(square(0, 0, 1000, 1000)); err != nil {
			t.Error(err)
		}
	})

	t.Run("edge leaves interior", func(t *testing.T) {
		above := New()
		r := above.addRoot(pt(900, 400))
		above.addChild(r, pt(400, 900))

		f, st := Grow(above, LayerInput{Interior: lShape(), Thickness: 10}, testConfig())
		if st.Rerooted != 1 || len(f.Roots()) != 2 {
			t.Errorf("stats = %+v, roots = %d; want the edge cut", st, len(f.Roots()))
		}
		if err := f.Validate(lShape()); err != nil {
			t.Error(err)
		}
	})
}

func TestPruneStarvedRoot(t *testing.T) {
	cfg := testConfig()
	cfg.PruneLength = 25
	in := LayerInput{Interior: square(0, 0, 1000, 1000), Thickness: 10}

	f, _ := Grow(nil, LayerInput{Interior: in.Interior, Overhang: region(pt(500, 500)), Thickness: 10}, cfg)
	for layer, want := range []int{1, 1, 0} {
		var st LayerStats
		f, st = Grow(f, in, cfg)
		if f.Len() != want {
			t.Fatalf("layer %d below: Len = %d, want %d (stats %+v)", layer+1, f.Len(), want, st)
		}
	}
}

func TestPruneCascade(t *testing.T) {
	cfg := testConfig()
	cfg.PruneLength = 50
	in := LayerInput{Interior: square(0, 0, 1000, 1000), Thickness: 10}

	t.Run("stops at branching ancestor", func(t *testing.T) {
		above := New()
		r := above.addRoot(pt(500, 500))
		a := above.addChild(r, pt(500, 600))
		b := above.addChild(a, pt(500, 700))
		b.sinceNeed = 45
		above.addChild(r, pt(600, 500))

		f, st := Grow(above, in, cfg)
		if st.Pruned != 2 {
			t.Errorf("Pruned = %d, want 2", st.Pruned)
		}
		want := []geometry.Point{pt(500, 500), pt(600, 500)}
		var got []geometry.Point
		for n := range f.Nodes() {
			got = append(got, n.Position())
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("nodes mismatch (-want +got):\n%s", diff)
		}
		if f.Roots()[0].SubtreeSize() != 2 {
			t.Errorf("SubtreeSize = %d, want 2", f.Roots()[0].SubtreeSize())
		}
	})

	t.Run("keeps emptied root", func(t *testing.T) {
		above := New()
		r := above.addRoot(pt(500, 500))
		a := above.addChild(r, pt(500, 600))
		a.sinceNeed = 45

		f, _ := Grow(above, in, cfg)
		if f.Len() != 1 || !f.Roots()[0].IsLeaf() {
			t.Errorf("Len = %d, want the lone root", f.Len())
		}
	})

	t.Run("removes emptied root past prune length", func(t *testing.T) {
		above := New()
		r := above.addRoot(pt(500, 500))
		a := above.addChild(r, pt(520, 500))
		r.sinceNeed = 45
		a.sinceNeed = 45

		f, st := Grow(above, in, cfg)
		if !f.Empty() {
			t.Errorf("Len = %d, want an empty forest", f.Len())
		}
		if st.Pruned != 2 || st.Roots != 0 {
			t.Errorf("stats = %+v, want 2 pruned and no roots", st)
		}
		if err := f.Validate(in.Interior); err != nil {
			t.Errorf("Validate: %v", err)
		}
	})
}

func TestGrowLeavesNoStarvedLeaf(t *testing.T) {
	cfg := testConfig()
	cfg.PruneLength = 30
	in := LayerInput{Interior: square(0, 0, 1000, 1000), Thickness: 10}

	f := New()
	r := f.addRoot(pt(500, 500))
	f.addChild(f.addChild(r, pt(500, 600)), pt(500, 700))
	f.addChild(r, pt(600, 500))
	f.addRoot(pt(100, 100))
	for layer := range 6 {
		f, _ = Grow(f, in, cfg)
		for n := range f.Nodes() {
			if n.IsLeaf() && n.SinceNeed() > cfg.PruneLength {
				t.Fatalf("layer %d: leaf at %v has counter %d over %d", layer, n.Position(), n.SinceNeed(), cfg.PruneLength)
			}
		}
	}
	if !f.Empty() {
		t.Errorf("Len = %d after starving every branch, want 0", f.Len())
	}
}

func TestForestExposesNoMutators(t *testing.T) {
	readOnly := map[string]bool{
		"Bounds": true, "Clone": true, "Empty": true, "GroundingSegments": true, "Len": true,
		"Length": true, "Nodes": true, "Roots": true, "Segments": true, "Snapshot": true,
		"Validate": true,
		"Children": true, "ChildCount": true, "Created": true, "Depth": true, "Ground": true,
		"IsLeaf": true, "IsRoot": true, "Parent": true, "Position": true, "Seq": true,
		"SinceNeed": true, "SubtreeSize": true,
	}
	for _, typ := range []reflect.Type{reflect.TypeOf(&Forest{}), reflect.TypeOf(&Node{})} {
		for i := range typ.NumMethod() {
			if name := typ.Method(i).Name; !readOnly[name] {
				t.Errorf("%s exports %s, which is not a read-only query", typ, name)
			}
		}
	}
}

func TestPruneRecoversCoverage(t *testing.T) {
	cfg := testConfig()
	cfg.PruneLength = 5
	above := New()
	above.addRoot(pt(500, 500))

	// The propagated root covers the point but is starved; the point is then
	// supported by a new node.
	f, st := Grow(above, LayerInput{Interior: square(0, 0, 1000, 1000), Overhang: region(pt(520, 500)), Thickness: 10}, cfg)
	if st.Covered != 1 || st.Pruned != 1 || st.Recovered != 1 {
		t.Errorf("stats = %+v", st)
	}
	want := Snapshot{Nodes: []NodeData{{ID: 0, Parent: -1, Pos: pt(520, 500)}}}
	if diff := cmp.Diff(want, f.Snapshot()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestCountersAdvanceUntilNeed(t *testing.T) {
	f, _ := Grow(nil, LayerInput{Interior: square(0, 0, 1000, 1000), Overhang: region(pt(500, 500)), Thickness: 10}, testConfig())
	f, _ = Grow(f, LayerInput{Interior: square(0, 0, 1000, 1000), Thickness: 10}, testConfig())
	if got := f.Roots()[0].SinceNeed(); got != 10 {
		t.Fatalf("SinceNeed = %d, want 10", got)
	}
	// A point out of the root's reach starts a new tree; the old root keeps counting.
	f, _ = Grow(f, LayerInput{Interior: square(0, 0, 1000, 1000), Overhang: region(pt(800, 500)), Thickness: 10}, testConfig())
	for _, r := range f.Roots() {
		want := int64(20)
		if r.Created() {
			want = 0
		}
		if r.SinceNeed() != want {
			t.Errorf("root %v: SinceNeed = %d, want %d", r.Position(), r.SinceNeed(), want)
		}
	}
}

func TestGroundRoots(t *testing.T) {
	in := LayerInput{Interior: square(0, 0, 1000, 1000), Overhang: region(pt(20, 500), pt(500, 500)), Thickness: 10}
	f, _ := Grow(nil, in, testConfig())
	grounded := 0
	for _, r := range f.Roots() {
		if g, ok := r.Ground(); ok {
			grounded++
			if g != pt(0, 500) {
				t.Errorf("ground = %v, want (0, 500)", g)
			}
		}
	}
	if grounded != 1 {
		t.Errorf("grounded roots = %d, want 1", grounded)
	}
	if segs := f.GroundingSegments(); len(segs) != 1 || segs[0] != [2]geometry.Point{pt(20, 500), pt(0, 500)} {
		t.Errorf("GroundingSegments = %v", segs)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	f := New()
	r := f.addRoot(pt(1, 2))
	c := f.addChild(r, pt(3, 4))
	f.addChild(c, pt(5, 6))
	f.addRoot(pt(7, 8))

	g := f.Clone()
	if diff := cmp.Diff(f.Snapshot(), g.Snapshot()); diff != "" {
		t.Fatalf("clone differs (-orig +clone):\n%s", diff)
	}
	g.Roots()[0].pos = pt(100, 100)
	if f.Roots()[0].Position() != pt(1, 2) {
		t.Error("clone shares nodes with the original")
	}
}

func TestSnapshotRestore(t *testing.T) {
	f := New()
	r := f.addRoot(pt(1, 2))
	r.ground, r.grounded = pt(0, 2), true
	c := f.addChild(r, pt(3, 4))
	c.sinceNeed = 7
	f.addChild(r, pt(5, 6))

	s := f.Snapshot()
	if s.Roots() != 1 || len(s.Nodes) != 3 {
		t.Fatalf("snapshot = %+v", s)
	}
	g, err := Restore(s)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(s, g.Snapshot()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	bad := Snapshot{Nodes: []NodeData{{ID: 0, Parent: 1}, {ID: 1, Parent: -1}}}
	if _, err := Restore(bad); !errors.Is(err, ErrBadParent) {
		t.Errorf("Restore(bad) error = %v, want ErrBadParent", err)
	}
}

func TestValidate(t *testing.T) {
	f := New()
	r := f.addRoot(pt(100, 100))
	f.addChild(r, pt(200, 100))
	if err := f.Validate(square(0, 0, 1000, 1000)); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if err := f.Validate(square(0, 0, 150, 150)); !errors.Is(err, ErrOutsideInterior) {
		t.Errorf("Validate(small) = %v, want ErrOutsideInterior", err)
	}

	cyc := New()
	a := cyc.addRoot(pt(1, 1))
	b := cyc.addChild(a, pt(2, 2))
	a.parent = b
	if err := cyc.Validate(nil); err == nil {
		t.Error("Validate() accepted a cycle")
	}
}

func TestSegmentsAndLength(t *testing.T) {
	f := New()
	r := f.addRoot(pt(0, 0))
	c := f.addChild(r, pt(30, 40))
	f.addChild(c, pt(30, 0))

	want := [][2]geometry.Point{{pt(30, 40), pt(0, 0)}, {pt(30, 0), pt(30, 40)}}
	if diff := cmp.Diff(want, f.Segments()); diff != "" {
		t.Errorf("Segments mismatch (-want +got):\n%s", diff)
	}
	if f.Length() != 90 {
		t.Errorf("Length = %d, want 90", f.Length())
	}
	if got := f.Bounds(); got != (geometry.Box{Min: pt(0, 0), Max: pt(30, 40)}) {
		t.Errorf("Bounds = %v", got)
	}
}

func TestCoverageAcrossLayers(t *testing.T) {
	cfg := Config{SupportingRadius: 60, WallSupportingRadius: 40, PruneLength: 100, StraighteningMaxDistance: 15, TieTolerance: 5}
	interior := geometry.Polygons{
		geometry.Rect(pt(0, 0), pt(2000, 2000)),
		geometry.Rect(pt(900, 900), pt(1100, 1100)).Reverse(),
	}
	var f *Forest
	for k := int64(9); k >= 0; k-- {
		band := square(100+150*k, 100+100*k, 400+150*k, 300+100*k)
		in := LayerInput{Interior: interior, Overhang: geometry.SampleRegion(band, 20), Thickness: 20}
		var st LayerStats
		f, st = Grow(f, in, cfg)

		if err := f.Validate(interior); err != nil {
			t.Fatalf("layer %d: %v", k, err)
		}
		for _, p := range in.Overhang.Points() {
			if !interior.Contains(p) {
				continue
			}
			if !coveredWithin(f, p, cfg.SupportingRadius) {
				t.Fatalf("layer %d: point %v not covered (stats %+v)", k, p, st)
			}
		}
	}
}

func coveredWithin(f *Forest, p geometry.Point, r int64) bool {
	for n := range f.Nodes() {
		if n.Position().Dist2(p) <= r*r {
			return true
		}
	}
	return false
}
