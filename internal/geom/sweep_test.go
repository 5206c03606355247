package geom

import (
	"math"
	"testing"

	"github.com/banshee-data/crossover.report/internal/track"
)

func mustTrack(t *testing.T, name string, x, y []float64) *track.Track {
	t.Helper()
	trk, err := track.New(name, x, y, nil, nil, false, 1.0)
	if err != nil {
		t.Fatalf("track.New(%s): %v", name, err)
	}
	return trk
}

func TestCrossingsSimpleX(t *testing.T) {
	// Two diagonals of the unit square crossing at (0.5, 0.5).
	a := mustTrack(t, "a", []float64{0, 1}, []float64{0, 1})
	b := mustTrack(t, "b", []float64{0, 1}, []float64{1, 0})

	xcs := Locator{}.Crossings(a, b, false)
	if len(xcs) != 1 {
		t.Fatalf("got %d crossings, want 1", len(xcs))
	}
	xc := xcs[0]
	if math.Abs(xc.X-0.5) > 1e-12 || math.Abs(xc.Y-0.5) > 1e-12 {
		t.Errorf("crossing at (%g, %g), want (0.5, 0.5)", xc.X, xc.Y)
	}
	if math.Abs(xc.Node[0]-0.5) > 1e-12 || math.Abs(xc.Node[1]-0.5) > 1e-12 {
		t.Errorf("fractional nodes = %v, want [0.5 0.5]", xc.Node)
	}
}

func TestCrossingsRoleSwap(t *testing.T) {
	a := mustTrack(t, "a", []float64{0, 4}, []float64{1, 1})
	b := mustTrack(t, "b", []float64{1, 1}, []float64{0, 4})

	ab := Locator{}.Crossings(a, b, false)
	ba := Locator{}.Crossings(b, a, false)
	if len(ab) != 1 || len(ba) != 1 {
		t.Fatalf("got %d and %d crossings, want 1 and 1", len(ab), len(ba))
	}
	if math.Abs(ab[0].Node[0]-ba[0].Node[1]) > 1e-12 || math.Abs(ab[0].Node[1]-ba[0].Node[0]) > 1e-12 {
		t.Errorf("swapped pair nodes %v vs %v: side roles should swap", ab[0].Node, ba[0].Node)
	}
	if ab[0].X != ba[0].X || ab[0].Y != ba[0].Y {
		t.Errorf("crossing location should be order-independent")
	}
}

func TestCrossingsOnSharedNode(t *testing.T) {
	// Track b passes exactly through a's middle sample: the joint hit must be
	// reported once, not once per adjoining segment.
	a := mustTrack(t, "a", []float64{0, 1, 2}, []float64{0, 0, 0})
	b := mustTrack(t, "b", []float64{1, 1}, []float64{-1, 1})

	xcs := Locator{}.Crossings(a, b, false)
	if len(xcs) != 1 {
		t.Fatalf("got %d crossings, want 1 (deduplicated joint hit)", len(xcs))
	}
	if math.Abs(xcs[0].Node[0]-1.0) > 1e-9 {
		t.Errorf("node on side 0 = %g, want 1.0", xcs[0].Node[0])
	}
}

func TestCrossingsParallelNone(t *testing.T) {
	a := mustTrack(t, "a", []float64{0, 1, 2}, []float64{0, 0, 0})
	b := mustTrack(t, "b", []float64{0, 1, 2}, []float64{1, 1, 1})
	if xcs := (Locator{}).Crossings(a, b, false); len(xcs) != 0 {
		t.Errorf("parallel tracks: got %d crossings, want 0", len(xcs))
	}
}

func TestCrossingsSelfLoop(t *testing.T) {
	// A figure that loops back across itself once.
	x := []float64{0, 2, 2, 0, 1}
	y := []float64{0, 0, 2, 2, -1}
	a := mustTrack(t, "loop", x, y)

	xcs := Locator{}.Crossings(a, a, true)
	if len(xcs) != 1 {
		t.Fatalf("got %d self crossings, want 1", len(xcs))
	}
	// The last segment (3) dives back through segment 0.
	if xcs[0].Node[0] >= xcs[0].Node[1] {
		t.Errorf("self crossing nodes %v, want side0 earlier than side1", xcs[0].Node)
	}
}

func TestCrossingsSelfAdjacentSkipped(t *testing.T) {
	// A sharp corner: adjacent segments share a node but never cross.
	a := mustTrack(t, "corner", []float64{0, 1, 0}, []float64{0, 1, 2})
	if xcs := (Locator{}).Crossings(a, a, true); len(xcs) != 0 {
		t.Errorf("corner: got %d self crossings, want 0", len(xcs))
	}
}

func TestCrossingsDeterministicOrder(t *testing.T) {
	// A zig-zag crossing a straight line three times.
	a := mustTrack(t, "line", []float64{0, 6}, []float64{0, 0})
	b := mustTrack(t, "zig", []float64{1, 2, 3, 4}, []float64{-1, 1, -1, 1})

	first := Locator{}.Crossings(a, b, false)
	if len(first) != 3 {
		t.Fatalf("got %d crossings, want 3", len(first))
	}
	for i := 1; i < len(first); i++ {
		if first[i].Node[0] < first[i-1].Node[0] {
			t.Errorf("crossings not ordered by side-0 node: %v", first)
		}
	}
	second := Locator{}.Crossings(a, b, false)
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("repeat run differs at %d: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestCrossingsSkipsNaNSegments(t *testing.T) {
	a := mustTrack(t, "gap", []float64{0, math.NaN(), 2}, []float64{0, math.NaN(), 0})
	b := mustTrack(t, "b", []float64{1, 1}, []float64{-1, 1})
	// Both segments of a touch the NaN sample, so nothing can intersect.
	if xcs := (Locator{}).Crossings(a, b, false); len(xcs) != 0 {
		t.Errorf("got %d crossings through NaN gap, want 0", len(xcs))
	}
}
