// Package geom locates the raw geometric crossings between two track
// polylines. A crossing is reported as a fractional node index on each track;
// refinement of those locations into full crossover records happens
// elsewhere. The locator uses y-interval sorting to avoid testing segment
// pairs that cannot intersect.
package geom

import (
	"math"
	"sort"

	"github.com/banshee-data/crossover.report/internal/track"
)

// RawCrossing is one geometric intersection of two polylines. Node holds the
// fractional sample index of the crossing on each side.
type RawCrossing struct {
	X, Y float64
	Node [2]float64
}

// nodeTol is the fractional-index tolerance used to deduplicate crossings
// reported by both segments sharing a joint node.
const nodeTol = 1e-9

type segment struct {
	idx        int // index of the segment's left node
	ymin, ymax float64
	xmin, xmax float64
}

// Locator finds polyline intersections.
type Locator struct{}

// Crossings returns every intersection between tracks a and b, ordered by
// fractional node index on side 0 then side 1. In self mode (a and b are the
// same track) identical and adjacent segments are skipped so every joint
// between consecutive segments is not reported as a crossing.
func (Locator) Crossings(a, b *track.Track, self bool) []RawCrossing {
	segsB := buildSegments(b)
	sort.Slice(segsB, func(i, j int) bool { return segsB[i].ymin < segsB[j].ymin })

	var found []RawCrossing
	for i := 0; i+1 < a.Len(); i++ {
		sa := makeSegment(a, i)
		if math.IsNaN(sa.ymin) {
			continue
		}
		// Candidates are the B segments whose y-interval starts at or below
		// the top of this segment; the sorted order lets us stop there.
		hi := sort.Search(len(segsB), func(k int) bool { return segsB[k].ymin > sa.ymax })
		for _, sb := range segsB[:hi] {
			if sb.ymax < sa.ymin || sb.xmax < sa.xmin || sb.xmin > sa.xmax {
				continue
			}
			if self {
				d := sb.idx - sa.idx
				if d >= -1 && d <= 1 {
					continue
				}
			}
			xc, ok := intersect(a, b, sa.idx, sb.idx)
			if !ok {
				continue
			}
			if self && duplicateSelfHit(found, xc) {
				continue
			}
			if jointDuplicate(found, xc) {
				continue
			}
			found = append(found, xc)
		}
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].Node[0] != found[j].Node[0] {
			return found[i].Node[0] < found[j].Node[0]
		}
		return found[i].Node[1] < found[j].Node[1]
	})
	return found
}

func buildSegments(t *track.Track) []segment {
	segs := make([]segment, 0, t.Len())
	for i := 0; i+1 < t.Len(); i++ {
		s := makeSegment(t, i)
		if !math.IsNaN(s.ymin) {
			segs = append(segs, s)
		}
	}
	return segs
}

func makeSegment(t *track.Track, i int) segment {
	x0, y0 := t.X[i], t.Y[i]
	x1, y1 := t.X[i+1], t.Y[i+1]
	if math.IsNaN(x0) || math.IsNaN(y0) || math.IsNaN(x1) || math.IsNaN(y1) {
		return segment{idx: i, ymin: math.NaN()}
	}
	return segment{
		idx:  i,
		ymin: math.Min(y0, y1), ymax: math.Max(y0, y1),
		xmin: math.Min(x0, x1), xmax: math.Max(x0, x1),
	}
}

// intersect computes the intersection of segment i of track a with segment j
// of track b. Parallel (including collinear) segments report no crossing.
func intersect(a, b *track.Track, i, j int) (RawCrossing, bool) {
	ax, ay := a.X[i], a.Y[i]
	dx1, dy1 := a.X[i+1]-ax, a.Y[i+1]-ay
	bx, by := b.X[j], b.Y[j]
	dx2, dy2 := b.X[j+1]-bx, b.Y[j+1]-by

	denom := dx1*dy2 - dy1*dx2
	if denom == 0 {
		return RawCrossing{}, false
	}
	ex, ey := bx-ax, by-ay
	s := (ex*dy2 - ey*dx2) / denom
	t := (ex*dy1 - ey*dx1) / denom
	if s < 0 || s > 1 || t < 0 || t > 1 {
		return RawCrossing{}, false
	}
	return RawCrossing{
		X:    ax + s*dx1,
		Y:    ay + s*dy1,
		Node: [2]float64{float64(i) + s, float64(j) + t},
	}, true
}

// jointDuplicate reports whether xc was already found via the neighbouring
// segment sharing the joint node (s==1 on one segment equals s==0 on the
// next, with identical fractional node values).
func jointDuplicate(found []RawCrossing, xc RawCrossing) bool {
	for k := len(found) - 1; k >= 0; k-- {
		f := found[k]
		if math.Abs(f.Node[0]-xc.Node[0]) < nodeTol && math.Abs(f.Node[1]-xc.Node[1]) < nodeTol {
			return true
		}
	}
	return false
}

// duplicateSelfHit reports whether a self-pair crossing is the mirror image
// (sides swapped) of one already found.
func duplicateSelfHit(found []RawCrossing, xc RawCrossing) bool {
	for k := len(found) - 1; k >= 0; k-- {
		f := found[k]
		if math.Abs(f.Node[0]-xc.Node[1]) < nodeTol && math.Abs(f.Node[1]-xc.Node[0]) < nodeTol {
			return true
		}
	}
	return false
}
