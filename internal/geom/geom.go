// Package geom holds the small Bezier helpers shared by the editor and the
// record store.
package geom

import (
	"math"

	"honnef.co/go/curve"
)

const (
	// PixelTolerance is the flattening tolerance used in editor pixel space.
	PixelTolerance = 0.25
	// UnitTolerance is the flattening tolerance used for normalized curves.
	UnitTolerance = 1e-4
)

// ApproxEqual reports whether a and b are equal within a small relative
// epsilon. It is what "same x" means throughout the curve code.
func ApproxEqual(a, b float64) bool {
	const eps = 1e-6
	if a == b {
		return true
	}
	return math.Abs(a-b) <= eps*max(1, math.Abs(a), math.Abs(b))
}

// Flatten approximates q with a polyline. The first point is q.P0 and the
// last is q.P2.
func Flatten(q curve.QuadBez, tolerance float64) []curve.Point {
	pts := make([]curve.Point, 0, 16)
	for el := range curve.Flatten(q.PathElements(tolerance), tolerance) {
		switch el.Kind {
		case curve.MoveToKind, curve.LineToKind:
			pts = append(pts, el.P0)
		}
	}
	return pts
}

// YAt intersects the first polyline segment whose x-range contains x with a
// vertical line at x and returns the y of the hit.
func YAt(path []curve.Point, x float64) (float64, bool) {
	for i := 0; i+1 < len(path); i++ {
		a, b := path[i], path[i+1]
		if x < a.X || x > b.X {
			continue
		}
		if a.X == b.X {
			return b.Y, true
		}
		seg := curve.Line{P0: a, P1: b}
		lo, hi := min(a.Y, b.Y)-1, max(a.Y, b.Y)+1
		probe := curve.Line{P0: curve.Pt(x, lo), P1: curve.Pt(x, hi)}
		hits, n := seg.IntersectLine(probe)
		if n == 0 {
			// Numerically at an end of the sub-segment.
			t := (x - a.X) / (b.X - a.X)
			return seg.Eval(t).Y, true
		}
		return seg.Eval(hits[0].SegmentT).Y, true
	}
	return 0, false
}
