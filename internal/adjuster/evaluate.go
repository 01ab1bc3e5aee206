package adjuster

import "curvedit/internal/geom"

// Evaluate returns the curve's y (canvas pixels) at canvas x. An x exactly on
// a handle answers with that handle's y.
func (e *Editor) Evaluate(x float64) float64 {
	for _, c := range e.connectors {
		start, end := c.Start(), c.End()
		switch {
		case geom.ApproxEqual(start.X, x):
			return start.Y
		case geom.ApproxEqual(end.X, x):
			return end.Y
		case start.X < x && x < end.X:
			return c.YAlongPath(x)
		}
	}
	invariant("no connector covers x", map[string]any{"x": x, "connectors": len(e.connectors)})
	return 0
}

// Value evaluates the curve in normalized coordinates: x and the result are
// both in [0,1] with 0 at the bottom of the canvas.
func (e *Editor) Value(x float64) float64 {
	x = min(max(x, 0), 1)
	y := e.Evaluate(x * e.width)
	return 1 - y/e.height
}
