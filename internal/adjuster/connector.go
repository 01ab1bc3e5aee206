package adjuster

import (
	"math"

	"honnef.co/go/curve"

	"curvedit/internal/geom"
)

const (
	// connectorEndMargin keeps connector hover away from the handles at
	// either end, measured along the curve.
	connectorEndMargin = 12.0
	connectorHoverDist = 5.0
	arclenAccuracy     = 1e-3
)

// Connector is the quadratic Bezier segment between two neighbouring
// handles.
type Connector struct {
	start, control, end curve.Point
	path                []curve.Point
	hovered             bool
}

// NewConnector returns a straight connector: the control point sits halfway
// between start and end.
func NewConnector(start, end curve.Point) *Connector {
	return NewCurvedConnector(start, start.Midpoint(end), end)
}

// NewCurvedConnector uses control as given.
func NewCurvedConnector(start, control, end curve.Point) *Connector {
	c := &Connector{start: start, control: control, end: end}
	c.setPath()
	return c
}

func (c *Connector) Start() curve.Point   { return c.start }
func (c *Connector) Control() curve.Point { return c.control }
func (c *Connector) End() curve.Point     { return c.end }

// Path is the cached flattened polyline, from start to end.
func (c *Connector) Path() []curve.Point { return c.path }

func (c *Connector) Quad() curve.QuadBez {
	return curve.QuadBez{P0: c.start, P1: c.control, P2: c.end}
}

// Upward reports whether the segment climbs on screen (y shrinks).
func (c *Connector) Upward() bool { return c.start.Y > c.end.Y }

func (c *Connector) MouseOver() bool { return c.hovered }

func (c *Connector) ForceMouseOver(v bool) { c.hovered = v }

// AdjustStartPoint moves the start and drags the control point half as far.
func (c *Connector) AdjustStartPoint(p curve.Point) {
	d := p.Sub(c.start)
	c.start = p
	c.control = c.limitControlPoint(c.control.Translate(d.Mul(0.5)))
	c.setPath()
}

// AdjustEndPoint moves the end and drags the control point half as far.
func (c *Connector) AdjustEndPoint(p curve.Point) {
	d := p.Sub(c.end)
	c.end = p
	c.control = c.limitControlPoint(c.control.Translate(d.Mul(0.5)))
	c.setPath()
}

func (c *Connector) AdjustControlPoint(p curve.Point) {
	c.control = c.limitControlPoint(p)
	c.setPath()
}

// limitControlPoint keeps the control inside the box spanned by start and
// end so the segment cannot fold back on itself.
func (c *Connector) limitControlPoint(p curve.Point) curve.Point {
	if p.X < c.start.X {
		p.X = c.start.X
	} else if p.X > c.end.X {
		p.X = c.end.X
	}

	if c.Upward() {
		if p.Y > c.start.Y {
			p.Y = c.start.Y
		}
		if p.Y < c.end.Y {
			p.Y = c.end.Y
		}
	} else {
		if p.Y < c.start.Y {
			p.Y = c.start.Y
		}
		if p.Y > c.end.Y {
			p.Y = c.end.Y
		}
	}
	return p
}

func (c *Connector) setPath() {
	c.path = geom.Flatten(c.Quad(), geom.PixelTolerance)
}

// YAlongPath returns the curve's y at x. Callers guarantee
// start.x <= x <= end.x.
func (c *Connector) YAlongPath(x float64) float64 {
	y, ok := geom.YAt(c.path, x)
	if !ok {
		invariant("no path segment spans x", map[string]any{
			"x": x, "start": c.start.X, "end": c.end.X,
		})
		return 0
	}
	return y
}

// HandlePossibleMouseOver updates the hover flag for a pointer at p and
// reports whether it changed. The pointer has to be close to the curve and
// away from both ends, where the handles take precedence.
func (c *Connector) HandlePossibleMouseOver(p curve.Point) bool {
	was := c.hovered
	c.hovered = c.isNear(p)
	return was != c.hovered
}

func (c *Connector) isNear(p curve.Point) bool {
	if p.X < c.start.X || p.X > c.end.X {
		return false
	}
	q := c.Quad()
	distSq, t := q.Nearest(p, arclenAccuracy)
	total := q.Arclen(arclenAccuracy)
	along := q.Subsegment(0, t).Arclen(arclenAccuracy)
	if along < connectorEndMargin || total-along < connectorEndMargin {
		return false
	}
	return math.Sqrt(distSq) <= connectorHoverDist
}
