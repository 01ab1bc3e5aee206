package adjuster

import (
	"math"

	"honnef.co/go/curve"
)

// RestrictPosition2D limits a proposed position for free handle i. The y
// range is the canvas, narrowed by any handle within one handle size in x.
// The x range runs between the neighbours, narrowed by a further handle size
// when a neighbour's y is close. A clamped x lands one pixel inside its
// limit.
func (e *Editor) RestrictPosition2D(p curve.Point, i int) curve.Point {
	h := e.handles[i]
	if !h.CanMoveHorizontally() || i == 0 || i == len(e.handles)-1 {
		invariant("2D restriction on a boundary handle", map[string]any{"index": i, "kind": h.Kind().String()})
		return h.Pos()
	}
	cur := h.Pos()

	lowerY, upperY := 0.0, e.height
	for j, o := range e.handles {
		if j == i {
			continue
		}
		op := o.Pos()
		if math.Abs(cur.X-op.X) > e.size {
			continue
		}
		if op.Y < cur.Y {
			lowerY = max(lowerY, op.Y+e.size)
		} else {
			upperY = min(upperY, op.Y-e.size)
		}
	}
	switch {
	case lowerY > upperY:
		p.Y = cur.Y
	case p.Y < lowerY:
		p.Y = lowerY
	case p.Y > upperY:
		p.Y = upperY
	}

	prev, next := e.handles[i-1].Pos(), e.handles[i+1].Pos()
	lowerX := max(e.size/2, prev.X)
	if math.Abs(prev.Y-p.Y) <= e.size*1.5 {
		lowerX = max(lowerX, prev.X+e.size)
	}
	upperX := min(e.width-e.size/2, next.X)
	if math.Abs(next.Y-p.Y) <= e.size*2 {
		upperX = min(upperX, next.X-e.size)
	}
	if p.X <= lowerX {
		p.X = lowerX + 1
	} else if p.X >= upperX {
		p.X = upperX - 1
	}
	// Neighbours squeezed closer than the limits allow: x stays where it is.
	// y was already kept a handle size away from anything near cur.X.
	if p.X <= lowerX || p.X >= upperX {
		p.X = cur.X
	}
	return p
}

// RestrictPosition1D limits a proposed position for a vertical-only handle:
// x stays put and y keeps one handle size away from any handle that is close
// on both axes.
func (e *Editor) RestrictPosition1D(p curve.Point, i int) curve.Point {
	h := e.handles[i]
	if h.CanMoveHorizontally() {
		invariant("1D restriction on a free handle", map[string]any{"index": i})
	}
	cur := h.Pos()
	p.X = cur.X

	lowerY, upperY := 0.0, e.height
	for j, o := range e.handles {
		if j == i {
			continue
		}
		op := o.Pos()
		if math.Abs(cur.X-op.X) > e.size {
			continue
		}
		switch {
		case op.Y <= cur.Y && cur.Y-op.Y <= e.size:
			lowerY = op.Y + e.size
		case op.Y >= cur.Y && op.Y-cur.Y <= e.size:
			upperY = op.Y - e.size
		}
	}
	if p.Y < lowerY {
		p.Y = lowerY
	} else if p.Y > upperY {
		p.Y = upperY
	}
	return p
}

// Move2DHandle moves free handle i toward p and drags the two connectors that
// meet at it. Pass restricted when p already went through
// RestrictPosition2D or a limited group translation.
func (e *Editor) Move2DHandle(p curve.Point, i int, restricted bool) curve.Point {
	if i <= 0 || i >= len(e.handles)-1 {
		invariant("2D move of a boundary handle", map[string]any{"index": i})
		return e.handles[i].Pos()
	}
	if !restricted {
		p = e.RestrictPosition2D(p, i)
	}
	if p.Y < 0 {
		p.Y = 0
	}
	e.handles[i].SetPos(p)
	e.connectors[i-1].AdjustEndPoint(p)
	e.connectors[i].AdjustStartPoint(p)
	return p
}

// moveBoundary moves the first or last handle vertically and redraws its
// connector as a straight line.
func (e *Editor) moveBoundary(p curve.Point, i int) curve.Point {
	h := e.handles[i]
	if !h.CanMoveVertically() {
		return h.Pos()
	}
	p = e.RestrictPosition1D(p, i)
	h.SetPos(p)
	last := len(e.handles) - 1
	switch i {
	case 0:
		e.connectors[0] = NewConnector(p, e.handles[1].Pos())
	case last:
		e.connectors[last-1] = NewConnector(e.handles[last-1].Pos(), p)
	}
	return p
}
