package adjuster

import "honnef.co/go/curve"

// Capability says how a handle may move.
type Capability int

const (
	// Stationary handles pin a curve end that the user may not adjust.
	Stationary Capability = iota
	// VerticalOnly handles pin an end's x but let its output move.
	VerticalOnly
	// Free2D handles move on both axes.
	Free2D
)

func (c Capability) String() string {
	switch c {
	case Stationary:
		return "stationary"
	case VerticalOnly:
		return "vertical"
	case Free2D:
		return "free"
	default:
		return "unknown"
	}
}

// mouseCushion widens a handle's hover box on every side.
const mouseCushion = 5.0

// Handle is one breakpoint of the curve. Its position is the visual centre.
type Handle struct {
	kind     Capability
	pos      curve.Point
	size     float64
	hovered  bool
	selected bool
}

func NewHandle(kind Capability, size float64, p curve.Point) *Handle {
	return &Handle{kind: kind, pos: p, size: size}
}

func (h *Handle) Kind() Capability { return h.kind }
func (h *Handle) Pos() curve.Point { return h.pos }
func (h *Handle) Size() float64    { return h.size }

// SetPos moves the handle. Stationary handles ignore it.
func (h *Handle) SetPos(p curve.Point) {
	switch h.kind {
	case Stationary:
		return
	default:
		h.pos = p
	}
}

func (h *Handle) CanMoveHorizontally() bool { return h.kind == Free2D }
func (h *Handle) CanMoveVertically() bool   { return h.kind != Stationary }

// Bounds is the square the handle is drawn in.
func (h *Handle) Bounds() curve.Rect {
	half := h.size / 2
	return curve.Rect{X0: h.pos.X - half, Y0: h.pos.Y - half, X1: h.pos.X + half, Y1: h.pos.Y + half}
}

// HandlePossibleMouseOver updates the hover flag for a pointer at p and
// reports whether the flag changed.
func (h *Handle) HandlePossibleMouseOver(p curve.Point) bool {
	switch h.kind {
	case Stationary:
		return false
	}
	box := h.Bounds().Inflate(mouseCushion, mouseCushion)
	within := p.X >= box.X0 && p.X <= box.X1 && p.Y >= box.Y0 && p.Y <= box.Y1
	changed := within != h.hovered
	h.hovered = within
	return changed
}

func (h *Handle) MouseOver() bool { return h.hovered }

// ForceMouseOver sets the hover flag directly. Stationary handles are never
// hovered.
func (h *Handle) ForceMouseOver(v bool) {
	switch h.kind {
	case Stationary:
		return
	default:
		h.hovered = v
	}
}

// SetSelected marks the handle as part of a multi-selection and reports
// whether that changed anything. Only free handles can be selected.
func (h *Handle) SetSelected(v bool) bool {
	switch h.kind {
	case Free2D:
		changed := h.selected != v
		h.selected = v
		return changed
	default:
		return false
	}
}

func (h *Handle) Selected() bool { return h.selected }
