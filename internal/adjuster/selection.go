package adjuster

import (
	"math"
	"math/rand/v2"

	"honnef.co/go/curve"
)

const randomPointAttempts = 25

// Selection tracks a rectangular multi-selection and the group move applied
// to the handles inside it.
type Selection struct {
	size          float64
	width, height float64

	start, end  curve.Point
	origin      curve.Point // pointer position the current group move is measured from
	translation curve.Vec2

	inProgress bool
	moving     bool

	timers *Timers
	rng    *rand.Rand
}

func newSelection(size, width, height float64, timers *Timers, rng *rand.Rand) *Selection {
	return &Selection{size: size, width: width, height: height, timers: timers, rng: rng}
}

func (s *Selection) InProgress() bool { return s.inProgress }
func (s *Selection) Moving() bool     { return s.moving }

// Rect returns the selection with its corners ordered.
func (s *Selection) Rect() curve.Rect {
	return curve.NewRectFromPoints(s.start, s.end)
}

func (s *Selection) SetSelectionStart(p curve.Point) {
	s.start = p
	s.end = p
	s.inProgress = true
}

func (s *Selection) SetSelectionEnd(p curve.Point) {
	s.end = p
	s.timers.Start(TimerSelection)
}

// finish drops the selection rectangle and any pending group move.
func (s *Selection) finish() {
	s.inProgress = false
	s.moving = false
	s.timers.Stop(TimerSelection)
}

// Contains reports whether p is strictly inside the selection.
func (s *Selection) Contains(p curve.Point) bool {
	r := s.Rect()
	return p.X > r.X0 && p.X < r.X1 && p.Y > r.Y0 && p.Y < r.Y1
}

// DetermineHandlesInSelection marks exactly the handles inside the
// rectangle as selected. It reports whether any flag changed.
func (s *Selection) DetermineHandlesInSelection(handles []*Handle) bool {
	changed := false
	for _, h := range handles {
		if h.SetSelected(s.Contains(h.Pos())) {
			changed = true
		}
	}
	return changed
}

// ResetTimer restarts the idle countdown.
func (s *Selection) ResetTimer() { s.timers.Restart(TimerSelection) }

// ShortenTimer skips ahead to the fading half of the countdown.
func (s *Selection) ShortenTimer() {
	s.timers.SetElapsed(TimerSelection, s.timers.Max(TimerSelection)/2)
}

// Opacity is the fill opacity of the selection rectangle: constant for the
// first half of the countdown, then fading to zero.
func (s *Selection) Opacity() float64 {
	maxTicks := s.timers.Max(TimerSelection)
	n := s.timers.Elapsed(TimerSelection)
	if n >= maxTicks/2 {
		return float64(maxTicks-n) / float64(maxTicks)
	}
	return 0.5
}

// Translation is the pending group move after limiting.
func (s *Selection) Translation() curve.Vec2 { return s.translation }

func (s *Selection) translate(p curve.Point) curve.Point {
	return p.Translate(s.translation)
}

// SetAndLimitTranslation sets the group move to the pointer's offset from
// the move origin, then zeroes the x and y parts that would push any selected
// handle into an unselected neighbour or off the canvas.
func (s *Selection) SetAndLimitTranslation(handles []*Handle, p curve.Point) {
	s.translation = p.Sub(s.origin)
	for i, h := range handles {
		if !h.Selected() {
			continue
		}
		s.limitX(handles, i)
		s.limitY(handles, i)
	}
	s.limitOverlap(handles)
}

// limitOverlap zeroes translation components until no selected handle lands
// within one handle size, on both axes, of an unselected one it was clear of.
// x goes first.
func (s *Selection) limitOverlap(handles []*Handle) {
	for s.translation != (curve.Vec2{}) {
		i := s.overlapping(handles, s.translation)
		if i < 0 {
			return
		}
		p := handles[i].Pos()
		switch {
		case s.translation.X != 0 && !s.overlaps(handles, p, p.Translate(curve.Vec(0, s.translation.Y))):
			s.translation.X = 0
		case s.translation.Y != 0 && !s.overlaps(handles, p, p.Translate(curve.Vec(s.translation.X, 0))):
			s.translation.Y = 0
		default:
			s.translation = curve.Vec2{}
		}
	}
}

// overlapping returns the first selected handle that t moves too close to an
// unselected one, or -1.
func (s *Selection) overlapping(handles []*Handle, t curve.Vec2) int {
	for i, h := range handles {
		if h.Selected() && s.overlaps(handles, h.Pos(), h.Pos().Translate(t)) {
			return i
		}
	}
	return -1
}

func (s *Selection) overlaps(handles []*Handle, from, to curve.Point) bool {
	for _, o := range handles {
		if o.Selected() {
			continue
		}
		op := o.Pos()
		if s.close(op, to) && !s.close(op, from) {
			return true
		}
	}
	return false
}

func (s *Selection) close(a, b curve.Point) bool {
	return math.Abs(a.X-b.X) < s.size && math.Abs(a.Y-b.Y) < s.size
}

func (s *Selection) limitX(handles []*Handle, i int) {
	this := handles[i].Pos()
	moved := s.translate(this)

	switch {
	case s.translation.X < 0:
		if i == 0 || handles[i-1].Selected() {
			return
		}
		left := handles[i-1].Pos()
		switch {
		case math.Abs(left.Y-this.Y) <= s.size*2:
			if left.X+s.size+1 >= moved.X {
				s.translation.X = 0
			}
		case i-1 == 0:
			if moved.X <= s.size/2 {
				s.translation.X = 0
			}
		case left.X+1 >= moved.X:
			s.translation.X = 0
		}

	case s.translation.X > 0:
		if i == len(handles)-1 || handles[i+1].Selected() {
			return
		}
		right := handles[i+1].Pos()
		switch {
		case math.Abs(right.Y-this.Y) <= s.size*2:
			if right.X-s.size-1 <= moved.X {
				s.translation.X = 0
			}
		case i+1 == len(handles)-1:
			if moved.X >= s.width-s.size/2 {
				s.translation.X = 0
			}
		case right.X-1 <= moved.X:
			s.translation.X = 0
		}
	}
}

func (s *Selection) limitY(handles []*Handle, i int) {
	this := handles[i].Pos()

	for _, j := range [2]int{i - 1, i + 1} {
		if s.translation.Y == 0 {
			break
		}
		if j < 0 || j >= len(handles) || handles[j].Selected() {
			continue
		}
		other := handles[j].Pos()
		if math.Abs(other.X-this.X) > s.size {
			continue
		}
		moved := s.translate(this)
		switch {
		case s.translation.Y < 0 && other.Y < this.Y:
			if other.Y+s.size+1 >= moved.Y {
				s.translation.Y = 0
			}
		case s.translation.Y > 0 && other.Y > this.Y:
			if other.Y-s.size-1 <= moved.Y {
				s.translation.Y = 0
			}
		}
	}

	moved := s.translate(this)
	if s.translation.Y < 0 && moved.Y < 0 {
		s.translation.Y = 0
	} else if s.translation.Y > 0 && moved.Y > s.height {
		s.translation.Y = 0
	}
}

// MoveSelection shifts the rectangle by the limited translation and keeps
// the selection alive.
func (s *Selection) MoveSelection() {
	s.timers.SetElapsed(TimerSelection, 0)
	s.start = s.translate(s.start)
	s.end = s.translate(s.end)
}

// RandomPointWithinSelection samples the selection for a point at least two
// handle sizes from every handle, one handle size inside the rectangle and
// one handle size from the canvas edges.
func (s *Selection) RandomPointWithinSelection(handles []*Handle) (curve.Point, bool) {
	r := s.Rect()
	x0, x1 := r.X0+s.size, r.X1-s.size
	y0, y1 := r.Y0+s.size, r.Y1-s.size
	if x0 >= x1 || y0 >= y1 {
		return curve.Point{}, false
	}

	for range randomPointAttempts {
		p := curve.Pt(x0+s.rng.Float64()*(x1-x0), y0+s.rng.Float64()*(y1-y0))
		if s.acceptable(handles, p) {
			return p, true
		}
	}
	return curve.Point{}, false
}

func (s *Selection) acceptable(handles []*Handle, p curve.Point) bool {
	if p.X < s.size || p.X > s.width-s.size || p.Y < s.size || p.Y > s.height-s.size {
		return false
	}
	for _, h := range handles {
		o := h.Pos()
		if math.Abs(o.X-p.X) < s.size*2 && math.Abs(o.Y-p.Y) < s.size*2 {
			return false
		}
	}
	return true
}

// MiddlePoints is a horizontal line through the middle of the selection.
func (s *Selection) MiddlePoints() (curve.Point, curve.Point) {
	r := s.Rect()
	midY := r.Y1 - r.Height()/2
	return curve.Pt(r.X0, midY), curve.Pt(r.X1, midY)
}

// RampUpPoints runs from the bottom left to the top right corner.
func (s *Selection) RampUpPoints() (curve.Point, curve.Point) {
	r := s.Rect()
	return curve.Pt(r.X0, r.Y1), curve.Pt(r.X1, r.Y0)
}

// RampDownPoints runs from the top left to the bottom right corner.
func (s *Selection) RampDownPoints() (curve.Point, curve.Point) {
	r := s.Rect()
	return curve.Pt(r.X0, r.Y0), curve.Pt(r.X1, r.Y1)
}
