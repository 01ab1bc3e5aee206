package adjuster

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"honnef.co/go/curve"

	"curvedit/internal/geom"
	"curvedit/internal/store"
)

// Preset is a canned curve offered on the canvas menu.
type Preset int

const (
	FlatBottom Preset = iota
	FlatMiddle
	FlatTop
	RampUpLinear
	RampUpExponential
	RampUpLogarithmic
	RampUpStaircase
	RampUpBinary
	RampDownLinear
	RampDownExponential
	RampDownLogarithmic
	RampDownStaircase
	RampDownBinary
)

func (p Preset) String() string {
	switch p {
	case FlatBottom:
		return "flat line: bottom"
	case FlatMiddle:
		return "flat line: middle"
	case FlatTop:
		return "flat line: top"
	case RampUpLinear:
		return "ramp up: linear"
	case RampUpExponential:
		return "ramp up: exponential"
	case RampUpLogarithmic:
		return "ramp up: logarithmic"
	case RampUpStaircase:
		return "ramp up: staircase"
	case RampUpBinary:
		return "ramp up: binary"
	case RampDownLinear:
		return "ramp down: linear"
	case RampDownExponential:
		return "ramp down: exponential"
	case RampDownLogarithmic:
		return "ramp down: logarithmic"
	case RampDownStaircase:
		return "ramp down: staircase"
	case RampDownBinary:
		return "ramp down: binary"
	default:
		return "unknown"
	}
}

// Presets lists the presets this editor offers. Curves that leave the
// bottom-left corner need an adjustable minimum.
func (e *Editor) Presets() []Preset {
	out := []Preset{FlatBottom}
	if e.opts.MinAdjustable {
		out = append(out, FlatMiddle, FlatTop)
	}
	out = append(out, RampUpLinear, RampUpExponential, RampUpLogarithmic, RampUpStaircase, RampUpBinary)
	if e.opts.MinAdjustable {
		out = append(out, RampDownLinear, RampDownExponential, RampDownLogarithmic, RampDownStaircase, RampDownBinary)
	}
	return out
}

func seg(start, control, end curve.Point) []store.Segment {
	return []store.Segment{{Start: start, Control: control, End: end}}
}

func (e *Editor) presetBase(p Preset) []store.Segment {
	w, h := e.width, e.height
	switch p {
	case FlatBottom:
		return seg(curve.Pt(0, h), curve.Pt(w/3, h), curve.Pt(w, h))
	case FlatMiddle:
		return seg(curve.Pt(0, h/2), curve.Pt(w/3, h/2), curve.Pt(w, h/2))
	case FlatTop:
		return seg(curve.Pt(0, 0), curve.Pt(w/3, 0), curve.Pt(w, 0))
	case RampUpLinear, RampUpStaircase, RampUpBinary:
		return seg(curve.Pt(0, h), curve.Pt(w*0.8, h*0.2), curve.Pt(w, 0))
	case RampUpExponential:
		return seg(curve.Pt(0, h), curve.Pt(w, h), curve.Pt(w, 0))
	case RampUpLogarithmic:
		return seg(curve.Pt(0, h), curve.Pt(0, 0), curve.Pt(w, 0))
	case RampDownLinear, RampDownStaircase, RampDownBinary:
		return seg(curve.Pt(0, 0), curve.Pt(1, 1), curve.Pt(w, h))
	case RampDownExponential:
		return seg(curve.Pt(0, 0), curve.Pt(0, h), curve.Pt(w, h))
	case RampDownLogarithmic:
		return seg(curve.Pt(0, 0), curve.Pt(w, 0), curve.Pt(w, h))
	}
	return nil
}

// ApplyPreset replaces the curve with p as one undoable edit.
func (e *Editor) ApplyPreset(p Preset) error {
	base := e.presetBase(p)
	if base == nil {
		return fmt.Errorf("unknown preset %d", int(p))
	}
	if err := e.rebuild(base); err != nil {
		return fmt.Errorf("preset %s: %w", p, err)
	}
	e.clearHover()

	switch p {
	case RampUpStaircase:
		e.stairs(e.height, -e.height/7)
	case RampDownStaircase:
		e.stairs(0, e.height/7)
	case RampUpBinary:
		e.toggleHandleAt(curve.Pt(e.width/2, e.height))
		e.toggleHandleAt(curve.Pt(e.width/2+1, 0))
	case RampDownBinary:
		e.toggleHandleAt(curve.Pt(e.width/2, 0))
		e.toggleHandleAt(curve.Pt(e.width/2+1, e.height))
	}

	e.markChanged()
	e.commitUndo()
	log.Debug().Str("preset", p.String()).Int("handles", len(e.handles)).Msg("preset applied")
	return nil
}

// stairs lays seven steps over the ramp, starting at y and moving by dy per
// step. Each step is a riser one pixel wide followed by a tread.
func (e *Editor) stairs(y, dy float64) {
	xIncr := e.width/8 - 1
	x := xIncr
	e.toggleHandleAt(curve.Pt(x, y))
	for {
		y += dy
		x++
		e.toggleHandleAt(curve.Pt(x, y))
		if e.pastEdge(y, dy) {
			return
		}
		x += xIncr
		e.toggleHandleAt(curve.Pt(x, y))
	}
}

func (e *Editor) pastEdge(y, dy float64) bool {
	if dy < 0 {
		return y <= 0 || geom.ApproxEqual(y, 0)
	}
	return y >= e.height || geom.ApproxEqual(y, e.height)
}

// SelectionAction is an entry of the multi-selection menu.
type SelectionAction int

const (
	ReplaceWithFlat SelectionAction = iota
	ReplaceWithRampUp
	ReplaceWithRampDown
	RandomizeSelection
	AddRandomHandle
	RemoveRandomHandle
)

func (a SelectionAction) String() string {
	switch a {
	case ReplaceWithFlat:
		return "replace with: flat line"
	case ReplaceWithRampUp:
		return "replace with: ramp up"
	case ReplaceWithRampDown:
		return "replace with: ramp down"
	case RandomizeSelection:
		return "random: randomize selection"
	case AddRandomHandle:
		return "random: add handle"
	case RemoveRandomHandle:
		return "random: take away handle"
	default:
		return "unknown"
	}
}

// SelectionActions lists the multi-selection menu entries available now.
func (e *Editor) SelectionActions() []SelectionAction {
	out := []SelectionAction{ReplaceWithFlat, ReplaceWithRampUp, ReplaceWithRampDown, RandomizeSelection}
	if len(e.connectors) < store.MaxConnectors {
		out = append(out, AddRandomHandle)
	}
	return append(out, RemoveRandomHandle)
}

// CancelMenu resumes the selection countdown after a menu closed without a
// choice.
func (e *Editor) CancelMenu() {
	if e.sel.InProgress() {
		e.sel.ResetTimer()
	}
}

// ApplySelectionAction runs a, records it as one edit and reports whether
// the curve changed.
func (e *Editor) ApplySelectionAction(a SelectionAction) bool {
	before := e.Segments()
	e.clearHover()

	switch a {
	case ReplaceWithFlat:
		e.replaceSelection(e.sel.MiddlePoints())
	case ReplaceWithRampUp:
		e.replaceSelection(e.sel.RampUpPoints())
	case ReplaceWithRampDown:
		e.replaceSelection(e.sel.RampDownPoints())
	case RandomizeSelection:
		n := e.numSelected()
		if n == 0 {
			n = 5
		} else {
			e.removeSelected()
		}
		for range n {
			e.addRandom()
		}
	case AddRandomHandle:
		e.addRandom()
	case RemoveRandomHandle:
		e.removeRandom()
	}

	e.CancelMenu()
	if slices.Equal(before, e.Segments()) {
		return false
	}
	e.markChanged()
	e.commitUndo()
	return true
}

func (e *Editor) addRandom() {
	if p, ok := e.sel.RandomPointWithinSelection(e.handles); ok {
		e.toggleHandleAt(p)
		e.sel.DetermineHandlesInSelection(e.handles)
	}
}

func (e *Editor) removeRandom() {
	var selected []int
	for i, h := range e.handles {
		if h.Selected() {
			selected = append(selected, i)
		}
	}
	if len(selected) == 0 {
		return
	}
	e.RemoveHandle(selected[e.opts.Rand.IntN(len(selected))])
}

// replaceSelection removes every free handle in the selection's x range and
// draws a single segment from a to b. An end that reaches a canvas wall moves
// the boundary handle there instead and ends the selection.
func (e *Editor) replaceSelection(a, b curve.Point) {
	r := e.sel.Rect()
	for _, h := range e.handles {
		x := h.Pos().X
		if x >= r.X0 && x <= r.X1 {
			h.SetSelected(true)
		}
	}
	e.removeSelected()

	keep := true
	if a.X >= e.size/2 {
		e.toggleHandleAt(a)
	} else {
		keep = false
		a.X = 0
		e.sel.finish()
		e.moveBoundary(a, 0)
	}
	if b.X <= e.width-e.size/2 {
		e.toggleHandleAt(b)
	} else {
		keep = false
		b.X = e.width
		e.sel.finish()
		e.moveBoundary(b, len(e.handles)-1)
	}

	if keep {
		for _, h := range e.handles {
			if h.Pos() == a || h.Pos() == b {
				h.SetSelected(true)
			}
		}
	}
}

// ControlPointsText lists every connector as {{start}, {control}, {end}},
// in canvas pixels, ready to paste into a preset table.
func (e *Editor) ControlPointsText() string {
	var b strings.Builder
	for _, c := range e.connectors {
		s, k, t := c.Start(), c.Control(), c.End()
		fmt.Fprintf(&b, "{{%g, %g}, {%g, %g}, {%g, %g}},\n", s.X, s.Y, k.X, k.Y, t.X, t.Y)
	}
	return b.String()
}
