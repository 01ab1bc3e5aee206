package adjuster

import (
	"github.com/rs/zerolog/log"
	"honnef.co/go/curve"

	"curvedit/internal/geom"
)

type Button int

const (
	LeftButton Button = iota
	RightButton
)

// Menu is the popup a press asks the front-end to open.
type Menu int

const (
	NoMenu Menu = iota
	PresetMenu
	SelectionMenu
)

// updateHandleHover refreshes every handle's hover flag for a pointer at p,
// keeping only the closest hovered handle. Equal distances keep the handle
// found first. It reports whether any handle is hovered.
func (e *Editor) updateHandleHover(p curve.Point) bool {
	closest := -1
	for i, h := range e.handles {
		if h.HandlePossibleMouseOver(p) {
			e.repaint = true
		}
		if !h.MouseOver() {
			continue
		}
		if closest < 0 {
			closest = i
			continue
		}
		if h.Pos().Distance(p) < e.handles[closest].Pos().Distance(p) {
			e.handles[closest].ForceMouseOver(false)
			closest = i
		} else {
			h.ForceMouseOver(false)
		}
	}
	return closest >= 0
}

func (e *Editor) updateConnectorHover(p curve.Point) {
	for _, c := range e.connectors {
		if c.HandlePossibleMouseOver(p) {
			e.repaint = true
		}
	}
}

func (e *Editor) hoveredHandle() int {
	for i, h := range e.handles {
		if h.MouseOver() {
			return i
		}
	}
	return -1
}

func (e *Editor) hoveredConnector() *Connector {
	for _, c := range e.connectors {
		if c.MouseOver() {
			return c
		}
	}
	return nil
}

// MouseMove updates hover state. Handles take precedence over connectors.
func (e *Editor) MouseMove(p curve.Point) {
	if e.updateHandleHover(p) {
		for _, c := range e.connectors {
			if c.MouseOver() {
				c.ForceMouseOver(false)
				e.repaint = true
			}
		}
		return
	}
	e.updateConnectorHover(p)
}

// MouseDown handles a press. A press outside an active selection drops it; a
// press inside arms a group move. Right presses ask for a menu.
func (e *Editor) MouseDown(p curve.Point, b Button) Menu {
	if e.sel.InProgress() {
		if !e.sel.Contains(p) {
			e.sel.finish()
			e.deselectAll()
			e.repaint = true
			return NoMenu
		}
		if b == RightButton {
			e.timers.Stop(TimerSelection)
			return SelectionMenu
		}
		e.sel.moving = true
		e.sel.origin = p
		return NoMenu
	}
	if b == RightButton {
		return PresetMenu
	}
	return NoMenu
}

// MouseUp finishes a drag and records it for undo.
func (e *Editor) MouseUp() {
	if e.sel.moving {
		e.sel.moving = false
		e.commitUndo()
	}
	if e.dragging {
		e.dragging = false
		e.commitUndo()
	}
}

// MouseExit clears hover state. A selection left behind starts fading.
func (e *Editor) MouseExit() {
	e.clearHover()
	if e.sel.InProgress() && !e.timers.Running(TimerSelection) {
		e.sel.ResetTimer()
	}
}

// MouseDrag moves whatever the press picked up: the selected group, the
// hovered handle, the hovered connector's control point, or else the corner
// of a new selection rectangle.
func (e *Editor) MouseDrag(p curve.Point) {
	if e.sel.Moving() {
		e.dragSelection(p)
		return
	}

	if i := e.hoveredHandle(); i >= 0 {
		e.dragging = true
		h := e.handles[i]
		switch {
		case h.CanMoveHorizontally():
			e.Move2DHandle(p, i, false)
		case h.CanMoveVertically():
			e.moveBoundary(p, i)
		}
		e.markChanged()
		return
	}

	if c := e.hoveredConnector(); c != nil {
		e.dragging = true
		c.AdjustControlPoint(p)
		e.markChanged()
		return
	}

	if !e.sel.InProgress() {
		e.sel.SetSelectionStart(p)
	} else {
		e.sel.SetSelectionEnd(p)
		e.sel.ResetTimer()
		e.sel.DetermineHandlesInSelection(e.handles)
	}
	e.repaint = true
}

// dragSelection applies the limited group move toward p and reports whether
// any handle moved.
func (e *Editor) dragSelection(p curve.Point) bool {
	e.sel.ResetTimer()
	e.sel.SetAndLimitTranslation(e.handles, p)
	e.sel.MoveSelection()
	moved := false
	if e.sel.translation != (curve.Vec2{}) {
		for i, h := range e.handles {
			if !h.Selected() {
				continue
			}
			e.Move2DHandle(e.sel.translate(h.Pos()), i, true)
			moved = true
		}
	}
	e.sel.origin = e.sel.translate(e.sel.origin)
	if moved {
		e.markChanged()
	}
	e.repaint = true
	return moved
}

// toggleHandleAt removes the hovered handle when it is free to move, ignores
// hovered boundary handles, and otherwise inserts a handle at p.
func (e *Editor) toggleHandleAt(p curve.Point) bool {
	if i := e.hoveredHandle(); i >= 0 {
		if !e.handles[i].CanMoveHorizontally() {
			return false
		}
		return e.RemoveHandle(i)
	}
	return e.AddHandle(p)
}

// DoubleClick inserts a handle at p, or removes the movable handle under
// the pointer. Any selection ends.
func (e *Editor) DoubleClick(p curve.Point) bool {
	e.updateHandleHover(p)
	ok := e.toggleHandleAt(p)
	if e.sel.InProgress() {
		e.sel.finish()
		e.deselectAll()
	}
	if ok {
		e.commitUndo()
	}
	return ok
}

// SelectAll selects every free handle.
func (e *Editor) SelectAll() {
	e.sel.SetSelectionStart(curve.Pt(0, 0))
	e.sel.SetSelectionEnd(curve.Pt(e.width, e.height))
	e.sel.ResetTimer()
	e.sel.DetermineHandlesInSelection(e.handles)
	e.repaint = true
}

// DeleteSelection removes the selected handles as one edit.
func (e *Editor) DeleteSelection() bool {
	if !e.sel.InProgress() {
		return false
	}
	n := e.removeSelected()
	e.sel.finish()
	e.repaint = true
	if n == 0 {
		return false
	}
	e.markChanged()
	e.commitUndo()
	log.Debug().Int("removed", n).Msg("selection deleted")
	return true
}

// Nudge moves the selection by (dx, dy) pixels as one edit, the way a short
// drag from the selection's centre would. It reports whether anything moved.
func (e *Editor) Nudge(dx, dy float64) bool {
	if !e.sel.InProgress() {
		return false
	}
	c := e.sel.Rect().Center()
	e.sel.origin = c
	moved := e.dragSelection(c.Translate(curve.Vec(dx, dy)))
	if moved {
		e.commitUndo()
	}
	return moved
}

// SetInput records a new normalized input and shows its trace.
func (e *Editor) SetInput(x float64) {
	e.store.SetInput(min(max(x, 0), 1))
	e.timers.Restart(TimerTrace)
	e.repaint = true
}

// WatchStore polls the store until its next Restore and then reloads.
func (e *Editor) WatchStore() { e.timers.Start(TimerInit) }

// Trace is the reference line drawn from the current input to the curve.
type Trace struct {
	X, Y    float64
	Opacity float64
}

// Trace reports the fading trace for the latest input, if one is showing.
func (e *Editor) Trace() (Trace, bool) {
	if !e.timers.Running(TimerTrace) {
		return Trace{}, false
	}
	x := e.store.Input() * (e.width - 1)
	n := float64(e.timers.Elapsed(TimerTrace))
	maxTicks := float64(e.timers.Max(TimerTrace))
	return Trace{
		X:       x,
		Y:       e.Evaluate(x),
		Opacity: (maxTicks - n) / maxTicks * 0.8,
	}, true
}

// Tick advances the editor's timers by one step.
func (e *Editor) Tick() {
	if e.timers.Running(TimerTrace) || (e.sel.InProgress() && e.timers.Running(TimerSelection)) {
		e.repaint = true
	}
	for _, id := range e.timers.Tick() {
		switch id {
		case TimerInit:
			if e.store.TakeReady() {
				e.timers.Stop(TimerInit)
				e.InitHandles()
			}
		case TimerTrace:
			e.repaint = true
		case TimerSelection:
			e.sel.finish()
			e.deselectAll()
			e.repaint = true
		case TimerModulation:
			if in := e.store.Input(); !geom.ApproxEqual(in, e.cachedInput) {
				e.cachedInput = in
				e.timers.Restart(TimerTrace)
				e.repaint = true
			}
		}
	}
	if !e.sel.InProgress() && e.numSelected() > 0 {
		e.deselectAll()
	}
}
