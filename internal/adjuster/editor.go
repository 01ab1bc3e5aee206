// Package adjuster is the curve editing engine: handles, the quadratic
// connectors between them, multi-selection, undo and evaluation. It has no
// notion of a screen; front-ends feed it pointer positions in canvas pixels.
package adjuster

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/rs/zerolog/log"
	"honnef.co/go/curve"

	"curvedit/internal/geom"
	"curvedit/internal/history"
	"curvedit/internal/store"
)

// DefaultHandleSize is the diameter of a handle in pixels.
const DefaultHandleSize = 8.0

type Options struct {
	Width, Height float64
	HandleSize    float64
	// MinAdjustable lets the first handle move vertically.
	MinAdjustable bool
	// MaxAdjustable lets the last handle move vertically.
	MaxAdjustable bool
	UndoDepth     int
	// ReceivesModulation polls the store's input and shows a trace whenever
	// it moves.
	ReceivesModulation bool
	// Rand drives the random selection actions. A seeded source is used
	// when nil.
	Rand *rand.Rand
}

func (o *Options) defaults() {
	if o.Width <= 0 {
		o.Width = 400
	}
	if o.Height <= 0 {
		o.Height = 300
	}
	if o.HandleSize <= 0 {
		o.HandleSize = DefaultHandleSize
	}
	if o.UndoDepth <= 0 {
		o.UndoDepth = history.DefaultDepth
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
}

// Editor owns the handles and connectors of one curve. Handles are kept in
// strictly increasing x with the first at 0 and the last at the canvas
// width; connector i joins handle i and handle i+1.
type Editor struct {
	opts          Options
	width, height float64
	size          float64

	handles    []*Handle
	connectors []*Connector

	store  *store.Store
	undo   *history.Ring[[]store.Segment]
	timers *Timers
	sel    *Selection

	dragging    bool
	changed     bool
	repaint     bool
	cachedInput float64
}

// New builds an editor over st, loading whatever curve st holds. A nil store
// gets a fresh one with the default ramp.
func New(opts Options, st *store.Store) *Editor {
	opts.defaults()
	if st == nil {
		st = store.New(nil)
	}
	e := &Editor{
		opts:   opts,
		width:  opts.Width,
		height: opts.Height,
		size:   opts.HandleSize,
		store:  st,
		undo:   history.New[[]store.Segment](opts.UndoDepth),
		timers: NewTimers(),
	}
	e.sel = newSelection(e.size, e.width, e.height, e.timers, opts.Rand)
	e.InitHandles()
	e.timers.Start(TimerInit)
	if opts.ReceivesModulation {
		e.cachedInput = st.Input()
		e.timers.Start(TimerModulation)
	}
	return e
}

func (e *Editor) Width() float64           { return e.width }
func (e *Editor) Height() float64          { return e.height }
func (e *Editor) HandleSize() float64      { return e.size }
func (e *Editor) Store() *store.Store      { return e.store }
func (e *Editor) Selection() *Selection    { return e.sel }
func (e *Editor) Timers() *Timers          { return e.timers }
func (e *Editor) Handles() []*Handle       { return e.handles }
func (e *Editor) Connectors() []*Connector { return e.connectors }

// ToPercent maps a canvas point to normalized coordinates, with y = 0 at the
// bottom edge.
func (e *Editor) ToPercent(p curve.Point) curve.Point {
	x := p.X / e.width
	y := p.Y / e.height
	return curve.Pt(x, (y-1)*-1)
}

// FromPercent is the inverse of ToPercent.
func (e *Editor) FromPercent(p curve.Point) curve.Point {
	x := p.X * e.width
	y := p.Y * e.height
	return curve.Pt(x, (y-e.height)*-1)
}

// Segments returns the connectors as pixel-space triples.
func (e *Editor) Segments() []store.Segment {
	out := make([]store.Segment, len(e.connectors))
	for i, c := range e.connectors {
		out[i] = store.Segment{Start: c.Start(), Control: c.Control(), End: c.End()}
	}
	return out
}

func (e *Editor) normalized() []store.Segment {
	segs := e.Segments()
	for i, s := range segs {
		segs[i] = store.Segment{
			Start:   e.ToPercent(s.Start),
			Control: e.ToPercent(s.Control),
			End:     e.ToPercent(s.End),
		}
	}
	return segs
}

// Changed reports whether the curve changed since the last call.
func (e *Editor) Changed() bool {
	c := e.changed
	e.changed = false
	return c
}

// NeedsRepaint reports whether anything visible changed since the last call,
// including hover and selection state.
func (e *Editor) NeedsRepaint() bool {
	r := e.repaint
	e.repaint = false
	return r
}

// markChanged mirrors the curve into the store.
func (e *Editor) markChanged() {
	e.store.Write(e.normalized())
	e.changed = true
	e.repaint = true
}

// commitUndo records the curve unless it matches the snapshot under the
// cursor.
func (e *Editor) commitUndo() {
	segs := e.Segments()
	if cur, ok := e.undo.Current(); ok && slices.Equal(cur, segs) {
		return
	}
	e.undo.AddState(segs)
}

func (e *Editor) boundaryKind(adjustable bool) Capability {
	if adjustable {
		return VerticalOnly
	}
	return Stationary
}

// AddHandle inserts a free handle at p, splitting the connector it lands on
// into two straight connectors. It fails when the curve is full, when p lies
// outside the canvas horizontally, or when a handle already sits at p.x.
// The y of p is clamped to the canvas.
func (e *Editor) AddHandle(p curve.Point) bool {
	if len(e.connectors) >= store.MaxConnectors {
		return false
	}
	if p.X < 0 || p.X > e.width {
		return false
	}
	p.Y = min(max(p.Y, 0), e.height)

	for i := 1; i < len(e.handles); i++ {
		prev, next := e.handles[i-1].Pos(), e.handles[i].Pos()
		if geom.ApproxEqual(p.X, prev.X) || geom.ApproxEqual(p.X, next.X) {
			return false
		}
		if p.X > next.X {
			continue
		}

		h := NewHandle(Free2D, e.size, p)
		e.handles = slices.Insert(e.handles, i, h)
		e.connectors[i-1] = NewConnector(prev, p)
		e.connectors = slices.Insert(e.connectors, i, NewConnector(p, next))
		e.markChanged()
		log.Debug().Int("handles", len(e.handles)).Float64("x", p.X).Float64("y", p.Y).Msg("handle added")
		return true
	}
	return false
}

// RemoveHandle drops interior handle i and merges its two connectors into
// one straight connector between the neighbours. Boundary handles cannot be
// removed.
func (e *Editor) RemoveHandle(i int) bool {
	if i <= 0 || i >= len(e.handles)-1 {
		return false
	}
	prev, next := e.handles[i-1].Pos(), e.handles[i+1].Pos()
	e.handles = slices.Delete(e.handles, i, i+1)
	e.connectors[i-1] = NewConnector(prev, next)
	e.connectors = slices.Delete(e.connectors, i, i+1)
	e.markChanged()
	log.Debug().Int("handles", len(e.handles)).Msg("handle removed")
	return true
}

// removeSelected drops every selected handle.
func (e *Editor) removeSelected() int {
	n := 0
	for i := 1; i < len(e.handles)-1; {
		if e.handles[i].Selected() && e.RemoveHandle(i) {
			n++
			continue
		}
		i++
	}
	return n
}

func (e *Editor) numSelected() int {
	n := 0
	for _, h := range e.handles {
		if h.Selected() {
			n++
		}
	}
	return n
}

func (e *Editor) deselectAll() {
	for _, h := range e.handles {
		if h.SetSelected(false) {
			e.repaint = true
		}
	}
}

func (e *Editor) clearHover() {
	for _, h := range e.handles {
		h.ForceMouseOver(false)
	}
	for _, c := range e.connectors {
		c.ForceMouseOver(false)
	}
	e.repaint = true
}

// checkSegments validates pixel-space triples and snaps the curve ends onto
// the canvas edges.
func (e *Editor) checkSegments(segs []store.Segment) ([]store.Segment, error) {
	switch {
	case len(segs) == 0:
		return nil, fmt.Errorf("curve has no segments")
	case len(segs) > store.MaxConnectors:
		return nil, fmt.Errorf("curve has %d segments, limit is %d", len(segs), store.MaxConnectors)
	case !geom.ApproxEqual(segs[0].Start.X, 0):
		return nil, fmt.Errorf("curve starts at x=%g, want 0", segs[0].Start.X)
	case !geom.ApproxEqual(segs[len(segs)-1].End.X, e.width):
		return nil, fmt.Errorf("curve ends at x=%g, want %g", segs[len(segs)-1].End.X, e.width)
	}
	out := make([]store.Segment, len(segs))
	copy(out, segs)
	out[0].Start.X = 0
	out[len(out)-1].End.X = e.width
	for i := range out {
		if i > 0 {
			out[i].Start = out[i-1].End
		}
		if out[i].End.X <= out[i].Start.X {
			return nil, fmt.Errorf("segment %d does not advance in x", i)
		}
	}
	return out, nil
}

// rebuild replaces every handle and connector with the curve described by
// segs, keeping each control point as given.
func (e *Editor) rebuild(segs []store.Segment) error {
	segs, err := e.checkSegments(segs)
	if err != nil {
		return err
	}

	handles := make([]*Handle, 0, len(segs)+1)
	handles = append(handles, NewHandle(e.boundaryKind(e.opts.MinAdjustable), e.size, segs[0].Start))
	for _, s := range segs[1:] {
		handles = append(handles, NewHandle(Free2D, e.size, s.Start))
	}
	handles = append(handles, NewHandle(e.boundaryKind(e.opts.MaxAdjustable), e.size, segs[len(segs)-1].End))

	connectors := make([]*Connector, len(segs))
	for i, s := range segs {
		connectors[i] = NewCurvedConnector(handles[i].Pos(), s.Control, handles[i+1].Pos())
	}

	e.handles = handles
	e.connectors = connectors
	e.dragging = false
	e.sel.finish()
	return nil
}

// InitHandles loads the curve from the store. A store without a usable curve
// falls back to the default ramp. The undo history restarts from the loaded
// curve.
func (e *Editor) InitHandles() {
	norm := e.store.Segments()
	segs := make([]store.Segment, len(norm))
	for i, s := range norm {
		segs[i] = store.Segment{
			Start:   e.FromPercent(s.Start),
			Control: e.FromPercent(s.Control),
			End:     e.FromPercent(s.End),
		}
	}
	if err := e.rebuild(segs); err != nil {
		log.Warn().Err(err).Msg("store holds no usable curve, using default")
		def := store.DefaultSegments()
		for i, s := range def {
			def[i] = store.Segment{
				Start:   e.FromPercent(s.Start),
				Control: e.FromPercent(s.Control),
				End:     e.FromPercent(s.End),
			}
		}
		if err := e.rebuild(def); err != nil {
			invariant("default curve rejected", map[string]any{"error": err.Error()})
		}
		e.markChanged()
	}
	e.undo.Clear()
	e.commitUndo()
	e.repaint = true
	log.Debug().Int("handles", len(e.handles)).Msg("curve loaded from store")
}

// ReplaceState rebuilds the curve from pixel-space triples and records the
// result as one undoable edit.
func (e *Editor) ReplaceState(segs []store.Segment) error {
	if err := e.rebuild(segs); err != nil {
		return err
	}
	e.markChanged()
	e.commitUndo()
	return nil
}

func (e *Editor) restore(segs []store.Segment) {
	if err := e.rebuild(segs); err != nil {
		invariant("undo snapshot rejected", map[string]any{"error": err.Error()})
		return
	}
	e.markChanged()
}

// Undo steps back one edit. It reports false at the oldest snapshot.
func (e *Editor) Undo() bool {
	segs, ok := e.undo.Previous()
	if !ok {
		return false
	}
	e.restore(segs)
	return true
}

// Redo steps forward one edit. It reports false at the newest snapshot.
func (e *Editor) Redo() bool {
	segs, ok := e.undo.Next()
	if !ok {
		return false
	}
	e.restore(segs)
	return true
}

func (e *Editor) CanUndo() bool { return e.undo.CanUndo() }
func (e *Editor) CanRedo() bool { return e.undo.CanRedo() }
