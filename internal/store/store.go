// Package store holds the persisted form of a curve: a fixed table of
// normalized segment records that the editor writes and that any other
// goroutine may read without locking.
package store

import (
	"math"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"honnef.co/go/curve"

	"curvedit/internal/geom"
)

// MaxConnectors is the number of segment records a Store can hold.
const MaxConnectors = 30

// Unused marks every field of a record that is not part of the curve.
const Unused = -1.0

// Segment is one quadratic segment given as start, control and end points.
type Segment struct {
	Start   curve.Point
	Control curve.Point
	End     curve.Point
}

// DefaultSegments is a linear ramp from (0,0) to (1,1).
func DefaultSegments() []Segment {
	return []Segment{{
		Start:   curve.Pt(0, 0),
		Control: curve.Pt(0.25, 0.25),
		End:     curve.Pt(1, 1),
	}}
}

type atomicFloat struct{ bits atomic.Uint64 }

func (f *atomicFloat) Load() float64   { return math.Float64frombits(f.bits.Load()) }
func (f *atomicFloat) Store(v float64) { f.bits.Store(math.Float64bits(v)) }

// Record is one slot of the table. Each field is independently atomic, so
// a reader may observe a record halfway through a write.
type Record struct {
	StartX, StartY     atomicFloat
	ControlX, ControlY atomicFloat
	EndX, EndY         atomicFloat
}

func (r *Record) load() Segment {
	return Segment{
		Start:   curve.Pt(r.StartX.Load(), r.StartY.Load()),
		Control: curve.Pt(r.ControlX.Load(), r.ControlY.Load()),
		End:     curve.Pt(r.EndX.Load(), r.EndY.Load()),
	}
}

func (r *Record) store(s Segment) {
	r.StartX.Store(s.Start.X)
	r.StartY.Store(s.Start.Y)
	r.ControlX.Store(s.Control.X)
	r.ControlY.Store(s.Control.Y)
	r.EndX.Store(s.End.X)
	r.EndY.Store(s.End.Y)
}

func (r *Record) clear() {
	r.store(Segment{
		Start:   curve.Pt(Unused, Unused),
		Control: curve.Pt(Unused, Unused),
		End:     curve.Pt(Unused, Unused),
	})
}

type Store struct {
	records [MaxConnectors]Record
	input   atomicFloat
	ready   atomic.Bool
}

// New returns a store seeded with segs, or with DefaultSegments when segs is
// empty.
func New(segs []Segment) *Store {
	s := &Store{}
	if len(segs) == 0 {
		segs = DefaultSegments()
	}
	s.Write(segs)
	return s
}

// NumConnectors counts records up to and including the first one that ends
// at x == 1.
func (s *Store) NumConnectors() int {
	for i := range s.records {
		if s.records[i].EndX.Load() == 1 {
			return i + 1
		}
	}
	log.Error().Msg("store: no record ends at x=1")
	return 0
}

// Segments returns a copy of the live records.
func (s *Store) Segments() []Segment {
	n := s.NumConnectors()
	out := make([]Segment, n)
	for i := 0; i < n; i++ {
		out[i] = s.records[i].load()
	}
	return out
}

// Write replaces the table with segs, last record first so that a
// concurrent reader always finds a terminating record. Slots past segs are
// filled with Unused. Extra segments beyond MaxConnectors are dropped.
func (s *Store) Write(segs []Segment) {
	if len(segs) > MaxConnectors {
		log.Warn().Int("segments", len(segs)).Msg("store: truncating curve to capacity")
		segs = segs[:MaxConnectors]
	}
	for i := len(segs) - 1; i >= 0; i-- {
		s.records[i].store(segs[i])
	}
	for i := len(segs); i < MaxConnectors; i++ {
		s.records[i].clear()
	}
}

// Restore writes segs and raises the ready flag so an attached editor
// rebuilds itself from the table.
func (s *Store) Restore(segs []Segment) {
	s.Write(segs)
	s.ready.Store(true)
}

// TakeReady reports whether Restore ran since the last call, and lowers the
// flag.
func (s *Store) TakeReady() bool {
	return s.ready.CompareAndSwap(true, false)
}

// Reset fills every record with Unused.
func (s *Store) Reset() {
	for i := range s.records {
		s.records[i].clear()
	}
}

// SetInput records the latest modulation input so editors can draw a trace.
func (s *Store) SetInput(x float64) { s.input.Store(x) }

func (s *Store) Input() float64 { return s.input.Load() }

// Evaluate returns the normalized output for a normalized input. Inputs at
// or below zero evaluate at zero.
func (s *Store) Evaluate(x float64) float64 {
	if x <= 0 {
		x = 0
	}
	n := s.NumConnectors()
	for i := 0; i < n; i++ {
		seg := s.records[i].load()
		if seg.Start.X < x && seg.End.X > x {
			return yAt(seg, x)
		}
		if geom.ApproxEqual(seg.Start.X, x) {
			return seg.Start.Y
		}
		if geom.ApproxEqual(seg.End.X, x) {
			return seg.End.Y
		}
	}
	return 0
}

func yAt(seg Segment, x float64) float64 {
	q := curve.QuadBez{P0: seg.Start, P1: seg.Control, P2: seg.End}
	y, ok := geom.YAt(geom.Flatten(q, geom.UnitTolerance), x)
	if !ok {
		log.Error().Float64("x", x).Msg("store: no path segment spans x")
		return 0
	}
	return y
}
