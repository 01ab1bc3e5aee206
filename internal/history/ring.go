// Package history keeps a bounded run of snapshots and walks it with a cursor.
package history

// DefaultDepth is the number of snapshots a Ring keeps when no depth is given.
const DefaultDepth = 50

// Ring is a fixed-capacity circular history. The oldest snapshot is dropped
// once the ring is full. Adding a snapshot after stepping back discards the
// snapshots that were ahead of the cursor.
type Ring[T any] struct {
	slots  []T
	oldest int // slot index of the oldest valid snapshot
	count  int // valid snapshots starting at oldest
	pos    int // cursor, as an offset from oldest
}

func New[T any](depth int) *Ring[T] {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Ring[T]{slots: make([]T, depth)}
}

func (r *Ring[T]) index(offset int) int {
	return (r.oldest + offset) % len(r.slots)
}

// AddState stores s after the cursor and moves the cursor onto it. The very
// first call only establishes the baseline.
func (r *Ring[T]) AddState(s T) {
	if r.count == 0 {
		r.slots[r.oldest] = s
		r.count = 1
		r.pos = 0
		return
	}

	r.count = r.pos + 1
	if r.count == len(r.slots) {
		r.oldest = r.index(1)
		r.count--
		r.pos--
	}
	r.pos++
	r.count++
	r.slots[r.index(r.pos)] = s
}

// Previous steps the cursor back. It reports false, leaving the cursor
// alone, when the cursor already sits on the oldest snapshot.
func (r *Ring[T]) Previous() (T, bool) {
	var zero T
	if !r.CanUndo() {
		return zero, false
	}
	r.pos--
	return r.slots[r.index(r.pos)], true
}

// Next steps the cursor forward. It reports false at the newest snapshot.
func (r *Ring[T]) Next() (T, bool) {
	var zero T
	if !r.CanRedo() {
		return zero, false
	}
	r.pos++
	return r.slots[r.index(r.pos)], true
}

func (r *Ring[T]) Current() (T, bool) {
	var zero T
	if r.count == 0 {
		return zero, false
	}
	return r.slots[r.index(r.pos)], true
}

func (r *Ring[T]) CanUndo() bool { return r.count > 0 && r.pos > 0 }

func (r *Ring[T]) CanRedo() bool { return r.pos+1 < r.count }

// Len returns the number of reachable snapshots.
func (r *Ring[T]) Len() int { return r.count }

func (r *Ring[T]) Cap() int { return len(r.slots) }

func (r *Ring[T]) Clear() {
	var zero T
	for i := range r.slots {
		r.slots[i] = zero
	}
	r.oldest, r.count, r.pos = 0, 0, 0
}
