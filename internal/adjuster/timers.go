package adjuster

// TimerID names one of the editor's countdowns.
type TimerID int

const (
	// TimerInit polls the store until it has a curve to load.
	TimerInit TimerID = iota
	// TimerTrace fades the reference trace drawn while dragging.
	TimerTrace
	// TimerSelection clears an idle multi-selection.
	TimerSelection
	// TimerModulation polls the store's input for a new trace position.
	TimerModulation
	numTimers
)

const (
	traceTicks     = 50
	selectionTicks = 100
)

func (id TimerID) String() string {
	switch id {
	case TimerInit:
		return "init"
	case TimerTrace:
		return "trace"
	case TimerSelection:
		return "selection"
	case TimerModulation:
		return "modulation"
	default:
		return "unknown"
	}
}

type countdown struct {
	running bool
	elapsed int
	max     int // 0: never expires, fires on every tick
}

// Timers multiplexes the editor's countdowns onto one tick source. Starting a
// running timer or stopping a stopped one does nothing.
type Timers struct {
	c [numTimers]countdown
}

func NewTimers() *Timers {
	t := &Timers{}
	t.c[TimerTrace].max = traceTicks
	t.c[TimerSelection].max = selectionTicks
	return t
}

func (t *Timers) Start(id TimerID) {
	if t.c[id].running {
		return
	}
	t.c[id].running = true
	t.c[id].elapsed = 0
}

// Restart starts id from zero whether or not it was running.
func (t *Timers) Restart(id TimerID) {
	t.c[id].running = true
	t.c[id].elapsed = 0
}

func (t *Timers) Stop(id TimerID) {
	t.c[id].running = false
	t.c[id].elapsed = 0
}

func (t *Timers) Running(id TimerID) bool { return t.c[id].running }

func (t *Timers) Elapsed(id TimerID) int { return t.c[id].elapsed }

// SetElapsed moves a running countdown to n ticks.
func (t *Timers) SetElapsed(id TimerID, n int) {
	if t.c[id].running {
		t.c[id].elapsed = n
	}
}

func (t *Timers) Max(id TimerID) int { return t.c[id].max }

// Tick advances every running timer by one. It returns the timers that fired
// this tick: polling timers fire every tick, countdowns fire once when they
// expire and stop.
func (t *Timers) Tick() []TimerID {
	var fired []TimerID
	for i := range t.c {
		c := &t.c[i]
		if !c.running {
			continue
		}
		if c.max == 0 {
			fired = append(fired, TimerID(i))
			continue
		}
		c.elapsed++
		if c.elapsed >= c.max {
			c.running = false
			c.elapsed = 0
			fired = append(fired, TimerID(i))
		}
	}
	return fired
}
