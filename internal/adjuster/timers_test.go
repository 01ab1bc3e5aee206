package adjuster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountdownFiresOnceAndStops(t *testing.T) {
	tm := NewTimers()
	tm.Start(TimerTrace)

	for i := 1; i < traceTicks; i++ {
		assert.Empty(t, tm.Tick(), "tick %d", i)
	}
	assert.Equal(t, []TimerID{TimerTrace}, tm.Tick())
	assert.False(t, tm.Running(TimerTrace))
	assert.Empty(t, tm.Tick())
}

func TestStartIsIdempotent(t *testing.T) {
	tm := NewTimers()
	tm.Start(TimerSelection)
	tm.Tick()
	tm.Tick()
	tm.Start(TimerSelection)
	assert.Equal(t, 2, tm.Elapsed(TimerSelection))

	tm.Restart(TimerSelection)
	assert.Equal(t, 0, tm.Elapsed(TimerSelection))

	tm.Stop(TimerSelection)
	tm.Stop(TimerSelection)
	assert.False(t, tm.Running(TimerSelection))
}

func TestPollTimersFireEveryTick(t *testing.T) {
	tm := NewTimers()
	tm.Start(TimerInit)
	tm.Start(TimerModulation)
	for range 3 {
		assert.Equal(t, []TimerID{TimerInit, TimerModulation}, tm.Tick())
	}
}

func TestSetElapsedOnlyWhileRunning(t *testing.T) {
	tm := NewTimers()
	tm.SetElapsed(TimerSelection, 40)
	assert.Equal(t, 0, tm.Elapsed(TimerSelection))

	tm.Start(TimerSelection)
	tm.SetElapsed(TimerSelection, 40)
	assert.Equal(t, 40, tm.Elapsed(TimerSelection))
}
