package adjuster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetListDependsOnMinimum(t *testing.T) {
	fixed := newTestEditor(t, Options{})
	assert.Len(t, fixed.Presets(), 6)
	assert.NotContains(t, fixed.Presets(), FlatTop)

	free := newTestEditor(t, Options{MinAdjustable: true})
	assert.Len(t, free.Presets(), 13)
	assert.Contains(t, free.Presets(), RampDownBinary)
}

func TestEveryPresetIsWellFormed(t *testing.T) {
	for p := FlatBottom; p <= RampDownBinary; p++ {
		t.Run(p.String(), func(t *testing.T) {
			e := newTestEditor(t, Options{MinAdjustable: true, MaxAdjustable: true})
			require.NoError(t, e.ApplyPreset(p))
			requireWellFormed(t, e)
			assert.True(t, e.CanUndo())
			assert.True(t, e.Changed())

			for x := 0.0; x <= 1; x += 0.125 {
				v := e.Value(x)
				assert.GreaterOrEqual(t, v, -1e-9, "x=%g", x)
				assert.LessOrEqual(t, v, 1+1e-9, "x=%g", x)
			}
		})
	}
}

func TestUnknownPreset(t *testing.T) {
	e := newTestEditor(t, Options{})
	assert.Error(t, e.ApplyPreset(Preset(99)))
	assert.Equal(t, "unknown", Preset(99).String())
}

func TestStaircaseHasSevenSteps(t *testing.T) {
	e := newTestEditor(t, Options{})
	require.NoError(t, e.ApplyPreset(RampUpStaircase))
	require.Len(t, e.Handles(), 16)

	// Risers are one pixel wide.
	hs := e.Handles()
	for i := 1; i+1 < len(hs)-1; i += 2 {
		assert.Equal(t, 1.0, hs[i+1].Pos().X-hs[i].Pos().X, "riser at handle %d", i)
	}
	assert.InDelta(t, 0, e.Value(0.01), 1e-9)
	assert.InDelta(t, 1, e.Value(0.99), 1e-9)
}

func TestBinaryPresetSwitchesAtHalf(t *testing.T) {
	e := newTestEditor(t, Options{})
	require.NoError(t, e.ApplyPreset(RampUpBinary))
	require.Len(t, e.Handles(), 4)
	assert.InDelta(t, 0, e.Value(0.25), 1e-9)
	assert.InDelta(t, 1, e.Value(0.75), 1e-9)
}

func TestPresetIsOneUndoStep(t *testing.T) {
	e := newTestEditor(t, Options{})
	before := e.Segments()

	require.NoError(t, e.ApplyPreset(RampUpStaircase))
	require.True(t, e.Undo())
	assert.Equal(t, before, e.Segments())
	assert.False(t, e.CanUndo())

	require.True(t, e.Redo())
	assert.Len(t, e.Handles(), 16)
}

func TestSelectionActionWithoutChange(t *testing.T) {
	e := flatEditor(t, Options{})
	require.True(t, e.Changed())
	assert.False(t, e.ApplySelectionAction(RemoveRandomHandle))
	assert.False(t, e.Changed())
}

func TestControlPointsText(t *testing.T) {
	e := newTestEditor(t, Options{})
	require.NoError(t, e.ApplyPreset(FlatBottom))
	assert.Equal(t, "{{0, 300}, {133.33333333333334, 300}, {400, 300}},\n", e.ControlPointsText())
}
