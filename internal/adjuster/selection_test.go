package adjuster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"honnef.co/go/curve"
)

func dragSelect(e *Editor, from, to curve.Point) {
	e.MouseDown(from, LeftButton)
	e.MouseDrag(from)
	e.MouseDrag(to)
	e.MouseUp()
}

func TestDragSelectionAndGroupMove(t *testing.T) {
	e := flatEditor(t, Options{}, curve.Pt(100, 150), curve.Pt(200, 150), curve.Pt(300, 150))

	dragSelect(e, curve.Pt(50, 100), curve.Pt(250, 200))
	require.True(t, e.Selection().InProgress())
	assert.True(t, e.Handles()[1].Selected())
	assert.True(t, e.Handles()[2].Selected())
	assert.False(t, e.Handles()[3].Selected())

	e.MouseDown(curve.Pt(150, 150), LeftButton)
	require.True(t, e.Selection().Moving())
	e.MouseDrag(curve.Pt(160, 140))
	e.MouseUp()

	requireWellFormed(t, e)
	assert.Equal(t, curve.Pt(110, 140), e.Handles()[1].Pos())
	assert.Equal(t, curve.Pt(210, 140), e.Handles()[2].Pos())
	assert.Equal(t, curve.Pt(300, 150), e.Handles()[3].Pos())
	assert.Equal(t, curve.Rect{X0: 60, Y0: 90, X1: 260, Y1: 190}, e.Selection().Rect())

	// The unselected neighbour at x=300 blocks a move to the right.
	e.MouseDown(curve.Pt(200, 150), LeftButton)
	e.MouseDrag(curve.Pt(300, 150))
	e.MouseUp()
	assert.Equal(t, curve.Pt(110, 140), e.Handles()[1].Pos())
	assert.Equal(t, curve.Pt(210, 140), e.Handles()[2].Pos())
}

func TestDiagonalGroupMoveKeepsSpacing(t *testing.T) {
	e := flatEditor(t, Options{}, curve.Pt(100, 100), curve.Pt(120, 130))

	dragSelect(e, curve.Pt(90, 90), curve.Pt(110, 110))
	require.True(t, e.Handles()[1].Selected())
	require.False(t, e.Handles()[2].Selected())

	e.MouseDown(curve.Pt(100, 100), LeftButton)
	e.MouseDrag(curve.Pt(115, 125))
	e.MouseUp()

	requireWellFormed(t, e)
	assert.Equal(t, curve.Pt(100, 125), e.Handles()[1].Pos())
	assert.GreaterOrEqual(t, e.Handles()[1].Pos().Distance(e.Handles()[2].Pos()), e.HandleSize())
}

func TestGroupMoveStaysOnCanvas(t *testing.T) {
	e := flatEditor(t, Options{}, curve.Pt(200, 20))
	e.SelectAll()
	e.MouseDown(curve.Pt(200, 150), LeftButton)
	e.MouseDrag(curve.Pt(200, 100))
	e.MouseUp()
	assert.Equal(t, curve.Pt(200, 20), e.Handles()[1].Pos())
}

func TestPressOutsideSelectionDropsIt(t *testing.T) {
	e := flatEditor(t, Options{}, curve.Pt(200, 150))
	e.SelectAll()
	require.True(t, e.Handles()[1].Selected())

	assert.Equal(t, SelectionMenu, e.MouseDown(curve.Pt(200, 150), RightButton))
	assert.False(t, e.Timers().Running(TimerSelection))
	e.CancelMenu()
	assert.True(t, e.Timers().Running(TimerSelection))

	assert.Equal(t, NoMenu, e.MouseDown(curve.Pt(0, 0), LeftButton))
	assert.False(t, e.Selection().InProgress())
	assert.False(t, e.Handles()[1].Selected())

	assert.Equal(t, PresetMenu, e.MouseDown(curve.Pt(200, 150), RightButton))
}

func TestSelectionTimesOut(t *testing.T) {
	e := flatEditor(t, Options{}, curve.Pt(200, 150))
	e.SelectAll()
	assert.Equal(t, 0.5, e.Selection().Opacity())

	for range selectionTicks - 1 {
		e.Tick()
	}
	assert.True(t, e.Selection().InProgress())
	assert.True(t, e.Handles()[1].Selected())
	assert.InDelta(t, 0.01, e.Selection().Opacity(), 1e-9)

	e.Tick()
	assert.False(t, e.Selection().InProgress())
	assert.False(t, e.Handles()[1].Selected())
}

func TestShortenTimerJumpsToFade(t *testing.T) {
	e := flatEditor(t, Options{})
	e.SelectAll()
	e.Selection().ShortenTimer()
	assert.Equal(t, selectionTicks/2, e.Timers().Elapsed(TimerSelection))
	e.Tick()
	assert.InDelta(t, 0.49, e.Selection().Opacity(), 1e-9)
}

func TestDeleteSelection(t *testing.T) {
	e := flatEditor(t, Options{}, curve.Pt(100, 150), curve.Pt(200, 150))
	assert.False(t, e.DeleteSelection())

	e.SelectAll()
	require.True(t, e.DeleteSelection())
	requireWellFormed(t, e)
	assert.Len(t, e.Handles(), 2)
	assert.False(t, e.Selection().InProgress())

	require.True(t, e.Undo())
	assert.Len(t, e.Handles(), 4)
}

func TestNudgeMovesSelectionOnePixel(t *testing.T) {
	e := flatEditor(t, Options{}, curve.Pt(100, 150))
	assert.False(t, e.Nudge(0, -1))

	e.SelectAll()
	require.True(t, e.Nudge(0, -1))
	assert.Equal(t, curve.Pt(100, 149), e.Handles()[1].Pos())
	require.True(t, e.Nudge(-1, 0))
	assert.Equal(t, curve.Pt(99, 149), e.Handles()[1].Pos())
	assert.False(t, e.Selection().Moving())

	require.True(t, e.Undo())
	assert.Equal(t, curve.Pt(100, 149), e.Handles()[1].Pos())
}

func TestBlockedNudgeIsNotAnEdit(t *testing.T) {
	e := flatEditor(t, Options{}, curve.Pt(200, 1))
	require.True(t, e.Changed())
	e.SelectAll()
	require.True(t, e.Handles()[1].Selected())
	assert.False(t, e.Nudge(0, -2))
	assert.Equal(t, curve.Pt(200, 1), e.Handles()[1].Pos())
	assert.False(t, e.Changed())

	require.True(t, e.Undo())
	assert.Len(t, e.Handles(), 2)
}

func TestRandomPointKeepsDistance(t *testing.T) {
	e := flatEditor(t, Options{}, curve.Pt(200, 150))
	e.SelectAll()
	size := e.HandleSize()

	for range 20 {
		p, ok := e.Selection().RandomPointWithinSelection(e.Handles())
		require.True(t, ok)
		assert.GreaterOrEqual(t, p.X, size)
		assert.LessOrEqual(t, p.X, testW-size)
		assert.GreaterOrEqual(t, p.Y, size)
		assert.LessOrEqual(t, p.Y, testH-size)
		for _, h := range e.Handles() {
			o := h.Pos()
			far := math.Abs(o.X-p.X) >= size*2 || math.Abs(o.Y-p.Y) >= size*2
			assert.True(t, far, "%v too close to %v", p, o)
		}
	}
}

func TestRandomPointInTinySelectionFails(t *testing.T) {
	e := flatEditor(t, Options{})
	sel := e.Selection()
	sel.SetSelectionStart(curve.Pt(10, 10))
	sel.SetSelectionEnd(curve.Pt(20, 20))
	_, ok := sel.RandomPointWithinSelection(e.Handles())
	assert.False(t, ok)
}

func TestReplaceSelectionWithRamp(t *testing.T) {
	e := flatEditor(t, Options{}, curve.Pt(150, 250), curve.Pt(200, 200), curve.Pt(250, 250))
	dragSelect(e, curve.Pt(100, 100), curve.Pt(300, 280))

	require.True(t, e.ApplySelectionAction(ReplaceWithRampUp))
	requireWellFormed(t, e)
	require.Len(t, e.Handles(), 4)
	assert.Equal(t, curve.Pt(100, 280), e.Handles()[1].Pos())
	assert.Equal(t, curve.Pt(300, 100), e.Handles()[2].Pos())
	assert.True(t, e.Handles()[1].Selected())
	assert.True(t, e.Handles()[2].Selected())
	assert.True(t, e.Selection().InProgress())
}

func TestReplaceSelectionReachingWall(t *testing.T) {
	e := flatEditor(t, Options{MinAdjustable: true}, curve.Pt(200, 250))
	e.SelectAll()

	require.True(t, e.ApplySelectionAction(ReplaceWithFlat))
	requireWellFormed(t, e)
	require.Len(t, e.Handles(), 2)
	assert.Equal(t, curve.Pt(0, 150), e.Handles()[0].Pos())
	assert.Equal(t, curve.Pt(testW, testH), e.Handles()[1].Pos(), "stationary end stays")
	assert.False(t, e.Selection().InProgress())
}

func TestRandomSelectionActions(t *testing.T) {
	e := flatEditor(t, Options{}, curve.Pt(100, 150), curve.Pt(200, 150), curve.Pt(300, 150))
	e.SelectAll()

	require.True(t, e.ApplySelectionAction(RemoveRandomHandle))
	requireWellFormed(t, e)
	assert.Len(t, e.Handles(), 4)

	require.True(t, e.ApplySelectionAction(AddRandomHandle))
	requireWellFormed(t, e)
	assert.Len(t, e.Handles(), 5)

	require.True(t, e.ApplySelectionAction(RandomizeSelection))
	requireWellFormed(t, e)
	assert.LessOrEqual(t, len(e.Handles()), 5)
	assert.True(t, e.CanUndo())
}

func TestSelectionActionsAtCapacity(t *testing.T) {
	e := flatEditor(t, Options{})
	assert.Contains(t, e.SelectionActions(), AddRandomHandle)
	for i := 1; len(e.Connectors()) < 30; i++ {
		require.True(t, e.AddHandle(curve.Pt(float64(i)*10, 150)))
	}
	assert.NotContains(t, e.SelectionActions(), AddRandomHandle)
}
