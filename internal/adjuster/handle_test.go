package adjuster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"honnef.co/go/curve"
)

func TestStationaryHandleIgnoresEverything(t *testing.T) {
	h := NewHandle(Stationary, 8, curve.Pt(0, 300))

	h.SetPos(curve.Pt(0, 100))
	assert.Equal(t, curve.Pt(0, 300), h.Pos())

	assert.False(t, h.HandlePossibleMouseOver(curve.Pt(0, 300)))
	assert.False(t, h.MouseOver())

	h.ForceMouseOver(true)
	assert.False(t, h.MouseOver())

	assert.False(t, h.SetSelected(true))
	assert.False(t, h.Selected())
	assert.False(t, h.CanMoveHorizontally())
	assert.False(t, h.CanMoveVertically())
}

func TestCapabilities(t *testing.T) {
	tests := []struct {
		kind       Capability
		horizontal bool
		vertical   bool
		selectable bool
	}{
		{Stationary, false, false, false},
		{VerticalOnly, false, true, false},
		{Free2D, true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			h := NewHandle(tt.kind, 8, curve.Pt(10, 10))
			assert.Equal(t, tt.horizontal, h.CanMoveHorizontally())
			assert.Equal(t, tt.vertical, h.CanMoveVertically())
			h.SetSelected(true)
			assert.Equal(t, tt.selectable, h.Selected())
		})
	}
}

func TestHandleHoverBoxIsInclusive(t *testing.T) {
	h := NewHandle(Free2D, 8, curve.Pt(100, 100))

	// 4 for half the handle plus the cushion of 5.
	assert.True(t, h.HandlePossibleMouseOver(curve.Pt(109, 109)))
	assert.True(t, h.MouseOver())

	assert.False(t, h.HandlePossibleMouseOver(curve.Pt(109, 109)), "no change")

	assert.True(t, h.HandlePossibleMouseOver(curve.Pt(109.5, 100)))
	assert.False(t, h.MouseOver())

	assert.True(t, h.HandlePossibleMouseOver(curve.Pt(91, 91)))
	assert.True(t, h.MouseOver())
}

func TestHandleBoundsCentredOnPosition(t *testing.T) {
	h := NewHandle(VerticalOnly, 8, curve.Pt(0, 50))
	assert.Equal(t, curve.Rect{X0: -4, Y0: 46, X1: 4, Y1: 54}, h.Bounds())
	assert.Equal(t, curve.Pt(0, 50), h.Bounds().Center())
}
