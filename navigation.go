package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"curvedit/internal/adjuster"
)

func (m *model) handleNavigation(key string, speed int) (tea.Model, tea.Cmd) {
	if m.editor.Selection().InProgress() && !m.grabbing {
		if dx, dy, ok := arrowDelta(key); ok {
			m.editor.Nudge(float64(dx*speed), float64(dy*speed))
			m.afterEdit()
			return m, nil
		}
	}
	return m.handleCursorMove(key, speed), nil
}

// arrowDelta maps the plain and shifted arrow keys to a direction. hjkl only
// ever moves the pointer.
func arrowDelta(key string) (int, int, bool) {
	switch key {
	case "left", "shift+left":
		return -1, 0, true
	case "right", "shift+right":
		return 1, 0, true
	case "up", "shift+up":
		return 0, -1, true
	case "down", "shift+down":
		return 0, 1, true
	}
	return 0, 0, false
}

func (m *model) handleCursorMove(key string, speed int) tea.Model {
	switch key {
	case "h", "left", "H", "shift+left":
		m.cursorX -= speed
	case "l", "right", "L", "shift+right":
		m.cursorX += speed
	case "k", "up", "K", "shift+up":
		m.cursorY -= speed
	case "j", "down", "J", "shift+down":
		m.cursorY += speed
	}
	m.ensureCursorInBounds()

	p := m.cellToPixel(m.cursorX, m.cursorY)
	if m.grabbing {
		m.editor.MouseDrag(p)
		m.afterEdit()
	} else {
		m.editor.MouseMove(p)
	}
	return m
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}

// toggleGrab presses or releases the virtual mouse button at the cursor.
func (m *model) toggleGrab() {
	p := m.cellToPixel(m.cursorX, m.cursorY)
	if m.grabbing {
		m.grabbing = false
		m.editor.MouseUp()
		m.afterEdit()
		return
	}
	m.editor.MouseMove(p)
	m.editor.MouseDown(p, adjuster.LeftButton)
	m.grabbing = true
}

func (m *model) ensureCursorInBounds() {
	w, h := m.canvasSize()
	m.cursorX = min(max(m.cursorX, 0), w-1)
	m.cursorY = min(max(m.cursorY, 0), h-1)
}
