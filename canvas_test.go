package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"honnef.co/go/curve"

	"curvedit/internal/adjuster"
)

func newTestModel(t *testing.T) *model {
	t.Helper()
	cfg := defaultConfig()
	cfg.SaveDirectory = t.TempDir()
	m := initialModel(cfg)
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 31})
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCellToPixelReachesEdges(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, curve.Pt(0, 5), m.cellToPixel(0, 0))
	assert.Equal(t, curve.Pt(400, 295), m.cellToPixel(39, 29))
	assert.Equal(t, curve.Pt(205, 155), m.cellToPixel(20, 15))
	assert.Equal(t, point{39, 0}, pixelToCell(m.editor, 40, 30, curve.Pt(400, 0)))
}

func TestRasterizeDefaultRamp(t *testing.T) {
	m := newTestModel(t)
	lines := plainLines(rasterize(m.editor, 40, 30, nil))
	require.Len(t, lines, 30)

	runes := make([][]rune, len(lines))
	for i, l := range lines {
		runes[i] = []rune(l)
		require.Len(t, runes[i], 40)
	}
	assert.Equal(t, '■', runes[29][0])
	assert.Equal(t, '■', runes[0][39])
	assert.Equal(t, '•', runes[15][20])
	assert.Equal(t, '•', runes[14][20])
	assert.Equal(t, ' ', runes[0][0])
}

func TestRasterizeSelection(t *testing.T) {
	m := newTestModel(t)
	m.editor.SelectAll()
	runes := []rune(plainLines(rasterize(m.editor, 40, 30, nil))[0])
	assert.Equal(t, '┌', runes[0])
	assert.Equal(t, '─', runes[1])
}

func TestPresetMenuAppliesPreset(t *testing.T) {
	m := newTestModel(t)
	m.Update(key("p"))
	require.Equal(t, ModeMenu, m.mode)
	require.Equal(t, adjuster.FlatBottom.String(), m.menuItems[0])

	m.Update(key("enter"))
	assert.Equal(t, ModeNormal, m.mode)
	assert.True(t, m.dirty)
	assert.InDelta(t, 0, m.store.Evaluate(0.5), 1e-9)

	m.Update(key("u"))
	assert.InDelta(t, 0.5, m.store.Evaluate(0.5), 1e-9)
}

func TestSaveAndOpenThroughStore(t *testing.T) {
	m := newTestModel(t)

	m.Update(key("s"))
	require.Equal(t, ModeFileInput, m.mode)
	m.Update(key("r"))
	m.Update(key("a"))
	m.Update(key("m"))
	m.Update(key("p"))
	m.Update(key("enter"))
	require.Empty(t, m.errorMessage)
	assert.FileExists(t, filepath.Join(m.config.SaveDirectory, "ramp.yaml"))
	assert.Equal(t, "ramp", m.curveName)

	require.NoError(t, m.editor.ApplyPreset(adjuster.FlatBottom))
	require.InDelta(t, 0, m.store.Evaluate(1), 1e-9)

	m.Update(key("o"))
	require.Equal(t, []string{"ramp.yaml"}, m.fileList)
	m.Update(key("enter"))
	require.Empty(t, m.errorMessage)

	m.Update(tickMsg(time.Now()))
	assert.Len(t, m.editor.Handles(), 2)
	assert.InDelta(t, 1, m.editor.Value(1), 1e-9)
	assert.False(t, m.editor.CanUndo())
}

func TestExportText(t *testing.T) {
	m := newTestModel(t)
	path := filepath.Join(t.TempDir(), "curve.txt")
	require.NoError(t, m.exportVisualTXT(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "■")
	assert.NotContains(t, string(b), "█")
}

func TestExportPNG(t *testing.T) {
	m := newTestModel(t)
	path := filepath.Join(t.TempDir(), "curve.png")
	require.NoError(t, ExportToPNG(m.editor, path, "ramp"))
	assert.FileExists(t, path)
}
