package main

import (
	"fmt"
	"os"

	"github.com/atotto/clipboard"
)

// exportVisualTXT writes the canvas as it appears on screen, without the
// cursor or styling.
func (m *model) exportVisualTXT(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	cols, rows := m.canvasSize()
	if m.width < 1 {
		cols = 80
	}
	if m.height < 2 {
		rows = 24
	}
	for _, line := range plainLines(rasterize(m.editor, cols, rows, nil)) {
		if _, err := fmt.Fprintln(file, line); err != nil {
			return err
		}
	}
	return nil
}

// copyControlPoints puts the curve's control points on the clipboard.
func (m *model) copyControlPoints() error {
	return clipboard.WriteAll(m.editor.ControlPointsText())
}
