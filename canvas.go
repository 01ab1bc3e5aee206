package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"honnef.co/go/curve"

	"curvedit/internal/adjuster"
)

type cellKind int

const (
	cellEmpty cellKind = iota
	cellGrid
	cellCurve
	cellCurveHover
	cellTrace
	cellTraceFaded
	cellSelection
	cellSelectionFaded
	cellHandle
	cellHandleHover
	cellHandleSelected
	cellBoundary
	cellCursor
)

type cell struct {
	ch   rune
	kind cellKind
}

var cellStyles = map[cellKind]lipgloss.Style{
	cellEmpty:          lipgloss.NewStyle(),
	cellGrid:           lipgloss.NewStyle().Foreground(lipgloss.Color("237")),
	cellCurve:          lipgloss.NewStyle().Foreground(lipgloss.Color("117")),
	cellCurveHover:     lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	cellTrace:          lipgloss.NewStyle().Foreground(lipgloss.Color("213")),
	cellTraceFaded:     lipgloss.NewStyle().Foreground(lipgloss.Color("96")),
	cellSelection:      lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
	cellSelectionFaded: lipgloss.NewStyle().Foreground(lipgloss.Color("239")),
	cellHandle:         lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
	cellHandleHover:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	cellHandleSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("118")).Bold(true),
	cellBoundary:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	cellCursor:         lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
}

// canvasSize is the number of terminal cells the curve is drawn into. The
// last row holds the status line.
func (m *model) canvasSize() (int, int) {
	return max(m.width, 1), max(m.height-1, 1)
}

func (m *model) cellToPixel(cx, cy int) curve.Point {
	cols, rows := m.canvasSize()
	return cellToPixel(m.editor, cols, rows, cx, cy)
}

// cellToPixel maps a cell to the canvas pixel at its centre. The first and
// last columns map onto the canvas edges so the boundary handles can be
// reached.
func cellToPixel(e *adjuster.Editor, cols, rows, cx, cy int) curve.Point {
	sx, sy := e.Width()/float64(cols), e.Height()/float64(rows)
	x := (float64(cx) + 0.5) * sx
	switch cx {
	case 0:
		x = 0
	case cols - 1:
		x = e.Width()
	}
	return curve.Pt(x, (float64(cy)+0.5)*sy)
}

func pixelToCell(e *adjuster.Editor, cols, rows int, p curve.Point) point {
	sx, sy := e.Width()/float64(cols), e.Height()/float64(rows)
	return point{
		X: min(max(int(p.X/sx), 0), cols-1),
		Y: min(max(int(p.Y/sy), 0), rows-1),
	}
}

// rasterize draws the editor into a cols x rows grid of cells. cursor may be
// nil.
func rasterize(e *adjuster.Editor, cols, rows int, cursor *point) [][]cell {
	grid := make([][]cell, rows)
	for y := range grid {
		grid[y] = make([]cell, cols)
		for x := range grid[y] {
			grid[y][x] = cell{' ', cellEmpty}
		}
	}
	set := func(p point, ch rune, kind cellKind) {
		if p.Y >= 0 && p.Y < rows && p.X >= 0 && p.X < cols {
			grid[p.Y][p.X] = cell{ch, kind}
		}
	}
	toCell := func(p curve.Point) point { return pixelToCell(e, cols, rows, p) }
	sx := e.Width() / float64(cols)

	for _, f := range []float64{0.25, 0.5, 0.75} {
		row := toCell(curve.Pt(0, e.Height()*f)).Y
		for x := 0; x < cols; x += 2 {
			set(point{x, row}, '·', cellGrid)
		}
	}

	for cx := 0; cx < cols; cx++ {
		x0, x1 := float64(cx)*sx, min(float64(cx+1)*sx, e.Width())
		kind := cellCurve
		for _, c := range e.Connectors() {
			mid := (x0 + x1) / 2
			if c.MouseOver() && c.Start().X <= mid && mid <= c.End().X {
				kind = cellCurveHover
			}
		}
		r0 := toCell(curve.Pt(x0, e.Evaluate(x0))).Y
		r1 := toCell(curve.Pt(x1, e.Evaluate(x1))).Y
		for r := min(r0, r1); r <= max(r0, r1); r++ {
			set(point{cx, r}, '•', kind)
		}
	}

	if t, ok := e.Trace(); ok {
		kind := cellTrace
		if t.Opacity < 0.4 {
			kind = cellTraceFaded
		}
		top := toCell(curve.Pt(t.X, t.Y))
		for r := top.Y + 1; r < rows; r++ {
			if grid[r][top.X].kind == cellEmpty || grid[r][top.X].kind == cellGrid {
				set(point{top.X, r}, '┊', kind)
			}
		}
		set(top, '+', kind)
	}

	if sel := e.Selection(); sel.InProgress() {
		kind := cellSelection
		if sel.Opacity() < 0.25 {
			kind = cellSelectionFaded
		}
		r := sel.Rect()
		a, b := toCell(curve.Pt(r.X0, r.Y0)), toCell(curve.Pt(r.X1, r.Y1))
		for x := a.X + 1; x < b.X; x++ {
			set(point{x, a.Y}, '─', kind)
			set(point{x, b.Y}, '─', kind)
		}
		for y := a.Y + 1; y < b.Y; y++ {
			set(point{a.X, y}, '│', kind)
			set(point{b.X, y}, '│', kind)
		}
		if a != b {
			set(a, '┌', kind)
			set(point{b.X, a.Y}, '┐', kind)
			set(point{a.X, b.Y}, '└', kind)
			set(b, '┘', kind)
		}
	}

	for _, h := range e.Handles() {
		p := toCell(h.Pos())
		switch {
		case h.MouseOver():
			set(p, 'O', cellHandleHover)
		case h.Selected():
			set(p, '●', cellHandleSelected)
		case h.Kind() == adjuster.Free2D:
			set(p, 'o', cellHandle)
		case h.Kind() == adjuster.VerticalOnly:
			set(p, '◆', cellBoundary)
		default:
			set(p, '■', cellBoundary)
		}
	}

	if cursor != nil && cursor.Y < rows && cursor.X < cols {
		c := grid[cursor.Y][cursor.X]
		if c.kind == cellEmpty || c.kind == cellGrid {
			set(*cursor, '█', cellCursor)
		} else {
			grid[cursor.Y][cursor.X].kind = cellCursor
		}
	}
	return grid
}

// plainLines is the grid as text without styling.
func plainLines(grid [][]cell) []string {
	out := make([]string, len(grid))
	for y, row := range grid {
		var b strings.Builder
		for _, c := range row {
			b.WriteRune(c.ch)
		}
		out[y] = b.String()
	}
	return out
}

// styledLines renders each run of same-kind cells with its style.
func styledLines(grid [][]cell) []string {
	out := make([]string, len(grid))
	for y, row := range grid {
		var b strings.Builder
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].kind == row[start].kind {
				continue
			}
			run := make([]rune, 0, x-start)
			for _, c := range row[start:x] {
				run = append(run, c.ch)
			}
			b.WriteString(cellStyles[row[start].kind].Render(string(run)))
			start = x
		}
		out[y] = b.String()
	}
	return out
}

// renderCanvas rasterizes the editor when it asked for a repaint or the
// view geometry moved, and reuses the last frame otherwise.
func (m *model) renderCanvas() []string {
	cols, rows := m.canvasSize()
	key := frameKey{cols: cols, rows: rows, cursor: point{-1, -1}}
	if m.mode == ModeNormal {
		key.cursor = point{m.cursorX, m.cursorY}
	}
	if !m.editor.NeedsRepaint() && m.frame != nil && key == m.frameKey {
		return m.frame
	}

	var cursor *point
	if key.cursor.X >= 0 {
		cursor = &key.cursor
	}
	m.frame = styledLines(rasterize(m.editor, cols, rows, cursor))
	m.frameKey = key
	return m.frame
}

const pngMargin = 40.0

// ExportToPNG draws the curve at canvas resolution with a grid, the handles
// and axis labels.
func ExportToPNG(e *adjuster.Editor, filename, title string) error {
	w, h := e.Width(), e.Height()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("nothing to export")
	}

	dc := gg.NewContext(int(w+2*pngMargin), int(h+2*pngMargin))
	dc.SetColor(color.White)
	dc.Clear()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %v", err)
	}
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    11,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)

	dc.Push()
	dc.Translate(pngMargin, pngMargin)

	dc.SetRGB(0.9, 0.9, 0.9)
	dc.SetLineWidth(1)
	for i := 0; i <= 10; i++ {
		f := float64(i) / 10
		dc.DrawLine(f*w, 0, f*w, h)
		dc.DrawLine(0, f*h, w, f*h)
	}
	dc.Stroke()

	dc.SetRGB(0.2, 0.2, 0.2)
	dc.DrawRectangle(0, 0, w, h)
	dc.Stroke()

	conns := e.Connectors()
	dc.SetRGB(0.1, 0.45, 0.8)
	dc.SetLineWidth(2)
	dc.MoveTo(conns[0].Start().X, conns[0].Start().Y)
	for _, c := range conns {
		dc.QuadraticTo(c.Control().X, c.Control().Y, c.End().X, c.End().Y)
	}
	dc.Stroke()

	size := e.HandleSize()
	for _, hd := range e.Handles() {
		p := hd.Pos()
		dc.DrawRectangle(p.X-size/2, p.Y-size/2, size, size)
		if hd.Kind() == adjuster.Free2D {
			dc.SetRGB(1, 1, 1)
		} else {
			dc.SetRGB(0.6, 0.6, 0.6)
		}
		dc.FillPreserve()
		dc.SetRGB(0, 0, 0)
		dc.SetLineWidth(1)
		dc.Stroke()
	}
	dc.Pop()

	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored("0", pngMargin-6, pngMargin+h+6, 1, 1)
	dc.DrawStringAnchored("1", pngMargin+w, pngMargin+h+6, 0.5, 1)
	dc.DrawStringAnchored("1", pngMargin-6, pngMargin, 1, 0.5)
	dc.DrawStringAnchored("input", pngMargin+w/2, pngMargin+h+6, 0.5, 1)
	if title != "" {
		dc.DrawStringAnchored(title, pngMargin, pngMargin/2, 0, 0.5)
	}

	return dc.SavePNG(filename)
}
