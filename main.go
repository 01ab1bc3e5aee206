package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"curvedit/internal/adjuster"
	"curvedit/internal/remote"
	"curvedit/internal/store"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to the config file (default ~/"+configName+")")
		addr       = flag.String("addr", "", "remote server listen address, overrides listen_addr")
		open       = flag.String("open", "", "curve file to open at startup")
	)
	flag.Parse()

	cfg, cfgErr := loadConfig(*configPath)
	if *addr != "" {
		cfg.ListenAddr = *addr
	}

	logFile := setupLogging(cfg)
	if logFile != nil {
		defer logFile.Close()
	}
	if cfgErr != nil {
		log.Warn().Err(cfgErr).Msg("config load failed; using defaults")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := initialModel(cfg)
	if cfg.ListenAddr != "" {
		m.server = remote.New(cfg.ListenAddr, m.store)
		go func() {
			if err := m.server.ListenAndServe(ctx); err != nil {
				log.Error().Err(err).Str("addr", cfg.ListenAddr).Msg("remote server stopped")
			}
		}()
	}
	if *open != "" {
		if err := m.openCurve(*open); err != nil {
			m.errorMessage = err.Error()
		}
	}

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	if _, err := p.Run(); err != nil {
		log.Fatal().Err(err).Msg("program failed")
	}
}

// setupLogging points zerolog at the configured log file. The terminal
// belongs to the UI, so without a file the output is discarded.
func setupLogging(cfg *Config) *os.File {
	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = io.Discard
	var f *os.File
	if path := cfg.LogPath(); path != "" {
		if f, err = os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err == nil {
			out = f
		}
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen, NoColor: true})
	return f
}

func initialModel(cfg *Config) *model {
	st := store.New(nil)
	e := adjuster.New(adjuster.Options{
		Width:              cfg.Canvas.Width,
		Height:             cfg.Canvas.Height,
		HandleSize:         cfg.HandleSize,
		MinAdjustable:      cfg.MinAdjustable,
		MaxAdjustable:      cfg.MaxAdjustable,
		UndoDepth:          cfg.UndoDepth,
		ReceivesModulation: true,
	}, st)

	return &model{
		editor:            e,
		store:             st,
		config:            cfg,
		mode:              ModeNormal,
		selectedFileIndex: -1,
		sweepStep:         sweepStep,
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *model) Init() tea.Cmd {
	return tick()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorInBounds()
		return m, nil

	case tickMsg:
		if m.sweeping {
			m.advanceSweep()
		}
		m.editor.Tick()
		m.afterEdit()
		return m, tick()

	case tea.MouseMsg:
		if m.mode != ModeNormal || m.help {
			return m, nil
		}
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.help {
			return m.handleHelpKey(msg)
		}
		switch m.mode {
		case ModeMenu:
			return m.handleMenuKey(msg)
		case ModeFileInput:
			return m.handleFileInputKey(msg)
		case ModeConfirm:
			return m.handleConfirmKey(msg)
		}
		return m.handleNormalKey(msg)
	}
	return m, nil
}

func (m *model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	cols, rows := m.canvasSize()
	cx, cy := min(max(msg.X, 0), cols-1), min(max(msg.Y, 0), rows-1)
	p := m.cellToPixel(cx, cy)

	switch msg.Action {
	case tea.MouseActionPress:
		m.errorMessage, m.successMessage = "", ""
		switch msg.Button {
		case tea.MouseButtonLeft:
			now := time.Now()
			here := point{cx, cy}
			if now.Sub(m.lastClick) <= doubleClickWindow && here == m.lastClickAt {
				m.lastClick = time.Time{}
				m.editor.DoubleClick(p)
				m.afterEdit()
				return m, nil
			}
			m.lastClick, m.lastClickAt = now, here
			m.mouseDown = true
			m.editor.MouseMove(p)
			m.editor.MouseDown(p, adjuster.LeftButton)
		case tea.MouseButtonRight:
			m.openMenu(m.editor.MouseDown(p, adjuster.RightButton))
		}

	case tea.MouseActionMotion:
		m.cursorX, m.cursorY = cx, cy
		if m.mouseDown && msg.Button == tea.MouseButtonLeft {
			m.editor.MouseDrag(p)
			m.afterEdit()
		} else {
			m.editor.MouseMove(p)
		}

	case tea.MouseActionRelease:
		if m.mouseDown {
			m.mouseDown = false
			m.editor.MouseUp()
			m.afterEdit()
		}
	}
	return m, nil
}

func (m *model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	m.errorMessage, m.successMessage = "", ""

	switch key {
	case "q", "ctrl+c":
		if m.config.Confirmations && m.dirty && key == "q" {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmQuit
			return m, nil
		}
		return m, tea.Quit
	case "?":
		m.help = true
		m.helpScroll = 0
	case "u", "ctrl+z":
		m.undo()
	case "U", "ctrl+y":
		m.redo()
	case "ctrl+a":
		m.editor.SelectAll()
	case "x", "delete":
		if m.editor.DeleteSelection() {
			m.successMessage = "Selection deleted"
			m.afterEdit()
		}
	case "esc":
		if m.grabbing {
			m.toggleGrab()
		}
		m.editor.MouseExit()
	case "p":
		m.openMenu(adjuster.PresetMenu)
	case "m":
		m.openSelectionMenu()
	case " ":
		m.editor.DoubleClick(m.cellToPixel(m.cursorX, m.cursorY))
		m.afterEdit()
	case "g":
		m.toggleGrab()
	case "w":
		m.sweeping = !m.sweeping
		if m.sweeping {
			m.successMessage = "Modulation sweep on"
		} else {
			m.successMessage = "Modulation sweep off"
		}
	case "c":
		if err := m.copyControlPoints(); err != nil {
			m.errorMessage = fmt.Sprintf("Clipboard: %s", err)
		} else {
			m.successMessage = "Control points copied"
		}
	case "s":
		m.startFileInput(FileOpSave)
		m.filename = m.curveName
	case "o":
		m.startFileInput(FileOpOpen)
		m.scanCurveFiles()
	case "S":
		m.startFileInput(FileOpSavePNG)
	case "T":
		m.startFileInput(FileOpSaveVisualTXT)
	default:
		return m.handleNavigation(key, m.getMoveSpeed(key))
	}
	return m, nil
}

// advanceSweep moves the simulated modulation input back and forth across
// the curve, the way an external source feeding the store would.
func (m *model) advanceSweep() {
	m.sweepX += m.sweepStep
	if m.sweepX >= 1 || m.sweepX <= 0 {
		m.sweepX = min(max(m.sweepX, 0), 1)
		m.sweepStep = -m.sweepStep
	}
	m.store.SetInput(m.sweepX)
}

func (m *model) startFileInput(op FileOperation) {
	m.mode = ModeFileInput
	m.fileOp = op
	m.filename = ""
	m.selectedFileIndex = -1
}

func (m *model) handleFileInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEscape:
		m.mode = ModeNormal
		m.filename = ""
		m.errorMessage = ""
		return m, nil
	case msg.String() == "up" || msg.String() == "down":
		if m.fileOp == FileOpOpen && len(m.fileList) > 0 {
			step := 1
			if msg.String() == "up" {
				step = -1
			}
			m.selectedFileIndex = (max(m.selectedFileIndex, 0) + step + len(m.fileList)) % len(m.fileList)
			m.filename = trimExt(m.fileList[m.selectedFileIndex], curveExt)
		}
		return m, nil
	case msg.Type == tea.KeyEnter:
		return m.runFileOp()
	case msg.Type == tea.KeyBackspace:
		if len(m.filename) > 0 {
			m.filename = m.filename[:len(m.filename)-1]
			m.selectedFileIndex = -1
		}
		return m, nil
	default:
		if keyStr := msg.String(); len(keyStr) == 1 {
			m.filename += keyStr
			m.selectedFileIndex = -1
		}
		return m, nil
	}
}

func (m *model) runFileOp() (tea.Model, tea.Cmd) {
	if strings.TrimSpace(m.filename) == "" {
		m.errorMessage = "Please enter a filename"
		return m, nil
	}

	var err error
	var path string
	switch m.fileOp {
	case FileOpSave:
		path = m.config.GetSavePath(withExt(m.filename, curveExt))
		if _, statErr := os.Stat(path); statErr == nil && m.config.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmOverwriteFile
			m.filename = path
			return m, nil
		}
		err = m.saveCurve(path)
	case FileOpOpen:
		path = m.config.GetSavePath(withExt(m.filename, curveExt))
		err = m.openCurve(path)
	case FileOpSavePNG:
		path = m.config.GetSavePath(withExt(m.filename, ".png"))
		err = ExportToPNG(m.editor, path, m.curveName)
	case FileOpSaveVisualTXT:
		path = m.config.GetSavePath(withExt(m.filename, ".txt"))
		err = m.exportVisualTXT(path)
	}
	if err != nil {
		m.errorMessage = err.Error()
		log.Error().Err(err).Str("path", path).Msg("file operation failed")
		return m, nil
	}

	switch m.fileOp {
	case FileOpOpen:
		m.successMessage = fmt.Sprintf("Opened %s", absPath(path))
	case FileOpSave:
		m.successMessage = fmt.Sprintf("Saved to %s", absPath(path))
	default:
		m.successMessage = fmt.Sprintf("Exported to %s", absPath(path))
	}
	m.mode = ModeNormal
	m.filename = ""
	return m, nil
}

func (m *model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		switch m.confirmAction {
		case ConfirmQuit:
			return m, tea.Quit
		case ConfirmOverwriteFile:
			path := m.filename
			m.mode = ModeNormal
			m.filename = ""
			if err := m.saveCurve(path); err != nil {
				m.errorMessage = err.Error()
				return m, nil
			}
			m.successMessage = fmt.Sprintf("Saved to %s", absPath(path))
		}
	case "n", "N", "esc":
		m.mode = ModeNormal
		m.filename = ""
	}
	return m, nil
}

func (m *model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "?":
		m.help = false
		m.helpScroll = 0
	case "j", "down":
		if m.helpScroll < len(helpLines)-1 {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	}
	return m, nil
}

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("118"))
)

func (m *model) View() string {
	if m.help {
		return m.helpView()
	}

	var result strings.Builder
	switch m.mode {
	case ModeMenu:
		result.WriteString(m.menuView())
	case ModeFileInput:
		result.WriteString(m.fileInputView())
	default:
		result.WriteString(strings.Join(m.renderCanvas(), "\n"))
	}
	result.WriteString("\n")
	result.WriteString(m.statusLine())
	return result.String()
}

func (m *model) fileInputView() string {
	var b strings.Builder
	cols, _ := m.canvasSize()
	if m.fileOp == FileOpOpen {
		b.WriteString("Select a saved curve:\n")
		b.WriteString(strings.Repeat("─", cols))
		b.WriteString("\n")
		if len(m.fileList) == 0 {
			b.WriteString("(No " + curveExt + " files found)\n")
		}
		for i, file := range m.fileList {
			if i == m.selectedFileIndex {
				b.WriteString("> " + trimExt(file, curveExt) + " <\n")
			} else {
				b.WriteString("  " + trimExt(file, curveExt) + "\n")
			}
		}
	}
	b.WriteString(strings.Repeat("─", cols))
	b.WriteString("\nFilename: ")
	b.WriteString(m.filename)
	b.WriteString("█")
	return b.String()
}

func (m *model) statusLine() string {
	switch m.mode {
	case ModeMenu:
		return statusStyle.Render("Mode: MENU | j/k=choose, Enter=apply, Esc=cancel")
	case ModeFileInput:
		op := map[FileOperation]string{
			FileOpSave:          "Save",
			FileOpOpen:          "Open",
			FileOpSavePNG:       "Export PNG",
			FileOpSaveVisualTXT: "Export text",
		}[m.fileOp]
		status := fmt.Sprintf("Mode: FILE | %s | Enter=confirm, Esc=cancel", op)
		if m.errorMessage != "" {
			return status + " | " + errorStyle.Render("ERROR: "+m.errorMessage)
		}
		return statusStyle.Render(status)
	case ModeConfirm:
		message := "Quit with unsaved changes? (y/n)"
		if m.confirmAction == ConfirmOverwriteFile {
			message = fmt.Sprintf("File %s already exists. Overwrite? (y/n)", m.filename)
		}
		return statusStyle.Render("Mode: CONFIRM | " + message)
	}

	p := m.cellToPixel(m.cursorX, m.cursorY)
	pct := m.editor.ToPercent(p)
	status := fmt.Sprintf("Mode: %s | (%.2f, %.2f) | handles: %d", m.modeString(), pct.X, pct.Y, len(m.editor.Handles()))
	if m.curveName != "" {
		status += " | " + m.curveName
	}
	if m.dirty {
		status += "*"
	}
	if m.server != nil {
		status += fmt.Sprintf(" | remote: %d", m.server.Clients())
	}
	switch {
	case m.errorMessage != "":
		return statusStyle.Render(status+" | ") + errorStyle.Render("ERROR: "+m.errorMessage)
	case m.successMessage != "":
		return statusStyle.Render(status+" | ") + okStyle.Render(m.successMessage)
	}
	return statusStyle.Render(status + " | ? for help | q to quit")
}

func (m *model) modeString() string {
	switch {
	case m.grabbing:
		return "GRAB"
	case m.sweeping:
		return "SWEEP"
	case m.mode == ModeNormal:
		return "NORMAL"
	case m.mode == ModeMenu:
		return "MENU"
	case m.mode == ModeFileInput:
		return "FILE"
	case m.mode == ModeConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

var helpLines = []string{
	"curvedit Help",
	"=============",
	"",
	"Mouse:",
	"------",
	"  Drag a handle    Move it (boundary handles move vertically when adjustable)",
	"  Drag a line      Bend it through its control point",
	"  Drag elsewhere   Draw a selection rectangle",
	"  Drag selection   Move every selected handle together",
	"  Double click     Add a handle, or remove the one under the pointer",
	"  Right click      Presets, or the selection menu inside a selection",
	"",
	"Keyboard pointer:",
	"-----------------",
	"  h/j/k/l          Move the pointer",
	"  Shift+h/j/k/l    Move the pointer 2x faster",
	"  Arrows           Move the pointer, or nudge an active selection by one pixel",
	"  Space            Double click at the pointer",
	"  g                Grab / release (press and hold the button at the pointer)",
	"",
	"Editing:",
	"--------",
	"  Ctrl+A           Select all handles",
	"  x/Delete         Remove the selected handles",
	"  p                Preset menu",
	"  m                Selection menu",
	"  u/Ctrl+Z         Undo",
	"  U/Ctrl+Y         Redo",
	"",
	"Files:",
	"------",
	"  s                Save curve",
	"  o                Open curve",
	"  S                Export PNG",
	"  T                Export text",
	"  c                Copy control points to the clipboard",
	"",
	"General:",
	"  w                Toggle the modulation sweep",
	"  Esc              Release the pointer and clear hover",
	"  ?                Toggle this help screen",
	"  q/Ctrl+C         Quit",
}

func (m *model) helpView() string {
	visibleHeight := max(m.height-1, 1)
	start := min(m.helpScroll, max(len(helpLines)-visibleHeight, 0))
	end := min(start+visibleHeight, len(helpLines))
	return strings.Join(helpLines[start:end], "\n") + "\n" +
		statusStyle.Render("Mode: HELP | j/k=scroll, Esc/?=close")
}
