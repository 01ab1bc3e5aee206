package main

import (
	"time"

	"curvedit/internal/adjuster"
	"curvedit/internal/remote"
	"curvedit/internal/store"
)

type model struct {
	width   int
	height  int
	cursorX int
	cursorY int

	editor *adjuster.Editor
	store  *store.Store
	server *remote.Server // nil when the remote server is off
	config *Config

	mode       Mode
	help       bool
	helpScroll int

	menuKind     MenuKind
	menuItems    []string
	menuSelected int

	grabbing    bool // keyboard pointer is holding the mouse button
	mouseDown   bool
	lastClick   time.Time
	lastClickAt point

	sweeping  bool
	sweepX    float64
	sweepStep float64

	curveName         string
	filename          string
	fileList          []string
	selectedFileIndex int
	fileOp            FileOperation
	confirmAction     ConfirmAction
	dirty             bool

	errorMessage   string
	successMessage string

	frame    []string
	frameKey frameKey
}

type frameKey struct {
	cols, rows int
	cursor     point
}

// point is a terminal cell.
type point struct {
	X, Y int
}

type tickMsg time.Time
