package main

import "time"

type Mode int

const (
	ModeNormal Mode = iota
	ModeMenu
	ModeFileInput
	ModeConfirm
)

type FileOperation int

const (
	FileOpSave FileOperation = iota
	FileOpOpen
	FileOpSavePNG
	FileOpSaveVisualTXT
)

type ConfirmAction int

const (
	ConfirmQuit ConfirmAction = iota
	ConfirmOverwriteFile
)

type MenuKind int

const (
	MenuPresets MenuKind = iota
	MenuSelection
)

const (
	tickInterval      = 30 * time.Millisecond
	doubleClickWindow = 400 * time.Millisecond
	sweepStep         = 0.01

	curveExt = ".yaml"
)
