package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// scanCurveFiles lists the saved curves in the save directory.
func (m *model) scanCurveFiles() {
	m.fileList = []string{}

	dir := m.config.SaveDirectory
	if dir == "" {
		var err error
		if dir, err = os.Getwd(); err != nil {
			m.selectedFileIndex = -1
			return
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		m.selectedFileIndex = -1
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(strings.ToLower(entry.Name()), curveExt) {
			m.fileList = append(m.fileList, entry.Name())
		}
	}
	sort.Strings(m.fileList)

	if len(m.fileList) > 0 {
		m.selectedFileIndex = 0
		m.filename = trimExt(m.fileList[0], curveExt)
	} else {
		m.selectedFileIndex = -1
	}
}

func trimExt(name, ext string) string {
	if strings.HasSuffix(strings.ToLower(name), ext) {
		return name[:len(name)-len(ext)]
	}
	return name
}

func withExt(name, ext string) string {
	if strings.HasSuffix(strings.ToLower(name), ext) {
		return name
	}
	return name + ext
}

func (m *model) saveCurve(path string) error {
	name := m.curveName
	if name == "" {
		name = trimExt(filepath.Base(path), curveExt)
	}
	if err := m.store.Save(path, name); err != nil {
		return err
	}
	m.curveName = name
	m.dirty = false
	log.Info().Str("path", path).Str("name", name).Msg("curve saved")
	return nil
}

// openCurve loads a curve file into the store. The editor picks it up on
// its next tick.
func (m *model) openCurve(path string) error {
	name, err := m.store.Load(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	m.editor.WatchStore()
	if m.server != nil {
		m.server.Broadcast()
	}
	m.curveName = name
	m.dirty = false
	log.Info().Str("path", path).Str("name", name).Msg("curve opened")
	return nil
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
