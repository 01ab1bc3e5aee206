package main

import "github.com/rs/zerolog/log"

func (m *model) undo() {
	if !m.editor.Undo() {
		m.successMessage = "Nothing to undo"
		return
	}
	m.successMessage = "Undo"
	m.afterEdit()
}

func (m *model) redo() {
	if !m.editor.Redo() {
		m.successMessage = "Nothing to redo"
		return
	}
	m.successMessage = "Redo"
	m.afterEdit()
}

// afterEdit publishes a changed curve to remote clients and marks the
// session dirty.
func (m *model) afterEdit() {
	if !m.editor.Changed() {
		return
	}
	m.dirty = true
	if m.server != nil {
		m.server.Broadcast()
	}
	log.Debug().Int("connectors", len(m.editor.Connectors())).Msg("curve changed")
}
