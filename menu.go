package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"curvedit/internal/adjuster"
)

var (
	menuTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	menuItemStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	menuSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("118")).Bold(true)
	menuBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
)

func (m *model) openMenu(kind adjuster.Menu) {
	m.menuItems = m.menuItems[:0]
	switch kind {
	case adjuster.PresetMenu:
		m.menuKind = MenuPresets
		for _, p := range m.editor.Presets() {
			m.menuItems = append(m.menuItems, p.String())
		}
	case adjuster.SelectionMenu:
		m.menuKind = MenuSelection
		for _, a := range m.editor.SelectionActions() {
			m.menuItems = append(m.menuItems, a.String())
		}
	default:
		return
	}
	m.menuSelected = 0
	m.mode = ModeMenu
}

// openSelectionMenu opens the multi-select menu from the keyboard, the way a
// right click inside the selection would.
func (m *model) openSelectionMenu() {
	sel := m.editor.Selection()
	if !sel.InProgress() {
		m.errorMessage = "No selection"
		return
	}
	m.openMenu(m.editor.MouseDown(sel.Rect().Center(), adjuster.RightButton))
}

func (m *model) handleMenuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.menuSelected = (m.menuSelected + 1) % len(m.menuItems)
	case "k", "up":
		m.menuSelected = (m.menuSelected - 1 + len(m.menuItems)) % len(m.menuItems)
	case "esc", "q":
		m.closeMenu()
	case "enter", " ":
		m.applyMenuItem(m.menuSelected)
	}
	return m, nil
}

func (m *model) closeMenu() {
	if m.menuKind == MenuSelection {
		m.editor.CancelMenu()
	}
	m.mode = ModeNormal
}

func (m *model) applyMenuItem(i int) {
	m.mode = ModeNormal
	switch m.menuKind {
	case MenuPresets:
		p := m.editor.Presets()[i]
		if err := m.editor.ApplyPreset(p); err != nil {
			m.errorMessage = err.Error()
			log.Error().Err(err).Msg("apply preset")
			return
		}
		m.successMessage = fmt.Sprintf("Preset: %s", p)
	case MenuSelection:
		a := m.editor.SelectionActions()[i]
		if !m.editor.ApplySelectionAction(a) {
			m.successMessage = fmt.Sprintf("%s: no change", a)
			return
		}
		m.successMessage = a.String()
	}
	m.afterEdit()
}

func (m *model) menuView() string {
	title := "Presets"
	if m.menuKind == MenuSelection {
		title = "Selection"
	}
	lines := []string{menuTitleStyle.Render(title), ""}
	for i, item := range m.menuItems {
		if i == m.menuSelected {
			lines = append(lines, menuSelectedStyle.Render("> "+item))
		} else {
			lines = append(lines, menuItemStyle.Render("  "+item))
		}
	}
	return menuBoxStyle.Render(strings.Join(lines, "\n"))
}
