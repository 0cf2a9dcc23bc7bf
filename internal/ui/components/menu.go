package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/complyx/complyx/internal/ui/theme"
)

// MenuItem is one selectable entry.
type MenuItem struct {
	Label       string
	Description string
	Disabled    bool
}

// Menu is a vertical selection list.
type Menu struct {
	Items    []MenuItem
	selected int
}

// NewMenu creates a menu with the cursor on the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	for i, item := range items {
		if !item.Disabled {
			m.selected = i
			break
		}
	}
	return m
}

// Selected returns the cursor index.
func (m Menu) Selected() int {
	return m.selected
}

// Select moves the cursor to item i. Out-of-range and disabled items are
// ignored.
func (m *Menu) Select(i int) {
	if i >= 0 && i < len(m.Items) && !m.Items[i].Disabled {
		m.selected = i
	}
}

// Up moves the cursor to the previous enabled item.
func (m *Menu) Up() {
	for i := m.selected - 1; i >= 0; i-- {
		if !m.Items[i].Disabled {
			m.selected = i
			return
		}
	}
}

// Down moves the cursor to the next enabled item.
func (m *Menu) Down() {
	for i := m.selected + 1; i < len(m.Items); i++ {
		if !m.Items[i].Disabled {
			m.selected = i
			return
		}
	}
}

// View renders the menu.
func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		cursor := "  "
		style := theme.Body
		switch {
		case item.Disabled:
			style = theme.Hint
		case i == m.selected:
			cursor = "> "
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(cursor + style.Render(item.Label))
		if item.Description != "" {
			b.WriteString("  " + theme.Subtitle.Render(item.Description))
		}
		if i < len(m.Items)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
