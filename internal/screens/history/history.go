package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/complyx/complyx/internal/chat"
	"github.com/complyx/complyx/internal/router"
	"github.com/complyx/complyx/internal/screen"
	"github.com/complyx/complyx/internal/store"
	"github.com/complyx/complyx/internal/ui/layout"
	"github.com/complyx/complyx/internal/ui/theme"
)

type sessionsLoadedMsg struct {
	Sessions []chat.Session
	Err      error
}

// Deps wires the history screen to the local store and to the chat screen
// factory that reopens a conversation.
type Deps struct {
	History store.SessionRepo
	Resume  func(sess chat.Session) screen.Screen
}

// HistoryScreen lists persisted conversations; Enter resumes one.
type HistoryScreen struct {
	deps     Deps
	sessions []chat.Session
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates the history screen.
func New(deps Deps) *HistoryScreen {
	return &HistoryScreen{deps: deps}
}

func (s *HistoryScreen) Init() tea.Cmd {
	history := s.deps.History
	return func() tea.Msg {
		sessions, err := history.Sessions(context.Background())
		return sessionsLoadedMsg{Sessions: sessions, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Resume"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionsLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			// Newest first.
			for i := len(msg.Sessions) - 1; i >= 0; i-- {
				s.sessions = append(s.sessions, msg.Sessions[i])
			}
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if s.selected >= len(s.sessions) || s.deps.Resume == nil {
				return s, nil
			}
			sess := s.sessions[s.selected]
			next := s.deps.Resume(sess)
			return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No saved conversations yet. Start an assessment!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, sess := range s.sessions {
		preview := sess.Preview
		if preview == "" {
			preview = "(empty conversation)"
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s%s  %d messages", prefix, preview, sess.MessageCount)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}
