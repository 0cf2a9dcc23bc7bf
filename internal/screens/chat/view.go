package chat

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/complyx/complyx/internal/assessment"
	chatstate "github.com/complyx/complyx/internal/chat"
	"github.com/complyx/complyx/internal/ui/components"
	"github.com/complyx/complyx/internal/ui/theme"
)

func (s *ChatScreen) View(width, height int) string {
	var bottom []string

	if q := s.deps.Orchestrator.Outstanding(); q != nil {
		bottom = append(bottom, s.questionCard(width))
	} else if s.deps.Orchestrator.State() == assessment.StateNoPhase {
		bottom = append(bottom, s.phaseCard(width))
	}

	if s.deps.Messages.Typing() {
		bottom = append(bottom, components.TypingIndicator(s.frame))
	}

	bottom = append(bottom, s.progressLine(), s.inputLine())
	bottomView := lipgloss.JoinVertical(lipgloss.Left, bottom...)

	historyHeight := height - lipgloss.Height(bottomView) - 1
	if historyHeight < 0 {
		historyHeight = 0
	}
	history := s.historyView(width, historyHeight)

	return lipgloss.JoinVertical(lipgloss.Left, history, "", bottomView)
}

// historyView renders the most recent messages that fit, honoring the
// scroll offset (lines up from the bottom).
func (s *ChatScreen) historyView(width, height int) string {
	var lines []string
	for _, m := range s.deps.Messages.Messages() {
		lines = append(lines, renderMessage(m, width)...)
	}

	end := len(lines) - s.scroll
	if end > len(lines) {
		end = len(lines)
	}
	if end < 0 {
		end = 0
	}
	start := end - height
	if start < 0 {
		start = 0
	}
	visible := lines[start:end]

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Render(strings.Join(visible, "\n"))
}

func renderMessage(m chatstate.Message, width int) []string {
	wrap := width - 12
	if wrap < 20 {
		wrap = 20
	}

	var rendered string
	switch m.Role {
	case chatstate.RoleUser:
		label := theme.Subtitle.Render("You")
		if m.Status == chatstate.StatusSending {
			label += theme.Hint.Render(" (sending)")
		} else if m.Status == chatstate.StatusError {
			label += theme.Severity("high").Render(" (failed)")
		}
		rendered = label + "\n" + theme.UserBubble.Width(wrap).Render(m.Content)
	case chatstate.RoleAssistant:
		rendered = theme.Subtitle.Render("ComplyX") + "\n" +
			theme.AssistantBubble.Width(wrap).Render(m.Content)
	default:
		rendered = theme.SystemNote.Width(wrap).Render(m.Content)
	}

	out := strings.Split(rendered, "\n")
	return append(out, "")
}

func (s *ChatScreen) questionCard(width int) string {
	q := s.deps.Orchestrator.Outstanding()

	var b strings.Builder
	if q.Category != "" {
		b.WriteString(theme.Subtitle.Render(q.Category) + "\n")
	}
	b.WriteString(theme.Body.Render(q.Text))
	if q.Guidance != "" {
		b.WriteString("\n" + theme.Hint.Render(q.Guidance))
	}

	return theme.QuestionCard.Width(width - 4).Render(b.String())
}

func (s *ChatScreen) phaseCard(width int) string {
	body := theme.Body.Render("Choose an assessment phase:") + "\n\n" +
		theme.Body.Render("  1") + theme.Subtitle.Render("  Quick scan — a short readiness check") + "\n" +
		theme.Body.Render("  2") + theme.Subtitle.Render("  Detailed assessment — full disclosure coverage") + "\n" +
		theme.Body.Render("  3") + theme.Subtitle.Render("  Follow-up — revisit flagged areas")
	return theme.Card.Width(width - 4).Render(body)
}

func (s *ChatScreen) progressLine() string {
	p := s.deps.Assessment.Progress()
	if p.Total == 0 {
		return ""
	}
	line := fmt.Sprintf("Progress: %d/%d (%.0f%%)", p.Answered, p.Total, p.Percentage)
	if score := s.deps.Assessment.Scores(); score != nil {
		line += fmt.Sprintf("  ·  Readiness: %.0f%%", score.Overall)
	}
	return theme.Subtitle.Render(line)
}

func (s *ChatScreen) inputLine() string {
	prompt := "> "
	if s.editingID != "" {
		prompt = theme.Severity("medium").Render("edit> ")
	}
	return prompt + s.input.View()
}
