package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette — muted corporate, readable on dark terminals
var (
	Primary   = lipgloss.Color("#2DD4BF") // Teal
	Secondary = lipgloss.Color("#60A5FA") // Blue
	Accent    = lipgloss.Color("#FBBF24") // Amber
	Success   = lipgloss.Color("#34D399") // Green
	Warning   = lipgloss.Color("#F59E0B") // Orange
	Error     = lipgloss.Color("#F87171") // Red
	Text      = lipgloss.Color("#F1F5F9") // Near white
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0B1220") // Deep navy
	BgCard    = lipgloss.Color("#1E293B") // Dark slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// Layout
var (
	Header = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)

	Footer = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)

	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	QuestionCard = Card.
			BorderForeground(Primary)
)

// Chat bubbles
var (
	UserBubble = lipgloss.NewStyle().
			Foreground(Text).
			Background(BgCard).
			Padding(0, 1)

	AssistantBubble = lipgloss.NewStyle().
			Foreground(Text).
			Padding(0, 1)

	SystemNote = lipgloss.NewStyle().
			Foreground(Accent).
			Italic(true)
)

// Severity maps a gap severity to its display style.
func Severity(level string) lipgloss.Style {
	switch level {
	case "high", "critical":
		return lipgloss.NewStyle().Foreground(Error).Bold(true)
	case "medium":
		return lipgloss.NewStyle().Foreground(Warning)
	default:
		return lipgloss.NewStyle().Foreground(TextDim)
	}
}
