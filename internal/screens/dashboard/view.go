package dashboard

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/complyx/complyx/internal/ui/theme"
)

func (s *DashboardScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, s.scoreView(width))
	if s.gaps != nil {
		sections = append(sections, s.gapsView(width))
	}
	if s.matrix != nil {
		sections = append(sections, s.matrixView(width))
	}

	switch {
	case s.loading:
		sections = append(sections, theme.Hint.Render("Loading…"))
	case s.loadErr != nil:
		sections = append(sections, theme.Severity("high").Render(
			"Could not load dashboard data. Press R to retry."))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	lines := strings.Split(content, "\n")
	if s.scroll >= len(lines) {
		s.scroll = len(lines) - 1
	}
	if s.scroll < 0 {
		s.scroll = 0
	}
	end := s.scroll + height
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[s.scroll:end], "\n")
}

func (s *DashboardScreen) scoreView(width int) string {
	if s.score == nil {
		return theme.Card.Width(width - 4).Render(
			theme.Subtitle.Render("No readiness score yet — complete an assessment to see one."))
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("Overall readiness: %.0f%%", s.score.Overall)))
	b.WriteString("\n")
	for _, c := range s.score.Categories {
		b.WriteString(fmt.Sprintf("\n%s %s %s",
			bar(c.Percentage, 24),
			theme.Body.Render(fmt.Sprintf("%3.0f%%", c.Percentage)),
			theme.Subtitle.Render(c.Category)))
	}
	return theme.Card.Width(width - 4).Render(b.String())
}

func (s *DashboardScreen) gapsView(width int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Gap analysis") + "\n")

	if len(s.gaps.Items) == 0 {
		b.WriteString("\n" + theme.Subtitle.Render("No gaps identified."))
	}
	for _, g := range s.gaps.Items {
		b.WriteString(fmt.Sprintf("\n%s %s — %s",
			theme.Severity(g.Severity).Render(strings.ToUpper(g.Severity)),
			theme.Body.Render(g.Requirement),
			theme.Subtitle.Render(g.Category)))
		if g.Recommendation != "" {
			b.WriteString("\n    " + theme.Hint.Render(g.Recommendation))
		}
	}
	return theme.Card.Width(width - 4).Render(b.String())
}

func (s *DashboardScreen) matrixView(width int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Compliance matrix") + "\n")

	for _, row := range s.matrix.Rows {
		b.WriteString(fmt.Sprintf("\n%s %s %s %s",
			bar(row.Coverage, 16),
			theme.Body.Render(fmt.Sprintf("%3.0f%%", row.Coverage)),
			statusStyle(row.Status).Render(row.Status),
			theme.Subtitle.Render(row.Requirement)))
	}
	return theme.Card.Width(width - 4).Render(b.String())
}

// bar renders a fixed-width percentage bar.
func bar(pct float64, width int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := int(pct / 100 * float64(width))
	return theme.Body.Foreground(theme.Primary).Render(strings.Repeat("█", filled)) +
		theme.Subtitle.Render(strings.Repeat("░", width-filled))
}

func statusStyle(status string) lipgloss.Style {
	switch status {
	case "compliant", "covered":
		return lipgloss.NewStyle().Foreground(theme.Success)
	case "partial":
		return lipgloss.NewStyle().Foreground(theme.Warning)
	default:
		return lipgloss.NewStyle().Foreground(theme.Error)
	}
}
