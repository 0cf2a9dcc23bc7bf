package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/complyx/complyx/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	HeaderHeight = 3
	FooterHeight = 3
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// ContentHeight returns the available height for screen content.
func ContentHeight(totalHeight int) int {
	h := totalHeight - HeaderHeight - FooterHeight
	if h < 0 {
		return 0
	}
	return h
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf("Terminal too small\nNeed at least %dx%d, have %dx%d",
			MinWidth, MinHeight, width, height))
}

// RenderHeader renders the app header with the screen title and the
// signed-in account (empty when anonymous).
func RenderHeader(title, account string, width int) string {
	left := theme.Title.Render("ComplyX")
	if title != "" {
		left += theme.Subtitle.Render(" · " + title)
	}

	right := ""
	if account != "" {
		right = theme.Subtitle.Render(account)
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}
	line := left + strings.Repeat(" ", gap) + right

	return theme.Header.Width(width).Render(line)
}

// RenderFooter renders key hints in the footer bar.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts,
			theme.Body.Render(h.Key)+" "+theme.Subtitle.Render(h.Description))
	}
	return theme.Footer.Width(width).Render(strings.Join(parts, "   "))
}

// RenderFrame stacks header, content and footer to fill the terminal.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}
	body := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
