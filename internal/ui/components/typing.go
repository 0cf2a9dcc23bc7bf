package components

import (
	"strings"

	"github.com/complyx/complyx/internal/ui/theme"
)

// typingFrames cycles the "assistant is typing" indicator.
var typingFrames = []string{"·  ", "·· ", "···", " ··", "  ·", "   "}

// TypingIndicator renders the animated typing dots for the given tick count.
func TypingIndicator(frame int) string {
	dots := typingFrames[frame%len(typingFrames)]
	return theme.Hint.Render("assistant is typing " + strings.TrimRight(dots, " "))
}
