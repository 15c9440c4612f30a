package atoms

import "github.com/charmbracelet/lipgloss"

// StyledLabel renders a sender label (e.g. "You", "Stagehand") with the given style.
func StyledLabel(sender string, style lipgloss.Style) string {
	return style.Render(sender)
}
