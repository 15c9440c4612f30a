// Package tui provides the terminal user interface for Stagehand.
package tui

import "github.com/charmbracelet/lipgloss"

// Adaptive colors (light/dark terminal detection).
var (
	ColorUser      = lipgloss.AdaptiveColor{Light: "#0070F3", Dark: "#79C0FF"}
	ColorAssistant = lipgloss.AdaptiveColor{Light: "#6B21A8", Dark: "#D8A6FF"}
	ColorAccent    = lipgloss.AdaptiveColor{Light: "#065F46", Dark: "#7EE2B8"}
	ColorError     = lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#FF6B6B"}
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	ColorStatusBg  = lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#1F2937"}
	ColorStatusFg  = lipgloss.AdaptiveColor{Light: "#374151", Dark: "#D1D5DB"}
	ColorBorder    = lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#374151"}
	ColorCode      = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#F59E0B"}
)

// Component styles.
var (
	UserStyle = lipgloss.NewStyle().
			Foreground(ColorUser).
			Bold(true)

	AssistantStyle = lipgloss.NewStyle().
			Foreground(ColorAssistant).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	HeadingStyle = lipgloss.NewStyle().
			Foreground(ColorAssistant).
			Bold(true)

	StrongStyle = lipgloss.NewStyle().
			Bold(true)

	EmphStyle = lipgloss.NewStyle().
			Italic(true)

	CodeStyle = lipgloss.NewStyle().
			Foreground(ColorCode)

	StatusBarStyle = lipgloss.NewStyle().
			Background(ColorStatusBg).
			Foreground(ColorStatusFg).
			Padding(0, 1)

	ReplyStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Padding(0, 1)

	ReplySelectedStyle = lipgloss.NewStyle().
				Foreground(ColorStatusBg).
				Background(ColorAccent).
				Bold(true).
				Padding(0, 1)

	StageActiveStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true)

	StageDoneStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Strikethrough(true)

	StagePendingStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)
)
