package atoms

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Gauge renders a compact step meter, e.g. "▰▰▱▱▱" for 2 of 5.
type Gauge struct {
	filled lipgloss.Style
	empty  lipgloss.Style
}

// NewGauge creates a gauge with the given colors.
func NewGauge(filled, empty lipgloss.AdaptiveColor) Gauge {
	return Gauge{
		filled: lipgloss.NewStyle().Foreground(filled),
		empty:  lipgloss.NewStyle().Foreground(empty),
	}
}

// View renders done of total segments.
func (g Gauge) View(done, total int) string {
	if total <= 0 {
		return ""
	}
	if done < 0 {
		done = 0
	}
	if done > total {
		done = total
	}
	return g.filled.Render(strings.Repeat("▰", done)) +
		g.empty.Render(strings.Repeat("▱", total-done))
}
