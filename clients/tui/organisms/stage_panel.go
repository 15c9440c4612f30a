package organisms

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Stage is one item of the roadmap.
type Stage struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Active      bool
	Completed   bool
}

// StagePanelStyles are the styles for the three roadmap states.
type StagePanelStyles struct {
	Active  lipgloss.Style
	Done    lipgloss.Style
	Pending lipgloss.Style
}

// StagePanel shows where the user is in the overall flow. The list is fixed;
// nothing here reacts to session progress.
type StagePanel struct {
	stages []Stage
	styles StagePanelStyles
	width  int
}

// NewStagePanel creates the panel with the built-in roadmap.
func NewStagePanel(styles StagePanelStyles) StagePanel {
	return StagePanel{
		stages: []Stage{
			{
				ID:          "collect",
				Title:       "Collect",
				Description: "Answer the blueprint's questions",
				Icon:        "✎",
				Active:      true,
			},
			{
				ID:          "review",
				Title:       "Review",
				Description: "Confirm the collected plan",
				Icon:        "☰",
			},
			{
				ID:          "apply",
				Title:       "Apply",
				Description: "The plan is recorded",
				Icon:        "✔",
			},
		},
		styles: styles,
	}
}

// Stages returns the roadmap items.
func (p StagePanel) Stages() []Stage {
	return p.stages
}

// SetWidth updates the rendering width.
func (p *StagePanel) SetWidth(w int) { p.width = w }

// View renders the roadmap as a single line.
func (p StagePanel) View() string {
	parts := make([]string, len(p.stages))
	for i, stage := range p.stages {
		style := p.styles.Pending
		switch {
		case stage.Active:
			style = p.styles.Active
		case stage.Completed:
			style = p.styles.Done
		}
		parts[i] = style.Render(stage.Icon + " " + stage.Title)
	}
	return strings.Join(parts, "  ›  ")
}
