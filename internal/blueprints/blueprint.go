// Package blueprints defines the scripted setup plans the chat service walks
// a user through.
package blueprints

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("blueprint not found")
)

// Reply is a predefined selectable response option for a step.
type Reply struct {
	Action string `yaml:"action"`
	Label  string `yaml:"label"`
}

// Step is a single scripted exchange: the assistant's prompt and the replies
// it accepts. A step without replies accepts free text.
type Step struct {
	ID      string  `yaml:"id"`
	Title   string  `yaml:"title"`
	Prompt  string  `yaml:"prompt"`
	Replies []Reply `yaml:"replies,omitempty"`
}

// Blueprint is a complete scripted plan. Summary and Closing are markup text.
type Blueprint struct {
	ID      string `yaml:"id"`
	Title   string `yaml:"title"`
	Summary string `yaml:"summary,omitempty"`
	Steps   []Step `yaml:"steps"`
	Closing string `yaml:"closing,omitempty"`
}

// Validate checks structural requirements: non-empty id, at least one step,
// unique step ids, and non-empty prompts.
func (b *Blueprint) Validate() error {
	if b.ID == "" {
		return errors.New("blueprint id is required")
	}
	if len(b.Steps) == 0 {
		return fmt.Errorf("blueprint %s: at least one step is required", b.ID)
	}

	seen := make(map[string]struct{}, len(b.Steps))
	for i, step := range b.Steps {
		if step.ID == "" {
			return fmt.Errorf("blueprint %s: step %d has no id", b.ID, i)
		}
		if _, dup := seen[step.ID]; dup {
			return fmt.Errorf("blueprint %s: duplicate step id %q", b.ID, step.ID)
		}
		seen[step.ID] = struct{}{}
		if step.Prompt == "" {
			return fmt.Errorf("blueprint %s: step %q has no prompt", b.ID, step.ID)
		}
		for j, r := range step.Replies {
			if r.Action == "" {
				return fmt.Errorf("blueprint %s: step %q reply %d has no action", b.ID, step.ID, j)
			}
		}
	}
	return nil
}

// Step returns the step at index i, or false when out of range.
func (b *Blueprint) Step(i int) (Step, bool) {
	if i < 0 || i >= len(b.Steps) {
		return Step{}, false
	}
	return b.Steps[i], true
}
