package organisms

// Mode represents the current interaction state.
type Mode int

const (
	ModeNormal     Mode = iota
	ModeProcessing      // an action is being applied
	ModeComplete        // the run finished, input is closed
)
