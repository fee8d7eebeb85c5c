package components

import "github.com/chitouru-maker/khoushou3/internal/ui/theme"

// NodeState is the display state of a level, unit, card or section.
type NodeState int

const (
	StateLocked NodeState = iota
	StateUnlocked
	StateCompleted
)

// StateOf folds the two derived predicates into a display state.
// Completion wins over the lock.
func StateOf(unlocked, completed bool) NodeState {
	switch {
	case completed:
		return StateCompleted
	case unlocked:
		return StateUnlocked
	default:
		return StateLocked
	}
}

// Icon returns the marker shown next to a node.
func (s NodeState) Icon() string {
	switch s {
	case StateCompleted:
		return "✓"
	case StateUnlocked:
		return "○"
	default:
		return "🔒"
	}
}

// String returns a lowercase label.
func (s NodeState) String() string {
	switch s {
	case StateCompleted:
		return "done"
	case StateUnlocked:
		return "open"
	default:
		return "locked"
	}
}

// StatusLine renders "<icon> <label>" in the style of the state.
func StatusLine(r theme.Renderer, s NodeState, label string) string {
	style := theme.Locked
	switch s {
	case StateCompleted:
		style = theme.Completed
	case StateUnlocked:
		style = theme.Unlocked
	}
	return r.Render(style, s.Icon()+" "+label)
}
