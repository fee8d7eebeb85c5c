package theme

import (
	"io"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-isatty"
)

// Color palette
var (
	Primary   = lipgloss.Color("#0F766E") // Deep Teal
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#D4A017") // Gold
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// States
var (
	Locked = lipgloss.NewStyle().
		Foreground(TextDim)

	Unlocked = lipgloss.NewStyle().
			Foreground(Text)

	Completed = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	Points = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Foreground(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Foreground(Border)
)

// Styled reports whether w is a terminal that should receive ANSI styling.
func Styled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Renderer applies styles only when styling is enabled.
type Renderer struct {
	styled bool
}

// NewRenderer returns a renderer for w.
func NewRenderer(w io.Writer) Renderer {
	return Renderer{styled: Styled(w)}
}

// Plain returns a renderer that never styles.
func Plain() Renderer {
	return Renderer{}
}

// Styled reports whether the renderer emits ANSI sequences.
func (r Renderer) Styled() bool {
	return r.styled
}

// Render applies s to text when styling is enabled.
func (r Renderer) Render(s lipgloss.Style, text string) string {
	if !r.styled {
		return text
	}
	return s.Render(text)
}
