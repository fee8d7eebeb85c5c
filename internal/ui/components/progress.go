package components

import (
	"fmt"
	"strings"

	"github.com/chitouru-maker/khoushou3/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar.
type ProgressBar struct {
	Label       string
	Percent     float64 // 0..100
	ShowPercent bool
	Width       int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, showPercent bool, width int) ProgressBar {
	return ProgressBar{
		Label:       label,
		Percent:     percent,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View(r theme.Renderer) string {
	var b strings.Builder

	if p.Label != "" {
		b.WriteString(r.Render(theme.Body, p.Label))
		b.WriteString("  ")
	}

	barWidth := p.Width
	if barWidth < 4 {
		barWidth = 4
	}

	pct := min(max(p.Percent, 0), 100)
	filled := int(float64(barWidth) * pct / 100)
	empty := barWidth - filled

	b.WriteString(r.Render(theme.ProgressFilled, strings.Repeat("█", filled)))
	b.WriteString(r.Render(theme.ProgressEmpty, strings.Repeat("░", empty)))

	if p.ShowPercent {
		b.WriteString(r.Render(theme.Hint, fmt.Sprintf("  %3d%%", int(pct))))
	}

	return b.String()
}
