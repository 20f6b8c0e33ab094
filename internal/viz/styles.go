package viz

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of one theme bound to one output. Writers that
// are not terminals get a renderer without colors.
type palette struct {
	header  lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
}

func newPalette(w io.Writer, th Theme) palette {
	r := lipgloss.NewRenderer(w)
	return palette{
		header: r.NewStyle().
			Bold(true).
			Foreground(th.Primary),
		label: r.NewStyle().Foreground(th.Muted),
		value: r.NewStyle().Foreground(th.Accent).Bold(true),
		muted: r.NewStyle().Foreground(th.Muted).Italic(true),
		success: r.NewStyle().
			Bold(true).
			Foreground(th.Success),
		warning: r.NewStyle().
			Bold(true).
			Foreground(th.Warning),
	}
}

// Banner renders a title between two rules of '='.
func Banner(title string, width int) string {
	rule := strings.Repeat("=", width)
	return rule + "\n" + title + "\n" + rule
}

// ProgressBar renders a fraction in [0, 1] as a fixed-width bar.
func ProgressBar(fraction float64, width int) string {
	filled := int(fraction*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
