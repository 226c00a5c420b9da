package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// bar paints the header and footer strips. A lipgloss style only colors the
// cells it renders, so every run of text and every gap between runs is
// rendered against the strip's background explicitly.
type bar struct {
	bg    lipgloss.Color
	blank lipgloss.Style
}

func newBar(color string) bar {
	bg := lipgloss.Color(color)
	return bar{bg: bg, blank: lipgloss.NewStyle().Background(bg)}
}

// text renders s in style on the bar background. Runs of spaces get the plain
// background style.
func (b bar) text(s string, style lipgloss.Style) string {
	if s == "" {
		return ""
	}
	fg := style.Background(b.bg)

	var out strings.Builder
	start := 0
	inSpace := s[0] == ' '
	for i := 1; i <= len(s); i++ {
		if i < len(s) && (s[i] == ' ') == inSpace {
			continue
		}
		if inSpace {
			out.WriteString(b.blank.Render(s[start:i]))
		} else {
			out.WriteString(fg.Render(s[start:i]))
		}
		if i < len(s) {
			start = i
			inSpace = !inSpace
		}
	}
	return out.String()
}

// gap returns n background-colored cells.
func (b bar) gap(n int) string {
	if n <= 0 {
		return ""
	}
	return b.blank.Render(strings.Repeat(" ", n))
}

func (b bar) join(parts []string, sep string) string {
	return strings.Join(parts, b.blank.Render(sep))
}

// fill widens a rendered line to width cells of background.
func (b bar) fill(line string, width int) string {
	return b.blank.Width(width).Render(line)
}
