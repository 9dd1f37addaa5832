package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"lifeboard/internal/board"
)

// Glyphs used for terminal output.
const (
	AliveGlyph = "█"
	DeadGlyph  = "·"
)

// TextStyle styles terminal boards.
type TextStyle struct {
	Alive lipgloss.Style
	Dead  lipgloss.Style
	Frame lipgloss.Style
}

// DefaultTextStyle returns the colours used by the CLI and TUI.
func DefaultTextStyle() TextStyle {
	return TextStyle{
		Alive: lipgloss.NewStyle().Foreground(lipgloss.Color("#7CFC00")),
		Dead:  lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A")),
		Frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5F5F87")).
			Padding(0, 1),
	}
}

// PlainTextStyle renders without colour or border.
func PlainTextStyle() TextStyle {
	return TextStyle{Alive: lipgloss.NewStyle(), Dead: lipgloss.NewStyle(), Frame: lipgloss.NewStyle()}
}

// Text draws b as rows of glyphs, two columns per cell so the board keeps
// roughly square proportions in a terminal.
func Text(b board.Board, s TextStyle) string {
	alive := s.Alive.Render(AliveGlyph + AliveGlyph)
	dead := s.Dead.Render(DeadGlyph + " ")

	var sb strings.Builder
	for r := range b.Rows() {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := range b.Cols() {
			if b.Alive(r, c) {
				sb.WriteString(alive)
			} else {
				sb.WriteString(dead)
			}
		}
	}
	return s.Frame.Render(sb.String())
}
