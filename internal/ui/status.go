// Package ui draws the viewer's status strip.
package ui

import (
	"fmt"

	"lifeboard/internal/board"
	"lifeboard/internal/store"
)

// Status is what the strip shows.
type Status struct {
	ID         store.ID
	Board      board.Board
	Generation int
	Paused     bool
	Message    string
}

// Lines formats s as the strip's text lines.
func (s Status) Lines() []string {
	state := "running"
	if s.Paused {
		state = "paused"
	}
	lines := []string{
		fmt.Sprintf("%s  gen %d  pop %d  %s", s.ID, s.Generation, s.Board.Population(), state),
	}
	if s.Message != "" {
		lines = append(lines, s.Message)
	}
	return lines
}
