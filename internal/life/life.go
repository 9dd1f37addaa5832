// Package life implements Conway's Game of Life on a finite, non-wrapping grid.
package life

import "lifeboard/internal/board"

// neighborhood lists the eight offsets surrounding a cell.
var neighborhood = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Engine computes successor generations. It keeps its neighbour-count buffer
// between calls so repeated stepping of one board does not reallocate it.
// An Engine is not safe for concurrent use; the zero value is ready to use.
type Engine struct {
	counts []uint8
}

// Next returns the generation following b. Cells outside the grid are dead
// and never become alive. b is not modified.
func (e *Engine) Next(b board.Board) board.Board {
	rows, cols := b.Rows(), b.Cols()
	cur := b.Cells()
	e.reset(len(cur))

	// Only neighbourhoods of live cells can have a nonzero count.
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if cur[r*cols+c] == 0 {
				continue
			}
			for _, d := range neighborhood {
				nr, nc := r+d[0], c+d[1]
				if nr < 0 || nr >= rows || nc < 0 || nc >= cols {
					continue
				}
				e.counts[nr*cols+nc]++
			}
		}
	}

	next := board.NewGrid(rows, cols)
	out := next.Cells()
	for i, n := range e.counts {
		if n == 0 {
			continue
		}
		alive := cur[i] == 1
		if (alive && (n == 2 || n == 3)) || (!alive && n == 3) {
			out[i] = board.Alive
		}
	}
	return next.Board()
}

func (e *Engine) reset(n int) {
	if cap(e.counts) < n {
		e.counts = make([]uint8, n)
		return
	}
	e.counts = e.counts[:n]
	clear(e.counts)
}

// Next returns the generation following b.
func Next(b board.Board) board.Board {
	var e Engine
	return e.Next(b)
}
