// Package board defines the finite rectangular Game of Life grid together with
// its validation, text encoding and equality helpers.
package board

import "encoding/json"

// Cell is the binary state of a single grid position.
type Cell uint8

const (
	// Dead marks an empty grid position.
	Dead Cell = 0
	// Alive marks an occupied grid position.
	Alive Cell = 1
)

// Board is an immutable finite grid of cells stored in row-major order.
// Every Board obtained from this package has at least one row and one column.
type Board struct {
	rows, cols int
	cells      []Cell
}

// Rows returns the number of rows.
func (b Board) Rows() int { return b.rows }

// Cols returns the number of columns.
func (b Board) Cols() int { return b.cols }

// IsZero reports whether b is the zero Board, which is never a valid grid.
func (b Board) IsZero() bool { return b.rows == 0 || b.cols == 0 }

// Contains reports whether (r, c) lies inside the grid.
func (b Board) Contains(r, c int) bool {
	return r >= 0 && r < b.rows && c >= 0 && c < b.cols
}

// At returns the cell at (r, c). Positions outside the grid are Dead.
func (b Board) At(r, c int) Cell {
	if !b.Contains(r, c) {
		return Dead
	}
	return b.cells[r*b.cols+c]
}

// Alive reports whether the cell at (r, c) is alive.
func (b Board) Alive(r, c int) bool { return b.At(r, c) == Alive }

// Population counts live cells.
func (b Board) Population() int {
	n := 0
	for _, c := range b.cells {
		if c == Alive {
			n++
		}
	}
	return n
}

// Cells returns a row-major copy of the cell values as 0/1 bytes.
func (b Board) Cells() []uint8 {
	out := make([]uint8, len(b.cells))
	for i, c := range b.cells {
		out[i] = uint8(c)
	}
	return out
}

// ToRows returns a copy of the board as a slice of rows of 0/1 values.
func (b Board) ToRows() [][]int {
	out := make([][]int, b.rows)
	for r := range out {
		row := make([]int, b.cols)
		for c := range row {
			row[c] = int(b.cells[r*b.cols+c])
		}
		out[r] = row
	}
	return out
}

// String returns the canonical serialization of the board.
func (b Board) String() string { return Serialize(b) }

// MarshalJSON encodes the board as an array of rows.
func (b Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.ToRows())
}

// UnmarshalJSON decodes an array of rows, applying upload validation.
func (b *Board) UnmarshalJSON(data []byte) error {
	var rows [][]int
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}
	parsed, err := FromRows(rows)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// Grid is a mutable row-major cell buffer used to assemble boards.
type Grid struct {
	Rows, Cols int
	data       []Cell
}

// NewGrid allocates an all-dead grid with the given dimensions.
func NewGrid(rows, cols int) *Grid {
	if rows <= 0 {
		rows = 1
	}
	if cols <= 0 {
		cols = 1
	}
	return &Grid{Rows: rows, Cols: cols, data: make([]Cell, rows*cols)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *Grid) Cells() []Cell { return g.data }

// Index returns the linear slice index for coordinates (r, c).
func (g *Grid) Index(r, c int) int { return r*g.Cols + c }

// Set stores v at (r, c).
func (g *Grid) Set(r, c int, v Cell) { g.data[g.Index(r, c)] = v }

// Board snapshots the grid into an immutable Board.
func (g *Grid) Board() Board {
	cells := make([]Cell, len(g.data))
	copy(cells, g.data)
	return Board{rows: g.Rows, cols: g.Cols, cells: cells}
}
