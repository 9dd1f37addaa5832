package board

import (
	"fmt"
	"math/rand/v2"
)

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Chance reports true with probability p.
func (r *RNG) Chance(p float64) bool {
	return r.r.Float64() < p
}

// FillBinary sets each cell alive with probability density.
func (r *RNG) FillBinary(buf []Cell, density float64) {
	for i := range buf {
		buf[i] = Dead
		if r.Chance(density) {
			buf[i] = Alive
		}
	}
}

// Random returns a rows×cols board whose cells are independently alive with
// probability density. The same seed always yields the same board.
func Random(rows, cols int, density float64, seed int64) (Board, error) {
	if rows <= 0 || cols <= 0 {
		return Board{}, &ValidationError{Reason: fmt.Sprintf("board dimensions must be positive, got %dx%d", rows, cols)}
	}
	if density < 0 || density > 1 {
		return Board{}, &ValidationError{Reason: fmt.Sprintf("density must be between 0 and 1, got %g", density)}
	}
	g := NewGrid(rows, cols)
	NewRNG(seed).FillBinary(g.Cells(), density)
	return g.Board(), nil
}
