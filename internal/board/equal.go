package board

import "strings"

// rowSeparator never appears inside a row encoding since cells are single digits.
const rowSeparator = '|'

// Equal reports whether a and b have the same dimensions and identical cells.
func Equal(a, b Board) bool {
	if a.rows != b.rows || a.cols != b.cols {
		return false
	}
	for i := range a.cells {
		if a.cells[i] != b.cells[i] {
			return false
		}
	}
	return true
}

// Equal reports whether b and other are identical boards.
func (b Board) Equal(other Board) bool { return Equal(b, other) }

// Serialize encodes b as its rows of digits joined by '|', e.g. "010|111|010".
// Two boards are Equal iff their encodings are equal.
func Serialize(b Board) string {
	if b.IsZero() {
		return ""
	}
	var sb strings.Builder
	sb.Grow(b.rows*(b.cols+1) - 1)
	for r := 0; r < b.rows; r++ {
		if r > 0 {
			sb.WriteByte(rowSeparator)
		}
		for _, c := range b.cells[r*b.cols : (r+1)*b.cols] {
			sb.WriteByte('0' + byte(c))
		}
	}
	return sb.String()
}
