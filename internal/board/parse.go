package board

import (
	"fmt"
	"strings"
)

// Parse reads the human-editable text format: newline separated rows of
// whitespace separated "0"/"1" tokens. Blank lines are skipped.
func Parse(text string) (Board, error) {
	var rows [][]int
	for _, line := range strings.Split(text, "\n") {
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}
		row := make([]int, len(tokens))
		for i, tok := range tokens {
			switch tok {
			case "0":
				row[i] = 0
			case "1":
				row[i] = 1
			default:
				return Board{}, &ValidationError{
					Reason: fmt.Sprintf("invalid cell value %q; only 0 or 1 are allowed", tok),
					Token:  tok,
				}
			}
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return Board{}, &ValidationError{Reason: reasonNoRows}
	}
	width := len(rows[0])
	for _, row := range rows[1:] {
		if len(row) != width {
			return Board{}, &ValidationError{Reason: reasonRagged}
		}
	}
	return FromRows(rows)
}

// Format renders b in the text format accepted by Parse.
func Format(b Board) string {
	var sb strings.Builder
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteByte('0' + byte(b.At(r, c)))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
