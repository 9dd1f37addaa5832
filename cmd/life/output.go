package main

import (
	"encoding/json"
	"fmt"
	"io"

	"lifeboard/internal/board"
	"lifeboard/internal/render"
	"lifeboard/internal/store"
)

func (e *env) writeJSON(v any) error {
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printBoard writes one board in the selected output format. The text format
// prints only the board so it can be piped back into upload.
func (e *env) printBoard(id store.ID, b board.Board) error {
	switch e.output {
	case "json":
		return e.writeJSON(store.Record{ID: id, Board: b})
	case "text":
		_, err := io.WriteString(e.out, board.Format(b))
		return err
	default:
		fmt.Fprintf(e.out, "%s  %dx%d  pop %d\n", id, b.Rows(), b.Cols(), b.Population())
		_, err := fmt.Fprintln(e.out, render.Text(b, e.textStyle()))
		return err
	}
}
