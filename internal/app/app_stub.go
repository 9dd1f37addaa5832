//go:build !ebiten

package app

import (
	"context"
	"errors"

	"lifeboard/internal/board"
	"lifeboard/internal/store"
)

// ErrNoViewer is returned by Run in builds without the ebiten tag.
var ErrNoViewer = errors.New("the viewer requires building with the 'ebiten' tag")

// Run always fails in the headless build.
func Run(context.Context, Service, store.ID, board.Board, Options) error {
	return ErrNoViewer
}
