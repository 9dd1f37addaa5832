// Package app hosts the graphical board viewer. The window itself is only
// built with the ebiten tag; other builds report ErrNoViewer.
package app

import (
	"context"
	"time"

	"lifeboard/internal/autoplay"
	"lifeboard/internal/board"
	"lifeboard/internal/store"
)

// Service is the part of the board service the viewer drives.
type Service interface {
	Get(ctx context.Context, id store.ID) (board.Board, error)
	Upload(ctx context.Context, b board.Board) (store.ID, error)
	AdvanceOne(ctx context.Context, id store.ID) (board.Board, error)
}

// Options tune the viewer window.
type Options struct {
	Scale     int
	TPS       int
	Interval  time.Duration
	Seed      int64
	AutoStart bool
}

func (o Options) withDefaults() Options {
	if o.Scale <= 0 {
		o.Scale = 24
	}
	if o.TPS <= 0 {
		o.TPS = 60
	}
	if o.Interval <= 0 {
		o.Interval = autoplay.DefaultInterval
	}
	return o
}
