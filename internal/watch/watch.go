// Package watch re-uploads a board file every time it changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"lifeboard/internal/board"
	"lifeboard/internal/store"
)

// Uploader stores boards given in the text format.
type Uploader interface {
	UploadText(ctx context.Context, text string) (store.ID, board.Board, error)
}

// Watcher uploads the watched file as a new board after each write.
type Watcher struct {
	path     string
	uploader Uploader
	logger   *slog.Logger
	onUpload func(store.ID, board.Board)
	last     string
}

// New creates a Watcher for path. onUpload, if set, is called after every
// successful upload.
func New(path string, uploader Uploader, logger *slog.Logger, onUpload func(store.ID, board.Board)) *Watcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Watcher{
		path:     filepath.Clean(path),
		uploader: uploader,
		logger:   logger.With("component", "watch", "path", path),
		onUpload: onUpload,
	}
}

// Run uploads the file once if it exists, then watches it until ctx is done.
// The parent directory is watched so editors that replace the file by rename
// are still picked up.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	if _, err := os.Stat(w.path); err == nil {
		w.reload(ctx)
	}
	w.logger.Debug("watching board file")

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.reload(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)

		case <-ctx.Done():
			return nil
		}
	}
}

// reload uploads the file unless it is unchanged since the last upload.
// Parse failures are logged; editors often write a file in several chunks.
func (w *Watcher) reload(ctx context.Context) {
	data, err := os.ReadFile(w.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			w.logger.Warn("read board file", "error", err)
		}
		return
	}
	text := string(data)
	if text == w.last {
		return
	}
	id, b, err := w.uploader.UploadText(ctx, text)
	if err != nil {
		w.logger.Warn("board file rejected", "error", err)
		return
	}
	w.last = text
	w.logger.Info("board file uploaded", "board_id", id, "rows", b.Rows(), "cols", b.Cols())
	if w.onUpload != nil {
		w.onUpload(id, b)
	}
}
