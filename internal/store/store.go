// Package store persists boards under stable identifiers and tracks the
// last-active board used to restore a session.
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"lifeboard/internal/board"
)

// ErrNotFound is returned when an id has no stored board.
var ErrNotFound = errors.New("board not found")

const idPrefix = "board-"

// ID identifies a stored board. IDs have the form "board-N" where N increases
// with every Create, so they order by creation.
type ID string

func newID(seq uint64) ID { return ID(idPrefix + strconv.FormatUint(seq, 10)) }

// Seq returns the creation sequence number encoded in id.
func (id ID) Seq() (uint64, bool) {
	s, ok := strings.CutPrefix(string(id), idPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 || s != strconv.FormatUint(n, 10) {
		return 0, false
	}
	return n, true
}

func (id ID) String() string { return string(id) }

// Record pairs an id with its current board.
type Record struct {
	ID    ID          `json:"id"`
	Board board.Board `json:"board"`
}

// Store is durable keyed storage for boards. Implementations must make each
// single-id operation atomic.
type Store interface {
	// Create persists b under a fresh id.
	Create(ctx context.Context, b board.Board) (ID, error)
	// Update replaces the board stored under id. It returns ErrNotFound if
	// id does not exist.
	Update(ctx context.Context, id ID, b board.Board) error
	// Commit replaces the board stored under id and marks id last-active as
	// one atomic write. It returns ErrNotFound if id does not exist, in which
	// case neither change is applied.
	Commit(ctx context.Context, id ID, b board.Board) error
	// Get returns the board stored under id or ErrNotFound.
	Get(ctx context.Context, id ID) (board.Board, error)
	// All returns every stored board in creation order.
	All(ctx context.Context) ([]Record, error)
	// Delete removes id. Deleting an absent id is not an error. If id was the
	// last-active board the marker is cleared.
	Delete(ctx context.Context, id ID) error
	// LastActive returns the last-active id, if one is set.
	LastActive(ctx context.Context) (ID, bool, error)
	// SetLastActive marks id as last-active. It returns ErrNotFound if id
	// does not exist.
	SetLastActive(ctx context.Context, id ID) error
	// Close releases resources held by the store.
	Close() error
}

func notFound(id ID) error {
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}
