package store

import (
	"context"
	"slices"
	"sync"

	"lifeboard/internal/board"
)

var _ Store = (*Memory)(nil)

// Memory is an in-process Store. Nothing survives the process; it backs
// tests and --in-memory sessions.
type Memory struct {
	mu     sync.RWMutex
	boards map[uint64]board.Board
	seq    uint64
	last   ID
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{boards: make(map[uint64]board.Board)}
}

// Create implements Store.
func (m *Memory) Create(ctx context.Context, b board.Board) (ID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.boards[m.seq] = b
	return newID(m.seq), nil
}

// Update implements Store.
func (m *Memory) Update(ctx context.Context, id ID, b board.Board) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	seq, ok := id.Seq()
	if !ok {
		return notFound(id)
	}
	if _, exists := m.boards[seq]; !exists {
		return notFound(id)
	}
	m.boards[seq] = b
	return nil
}

// Commit implements Store.
func (m *Memory) Commit(ctx context.Context, id ID, b board.Board) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	seq, ok := id.Seq()
	if !ok {
		return notFound(id)
	}
	if _, exists := m.boards[seq]; !exists {
		return notFound(id)
	}
	m.boards[seq] = b
	m.last = id
	return nil
}

// Get implements Store.
func (m *Memory) Get(ctx context.Context, id ID) (board.Board, error) {
	if err := ctx.Err(); err != nil {
		return board.Board{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	seq, ok := id.Seq()
	if !ok {
		return board.Board{}, notFound(id)
	}
	b, exists := m.boards[seq]
	if !exists {
		return board.Board{}, notFound(id)
	}
	return b, nil
}

// All implements Store.
func (m *Memory) All(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	seqs := make([]uint64, 0, len(m.boards))
	for seq := range m.boards {
		seqs = append(seqs, seq)
	}
	slices.Sort(seqs)
	out := make([]Record, len(seqs))
	for i, seq := range seqs {
		out[i] = Record{ID: newID(seq), Board: m.boards[seq]}
	}
	return out, nil
}

// Delete implements Store.
func (m *Memory) Delete(ctx context.Context, id ID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if seq, ok := id.Seq(); ok {
		delete(m.boards, seq)
	}
	if m.last == id {
		m.last = ""
	}
	return nil
}

// LastActive implements Store.
func (m *Memory) LastActive(ctx context.Context) (ID, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last, m.last != "", nil
}

// SetLastActive implements Store.
func (m *Memory) SetLastActive(ctx context.Context, id ID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	seq, ok := id.Seq()
	if !ok {
		return notFound(id)
	}
	if _, exists := m.boards[seq]; !exists {
		return notFound(id)
	}
	m.last = id
	return nil
}

// Close implements Store.
func (m *Memory) Close() error { return nil }
