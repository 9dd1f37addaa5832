// Package service implements the board lifecycle: uploading boards and
// advancing stored boards one step, N steps, or until they settle.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"lifeboard/internal/board"
	"lifeboard/internal/life"
	"lifeboard/internal/store"
)

// Reason explains why a final-state search stopped.
type Reason string

const (
	// Stable means the board equals its own successor.
	Stable Reason = "STABLE"
	// Oscillation means the board returned to an earlier state after two or more steps.
	Oscillation Reason = "OSCILLATION"
)

// FinalState is the outcome of RunToFinalState.
type FinalState struct {
	Board      board.Board `json:"board"`
	StepsTaken int         `json:"steps_taken"`
	Reason     Reason      `json:"reason"`
}

// DefaultMaxSteps caps a single AdvanceBy call unless WithMaxSteps says otherwise.
const DefaultMaxSteps = 10000

// Service drives board evolution against a Store. Operations on the same id
// are serialised; operations on different ids run independently.
type Service struct {
	store    store.Store
	logger   *slog.Logger
	locks    keyedMutex
	maxSteps int
}

// Option customises a Service.
type Option func(*Service)

// WithMaxSteps sets the largest step count AdvanceBy accepts. Values below 1
// are ignored.
func WithMaxSteps(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSteps = n
		}
	}
}

// New returns a Service backed by s. A nil logger discards log output.
func New(s store.Store, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	svc := &Service{
		store:    s,
		logger:   logger.With("component", "service"),
		locks:    keyedMutex{locks: make(map[store.ID]*lockEntry)},
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// MaxSteps returns the largest step count AdvanceBy accepts.
func (s *Service) MaxSteps() int { return s.maxSteps }

// Upload stores b as a new board and marks it last-active.
func (s *Service) Upload(ctx context.Context, b board.Board) (id store.ID, err error) {
	defer func() { observe("upload", err) }()
	if b.IsZero() {
		return "", &board.ValidationError{Reason: "board must have at least one row"}
	}
	id, err = s.store.Create(ctx, b)
	if err != nil {
		return "", err
	}
	if err := s.store.SetLastActive(ctx, id); err != nil {
		return "", err
	}
	s.logger.Info("board uploaded", "board_id", id, "rows", b.Rows(), "cols", b.Cols())
	return id, nil
}

// UploadRows validates raw rows and uploads them.
func (s *Service) UploadRows(ctx context.Context, rows [][]int) (store.ID, board.Board, error) {
	b, err := board.FromRows(rows)
	if err != nil {
		observe("upload", err)
		return "", board.Board{}, err
	}
	id, err := s.Upload(ctx, b)
	return id, b, err
}

// UploadText parses the text board format and uploads the result.
func (s *Service) UploadText(ctx context.Context, text string) (store.ID, board.Board, error) {
	b, err := board.Parse(text)
	if err != nil {
		observe("upload", err)
		return "", board.Board{}, err
	}
	id, err := s.Upload(ctx, b)
	return id, b, err
}

// Get returns the board stored under id.
func (s *Service) Get(ctx context.Context, id store.ID) (board.Board, error) {
	return s.store.Get(ctx, id)
}

// List returns every stored board in creation order.
func (s *Service) List(ctx context.Context) ([]store.Record, error) {
	return s.store.All(ctx)
}

// AdvanceOne replaces the board under id with its successor and returns it.
func (s *Service) AdvanceOne(ctx context.Context, id store.ID) (next board.Board, err error) {
	defer func() { observe("next", err) }()
	unlock := s.locks.Lock(id)
	defer unlock()

	cur, err := s.store.Get(ctx, id)
	if err != nil {
		return board.Board{}, err
	}
	next = life.Next(cur)
	generationsTotal.Inc()
	if err := s.commit(ctx, id, next); err != nil {
		return board.Board{}, err
	}
	s.logger.Info("board advanced", "board_id", id, "steps", 1)
	return next, nil
}

// AdvanceBy applies steps generations to the board under id and returns every
// intermediate board in order. Only the last one is persisted. Zero steps
// returns an empty slice and leaves the store untouched. steps above MaxSteps
// is rejected with ErrInvalidArgument.
func (s *Service) AdvanceBy(ctx context.Context, id store.ID, steps int) (states []board.Board, err error) {
	defer func() { observe("ahead", err) }()
	if steps < 0 {
		return nil, invalidArgument("steps must be non-negative, got %d", steps)
	}
	if steps > s.maxSteps {
		return nil, invalidArgument("steps must be at most %d, got %d", s.maxSteps, steps)
	}
	unlock := s.locks.Lock(id)
	defer unlock()

	cur, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	states = make([]board.Board, 0, min(steps, 1024))
	if steps == 0 {
		return states, nil
	}

	var engine life.Engine
	for range steps {
		cur = engine.Next(cur)
		states = append(states, cur)
	}
	generationsTotal.Add(float64(steps))

	if err := s.commit(ctx, id, cur); err != nil {
		return nil, err
	}
	s.logger.Info("board advanced", "board_id", id, "steps", steps)
	return states, nil
}

// RunToFinalState advances the board under id until it is stable or repeats an
// earlier state, trying at most maxIterations generations. Every visited state
// is remembered, so memory grows linearly with maxIterations. If no final
// state is found the store is left unchanged and a *NonConvergenceError is
// returned.
func (s *Service) RunToFinalState(ctx context.Context, id store.ID, maxIterations int) (result FinalState, err error) {
	defer func() { observe("final", err) }()
	if maxIterations <= 0 {
		return FinalState{}, invalidArgument("maxIterations must be greater than 0, got %d", maxIterations)
	}
	unlock := s.locks.Lock(id)
	defer unlock()

	cur, err := s.store.Get(ctx, id)
	if err != nil {
		return FinalState{}, err
	}

	result, ok := findFinalState(cur, maxIterations)
	generationsTotal.Add(float64(result.StepsTaken))
	if !ok {
		s.logger.Warn("board did not converge", "board_id", id, "max_iterations", maxIterations)
		return FinalState{}, &NonConvergenceError{MaxIterations: maxIterations}
	}

	if err := s.commit(ctx, id, result.Board); err != nil {
		return FinalState{}, err
	}
	finalStateTotal.WithLabelValues(string(result.Reason)).Inc()
	finalStateSteps.Observe(float64(result.StepsTaken))
	s.logger.Info("board reached final state",
		"board_id", id,
		"steps", result.StepsTaken,
		"reason", result.Reason)
	return result, nil
}

// findFinalState runs the bounded search. On exhaustion it reports ok=false
// with StepsTaken set to the number of generations computed.
func findFinalState(start board.Board, maxIterations int) (FinalState, bool) {
	var engine life.Engine
	seen := map[string]struct{}{board.Serialize(start): {}}
	cur := start
	for step := 1; step <= maxIterations; step++ {
		next := engine.Next(cur)
		if board.Equal(cur, next) {
			return FinalState{Board: next, StepsTaken: step, Reason: Stable}, true
		}
		key := board.Serialize(next)
		if _, repeated := seen[key]; repeated {
			return FinalState{Board: next, StepsTaken: step, Reason: Oscillation}, true
		}
		seen[key] = struct{}{}
		cur = next
	}
	return FinalState{StepsTaken: maxIterations}, false
}

// Select marks id as last-active and returns its board.
func (s *Service) Select(ctx context.Context, id store.ID) (b board.Board, err error) {
	defer func() { observe("select", err) }()
	b, err = s.store.Get(ctx, id)
	if err != nil {
		return board.Board{}, err
	}
	if err := s.store.SetLastActive(ctx, id); err != nil {
		return board.Board{}, err
	}
	return b, nil
}

// Last returns the last-active board. ok is false when no marker is set or the
// marker points at a board that no longer exists.
func (s *Service) Last(ctx context.Context) (rec store.Record, ok bool, err error) {
	id, ok, err := s.store.LastActive(ctx)
	if err != nil || !ok {
		return store.Record{}, false, err
	}
	b, err := s.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return store.Record{}, false, nil
	}
	if err != nil {
		return store.Record{}, false, err
	}
	return store.Record{ID: id, Board: b}, true, nil
}

// Resolve returns id, or the last-active id when id is empty.
func (s *Service) Resolve(ctx context.Context, id store.ID) (store.ID, error) {
	if id != "" {
		return id, nil
	}
	last, ok, err := s.store.LastActive(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: no board id given and no last-active board", ErrNotFound)
	}
	return last, nil
}

// Delete removes id. The last-active marker is cleared if it pointed at id.
func (s *Service) Delete(ctx context.Context, id store.ID) (err error) {
	defer func() { observe("delete", err) }()
	unlock := s.locks.Lock(id)
	defer unlock()

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("board deleted", "board_id", id)
	return nil
}

func (s *Service) commit(ctx context.Context, id store.ID, b board.Board) error {
	if err := s.store.Commit(ctx, id, b); err != nil {
		return fmt.Errorf("persist %s: %w", id, err)
	}
	return nil
}

// keyedMutex hands out one mutex per id, dropping entries nobody holds.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[store.ID]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func (k *keyedMutex) Lock(id store.ID) func() {
	k.mu.Lock()
	e, ok := k.locks[id]
	if !ok {
		e = &lockEntry{}
		k.locks[id] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		k.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(k.locks, id)
		}
		k.mu.Unlock()
	}
}
