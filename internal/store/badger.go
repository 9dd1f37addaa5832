package store

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"

	"lifeboard/internal/board"
	"lifeboard/internal/kv"
)

var _ Store = (*Badger)(nil)

var (
	boardPrefix   = []byte("boards/")
	seqKey        = []byte("meta/seq")
	lastActiveKey = []byte("meta/last_active")
)

func boardKey(seq uint64) []byte {
	key := make([]byte, len(boardPrefix)+8)
	copy(key, boardPrefix)
	binary.BigEndian.PutUint64(key[len(boardPrefix):], seq)
	return key
}

// Badger is a durable Store on top of BadgerDB. Board keys embed the big-endian
// sequence number so prefix iteration yields creation order.
type Badger struct {
	db *kv.DB

	// createMu serialises id allocation so concurrent creates never conflict.
	createMu sync.Mutex
}

// NewBadger wraps an open database. The store takes ownership of db and
// closes it on Close.
func NewBadger(db *kv.DB) *Badger {
	return &Badger{db: db}
}

// OpenBadger opens the database described by cfg and wraps it.
func OpenBadger(cfg kv.Config) (*Badger, error) {
	db, err := kv.Open(cfg)
	if err != nil {
		return nil, err
	}
	return NewBadger(db), nil
}

// Create implements Store.
func (s *Badger) Create(ctx context.Context, b board.Board) (ID, error) {
	value, err := json.Marshal(b)
	if err != nil {
		return "", fmt.Errorf("encode board: %w", err)
	}

	s.createMu.Lock()
	defer s.createMu.Unlock()

	var seq uint64
	err = s.db.WithTxn(ctx, func(txn *badger.Txn) error {
		last, err := readUint64(txn, seqKey)
		if err != nil {
			return err
		}
		seq = last + 1
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], seq)
		if err := txn.Set(seqKey, buf[:]); err != nil {
			return err
		}
		return txn.Set(boardKey(seq), value)
	})
	if err != nil {
		return "", fmt.Errorf("create board: %w", err)
	}
	return newID(seq), nil
}

// Update implements Store.
func (s *Badger) Update(ctx context.Context, id ID, b board.Board) error {
	return s.replace(ctx, id, b, false)
}

// Commit implements Store.
func (s *Badger) Commit(ctx context.Context, id ID, b board.Board) error {
	return s.replace(ctx, id, b, true)
}

func (s *Badger) replace(ctx context.Context, id ID, b board.Board, markActive bool) error {
	seq, ok := id.Seq()
	if !ok {
		return notFound(id)
	}
	value, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode board: %w", err)
	}
	return s.db.WithTxn(ctx, func(txn *badger.Txn) error {
		key := boardKey(seq)
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return notFound(id)
			}
			return err
		}
		if err := txn.Set(key, value); err != nil {
			return err
		}
		if !markActive {
			return nil
		}
		return txn.Set(lastActiveKey, []byte(id))
	})
}

// Get implements Store.
func (s *Badger) Get(ctx context.Context, id ID) (board.Board, error) {
	seq, ok := id.Seq()
	if !ok {
		return board.Board{}, notFound(id)
	}
	var b board.Board
	err := s.db.WithReadTxn(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get(boardKey(seq))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return notFound(id)
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &b)
		})
	})
	return b, err
}

// All implements Store.
func (s *Badger) All(ctx context.Context) ([]Record, error) {
	var out []Record
	err := s.db.WithReadTxn(ctx, func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = boardPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := item.Key()
			seq := binary.BigEndian.Uint64(key[len(boardPrefix):])
			var b board.Board
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &b)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", newID(seq), err)
			}
			out = append(out, Record{ID: newID(seq), Board: b})
		}
		return nil
	})
	return out, err
}

// Delete implements Store.
func (s *Badger) Delete(ctx context.Context, id ID) error {
	return s.db.WithTxn(ctx, func(txn *badger.Txn) error {
		if seq, ok := id.Seq(); ok {
			if err := txn.Delete(boardKey(seq)); err != nil {
				return err
			}
		}
		last, ok, err := readLastActive(txn)
		if err != nil || !ok || last != id {
			return err
		}
		return txn.Delete(lastActiveKey)
	})
}

// LastActive implements Store.
func (s *Badger) LastActive(ctx context.Context) (ID, bool, error) {
	var (
		id ID
		ok bool
	)
	err := s.db.WithReadTxn(ctx, func(txn *badger.Txn) error {
		var err error
		id, ok, err = readLastActive(txn)
		return err
	})
	return id, ok, err
}

// SetLastActive implements Store.
func (s *Badger) SetLastActive(ctx context.Context, id ID) error {
	seq, ok := id.Seq()
	if !ok {
		return notFound(id)
	}
	return s.db.WithTxn(ctx, func(txn *badger.Txn) error {
		if _, err := txn.Get(boardKey(seq)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return notFound(id)
			}
			return err
		}
		return txn.Set(lastActiveKey, []byte(id))
	})
}

// Close implements Store.
func (s *Badger) Close() error { return s.db.Close() }

func readUint64(txn *badger.Txn, key []byte) (uint64, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var n uint64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("corrupt sequence value of %d bytes", len(val))
		}
		n = binary.BigEndian.Uint64(val)
		return nil
	})
	return n, err
}

func readLastActive(txn *badger.Txn) (ID, bool, error) {
	item, err := txn.Get(lastActiveKey)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return "", false, err
	}
	return ID(val), true, nil
}
