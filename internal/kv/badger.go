// Package kv opens and manages the embedded BadgerDB instance that backs
// durable board storage.
package kv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Config describes where and how the database lives.
type Config struct {
	// Path is the directory for database files. Ignored when InMemory is true.
	Path     string
	InMemory bool
	// SyncWrites fsyncs every commit.
	SyncWrites bool
	// Logger receives badger's own messages. Nil silences them.
	Logger *slog.Logger
	// GCInterval is how often value log GC runs on a persistent database.
	// Zero disables it.
	GCInterval time.Duration
	// GCDiscardRatio is passed to RunValueLogGC.
	GCDiscardRatio float64
}

// DefaultConfig returns settings for a persistent database. Path still has
// to be filled in.
func DefaultConfig() Config {
	return Config{
		SyncWrites:     true,
		GCInterval:     5 * time.Minute,
		GCDiscardRatio: 0.5,
	}
}

// InMemoryConfig returns settings for tests and throwaway sessions.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

func (c Config) validate() error {
	if !c.InMemory && c.Path == "" {
		return errors.New("path is required for persistent database")
	}
	if c.GCInterval > 0 && (c.GCDiscardRatio <= 0 || c.GCDiscardRatio >= 1) {
		return fmt.Errorf("gc discard ratio must be between 0 and 1, got %v", c.GCDiscardRatio)
	}
	return nil
}

// badgerLogger routes badger output into slog. Badger is chatty at info
// level, so Infof goes to Debug.
type badgerLogger struct{ *slog.Logger }

func (l badgerLogger) Errorf(f string, args ...any)   { l.Error(fmt.Sprintf(f, args...)) }
func (l badgerLogger) Warningf(f string, args ...any) { l.Warn(fmt.Sprintf(f, args...)) }
func (l badgerLogger) Infof(f string, args ...any)    { l.Debug(fmt.Sprintf(f, args...)) }
func (l badgerLogger) Debugf(f string, args ...any)   { l.Debug(fmt.Sprintf(f, args...)) }

// DB is an open BadgerDB plus its background value log GC.
type DB struct {
	*badger.DB
	logger *slog.Logger
	stop   chan struct{}
	done   chan struct{}
}

// Open opens the database described by cfg. Callers must Close the result.
func Open(cfg Config) (*DB, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
		return nil, fmt.Errorf("create database directory %s: %w", cfg.Path, err)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1).WithLogger(nil)
	logger := cfg.Logger
	if logger != nil {
		opts = opts.WithLogger(badgerLogger{logger})
	} else {
		logger = slog.New(slog.DiscardHandler)
	}

	bdb, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	db := &DB{DB: bdb, logger: logger}
	if cfg.GCInterval > 0 && !cfg.InMemory {
		db.stop = make(chan struct{})
		db.done = make(chan struct{})
		go db.collectGarbage(cfg.GCInterval, cfg.GCDiscardRatio)
	}
	return db, nil
}

// Close stops garbage collection and closes the database.
func (d *DB) Close() error {
	if d.stop != nil {
		close(d.stop)
		<-d.done
	}
	return d.DB.Close()
}

// WithTxn runs fn inside a read-write transaction and commits when fn succeeds.
func (d *DB) WithTxn(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}
	txn := d.NewTransaction(true)
	defer txn.Discard()

	if err := fn(txn); err != nil {
		return err
	}
	return txn.Commit()
}

// WithReadTxn runs fn inside a read-only transaction.
func (d *DB) WithReadTxn(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}
	txn := d.NewTransaction(false)
	defer txn.Discard()
	return fn(txn)
}

func (d *DB) collectGarbage(interval time.Duration, ratio float64) {
	defer close(d.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
			err := d.RunValueLogGC(ratio)
			switch {
			case err == nil:
				d.logger.Debug("value log GC completed")
			case errors.Is(err, badger.ErrNoRewrite):
			default:
				d.logger.Warn("value log GC failed", "error", err)
			}
		}
	}
}
