package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeboard/internal/board"
	"lifeboard/internal/kv"
)

var (
	block   = board.MustFromRows([][]int{{1, 1}, {1, 1}})
	blinker = board.MustFromRows([][]int{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}})
	dot     = board.MustFromRows([][]int{{1}})
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	bs, err := OpenBadger(kv.InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { bs.Close() })
	return map[string]Store{
		"memory": NewMemory(),
		"badger": bs,
	}
}

func TestStoreContract(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			id1, err := s.Create(ctx, block)
			require.NoError(t, err)
			id2, err := s.Create(ctx, blinker)
			require.NoError(t, err)
			assert.Equal(t, ID("board-1"), id1)
			assert.Equal(t, ID("board-2"), id2)

			got, err := s.Get(ctx, id1)
			require.NoError(t, err)
			assert.True(t, board.Equal(block, got))

			require.NoError(t, s.Update(ctx, id1, dot))
			got, err = s.Get(ctx, id1)
			require.NoError(t, err)
			assert.True(t, board.Equal(dot, got))

			all, err := s.All(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, id1, all[0].ID)
			assert.Equal(t, id2, all[1].ID)
			assert.True(t, board.Equal(blinker, all[1].Board))

			require.NoError(t, s.Delete(ctx, id1))
			_, err = s.Get(ctx, id1)
			assert.ErrorIs(t, err, ErrNotFound)
			require.NoError(t, s.Delete(ctx, id1), "deleting twice is not an error")

			id3, err := s.Create(ctx, block)
			require.NoError(t, err)
			assert.Equal(t, ID("board-3"), id3, "ids are never reused")
		})
	}
}

func TestStoreMissingIDs(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, id := range []ID{"board-9", "nonsense", "board-0", "board-01", ""} {
				_, err := s.Get(ctx, id)
				assert.ErrorIs(t, err, ErrNotFound, id)
				assert.ErrorIs(t, s.Update(ctx, id, block), ErrNotFound, id)
				assert.ErrorIs(t, s.SetLastActive(ctx, id), ErrNotFound, id)
				assert.ErrorIs(t, s.Commit(ctx, id, block), ErrNotFound, id)
			}
			all, err := s.All(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestStoreLastActive(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, ok, err := s.LastActive(ctx)
			require.NoError(t, err)
			assert.False(t, ok)

			id1, _ := s.Create(ctx, block)
			id2, _ := s.Create(ctx, blinker)
			require.NoError(t, s.SetLastActive(ctx, id2))

			require.NoError(t, s.Delete(ctx, id1))
			last, ok, err := s.LastActive(ctx)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, id2, last, "deleting another board leaves the marker")

			require.NoError(t, s.Delete(ctx, id2))
			_, ok, err = s.LastActive(ctx)
			require.NoError(t, err)
			assert.False(t, ok, "deleting the last-active board clears the marker")
		})
	}
}

func TestStoreCommit(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			id1, _ := s.Create(ctx, block)
			id2, _ := s.Create(ctx, blinker)
			require.NoError(t, s.SetLastActive(ctx, id2))

			require.NoError(t, s.Commit(ctx, id1, dot))
			got, err := s.Get(ctx, id1)
			require.NoError(t, err)
			assert.True(t, board.Equal(dot, got))
			last, ok, err := s.LastActive(ctx)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, id1, last)

			require.NoError(t, s.Delete(ctx, id2))
			assert.ErrorIs(t, s.Commit(ctx, id2, dot), ErrNotFound)
			last, _, err = s.LastActive(ctx)
			require.NoError(t, err)
			assert.Equal(t, id1, last, "a failed commit leaves the marker alone")
		})
	}
}

func TestBadgerDurableAcrossReopen(t *testing.T) {
	cfg := kv.DefaultConfig()
	cfg.Path = t.TempDir()
	cfg.GCInterval = 0
	ctx := context.Background()

	s, err := OpenBadger(cfg)
	require.NoError(t, err)
	id, err := s.Create(ctx, blinker)
	require.NoError(t, err)
	require.NoError(t, s.SetLastActive(ctx, id))
	require.NoError(t, s.Close())

	s, err = OpenBadger(cfg)
	require.NoError(t, err)
	defer s.Close()

	last, ok, err := s.LastActive(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, id, last)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, board.Equal(blinker, got))

	next, err := s.Create(ctx, block)
	require.NoError(t, err)
	assert.Equal(t, ID("board-2"), next, "sequence survives reopen")
}

func TestIDSeq(t *testing.T) {
	seq, ok := ID("board-42").Seq()
	assert.True(t, ok)
	assert.Equal(t, uint64(42), seq)

	for _, bad := range []ID{"board-", "board-x", "board--1", "42", "board-007"} {
		_, ok := bad.Seq()
		assert.False(t, ok, bad)
	}
}
