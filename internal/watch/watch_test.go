package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifeboard/internal/board"
	"lifeboard/internal/service"
	"lifeboard/internal/store"
)

type uploads struct {
	mu  sync.Mutex
	ids []store.ID
}

func (u *uploads) add(id store.ID, _ board.Board) {
	u.mu.Lock()
	u.ids = append(u.ids, id)
	u.mu.Unlock()
}

func (u *uploads) len() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.ids)
}

func TestWatcherUploadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.txt")
	require.NoError(t, os.WriteFile(path, []byte("0 1 0\n0 1 0\n0 1 0\n"), 0o644))

	svc := service.New(store.NewMemory(), nil)
	got := &uploads{}
	w := New(path, svc, nil, got.add)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return got.len() == 1 }, 2*time.Second, 10*time.Millisecond,
		"existing file is uploaded at start")

	require.NoError(t, os.WriteFile(path, []byte("1 1\n1 1\n"), 0o644))
	require.Eventually(t, func() bool { return got.len() == 2 }, 2*time.Second, 10*time.Millisecond)

	rec, ok, err := svc.Last(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "11|11", rec.Board.String())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

type fakeUploader struct{ calls int }

func (f *fakeUploader) UploadText(_ context.Context, text string) (store.ID, board.Board, error) {
	b, err := board.Parse(text)
	if err != nil {
		return "", board.Board{}, err
	}
	f.calls++
	return "board-1", b, nil
}

func TestReloadSkipsInvalidAndUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.txt")
	up := &fakeUploader{}
	w := New(path, up, nil, nil)
	ctx := context.Background()

	w.reload(ctx)
	assert.Equal(t, 0, up.calls, "a missing file is ignored")

	require.NoError(t, os.WriteFile(path, []byte("0 2\n"), 0o644))
	w.reload(ctx)
	assert.Equal(t, 0, up.calls, "invalid content is skipped")

	require.NoError(t, os.WriteFile(path, []byte("0 1\n"), 0o644))
	w.reload(ctx)
	w.reload(ctx)
	assert.Equal(t, 1, up.calls, "unchanged content is uploaded once")
}
