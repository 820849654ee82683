package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSNotifyWatcher_EmitsSettledBatch(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewFSNotifyWatcher(WithDebounce(50 * time.Millisecond))
	batches, err := w.Watch(ctx, dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.pdf"), []byte("%PDF"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.PNG"), []byte("png"), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0600))

	select {
	case batch := <-batches:
		assert.Equal(t, []string{filepath.Join(dir, "a.PNG"), filepath.Join(dir, "b.pdf")}, batch)
	case <-time.After(5 * time.Second):
		t.Fatal("no batch emitted")
	}
}

func TestFSNotifyWatcher_ClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	batches, err := NewFSNotifyWatcher().Watch(ctx, t.TempDir())
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-batches:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed")
	}
}

func TestFSNotifyWatcher_MissingDir(t *testing.T) {
	_, err := NewFSNotifyWatcher().Watch(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestIsWatchedExtension(t *testing.T) {
	w := NewFSNotifyWatcher(WithExtensions(".pdf"))
	assert.True(t, w.isWatchedExtension("/in/x.PDF"))
	assert.False(t, w.isWatchedExtension("/in/x.png"))
}
