// Package watcher reports documents dropped into an inbox directory.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/ropa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ropa-cli/internal/logger"
)

// Ensure FSNotifyWatcher implements the interface.
var _ driven.InboxWatcher = (*FSNotifyWatcher)(nil)

// DefaultDebounce is how long a directory must be quiet before a batch is emitted.
const DefaultDebounce = 750 * time.Millisecond

// DefaultExtensions are the document types the extractor accepts.
var DefaultExtensions = []string{".pdf", ".png", ".jpg", ".jpeg"}

// FSNotifyWatcher implements driven.InboxWatcher using fsnotify. Files that
// are created or written are collected until the directory settles, then
// emitted together as one batch.
type FSNotifyWatcher struct {
	extensions []string
	debounce   time.Duration
}

// Option configures a watcher.
type Option func(*FSNotifyWatcher)

// WithExtensions overrides the watched file extensions.
func WithExtensions(exts ...string) Option {
	return func(w *FSNotifyWatcher) {
		w.extensions = exts
	}
}

// WithDebounce overrides the settle period.
func WithDebounce(d time.Duration) Option {
	return func(w *FSNotifyWatcher) {
		w.debounce = d
	}
}

// NewFSNotifyWatcher creates a new inbox watcher.
func NewFSNotifyWatcher(opts ...Option) *FSNotifyWatcher {
	w := &FSNotifyWatcher{
		extensions: DefaultExtensions,
		debounce:   DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch starts monitoring dir. The returned channel is closed when ctx is
// cancelled or the underlying watcher fails.
func (w *FSNotifyWatcher) Watch(ctx context.Context, dir string) (<-chan []string, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}

	batches := make(chan []string, 1)

	go func() {
		defer close(batches)
		defer fw.Close()

		pending := make(map[string]struct{})
		timer := time.NewTimer(w.debounce)
		if !timer.Stop() {
			<-timer.C
		}

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-fw.Events:
				if !ok {
					return
				}
				if !w.isWatchedExtension(event.Name) {
					continue
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
					continue
				}
				pending[event.Name] = struct{}{}
				timer.Reset(w.debounce)

			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				logger.Warn("inbox watcher: %v", err)

			case <-timer.C:
				batch := settled(pending)
				pending = make(map[string]struct{})
				if len(batch) == 0 {
					continue
				}
				select {
				case batches <- batch:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return batches, nil
}

// settled returns the pending paths that still exist as regular files, sorted.
func settled(pending map[string]struct{}) []string {
	batch := make([]string, 0, len(pending))
	for path := range pending {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		batch = append(batch, path)
	}
	sort.Strings(batch)
	return batch
}

func (w *FSNotifyWatcher) isWatchedExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range w.extensions {
		if ext == e {
			return true
		}
	}
	return false
}
