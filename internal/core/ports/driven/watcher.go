package driven

import "context"

// InboxWatcher reports documents that land in a directory.
type InboxWatcher interface {
	// Watch emits batches of settled file paths until ctx is cancelled.
	// The channel is closed when watching stops.
	Watch(ctx context.Context, dir string) (<-chan []string, error)
}
