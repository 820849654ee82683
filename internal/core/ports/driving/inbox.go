package driving

import "context"

// BatchHandler receives the outcome of each inbox batch.
type BatchHandler func(files []string, result *BatchResult, err error)

// InboxService analyses documents dropped into a watched directory.
type InboxService interface {
	// Start watches dir and analyses each settled batch of files, reporting
	// outcomes to handle. It blocks until Stop is called or ctx is cancelled.
	Start(ctx context.Context, dir string, handle BatchHandler) error

	// Stop ends a running Start.
	Stop() error
}
