package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/ropa-cli/internal/logger"
)

// BatchHandler receives the outcome of each inbox batch.
type BatchHandler = driving.BatchHandler

var _ driving.InboxService = (*InboxService)(nil)

// InboxService analyses documents that land in a watched directory.
// Each settled batch of files is analysed into the active session.
type InboxService struct {
	watcher  driven.InboxWatcher
	analysis driving.AnalysisService
	readFile func(string) ([]byte, error)

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewInboxService creates an inbox service.
func NewInboxService(watcher driven.InboxWatcher, analysis driving.AnalysisService) *InboxService {
	return &InboxService{
		watcher:  watcher,
		analysis: analysis,
		readFile: os.ReadFile,
	}
}

// Start watches dir and analyses each batch, reporting outcomes to handle.
// It blocks until Stop is called, ctx is cancelled or the watcher closes.
func (s *InboxService) Start(ctx context.Context, dir string, handle BatchHandler) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("%w: inbox already running", domain.ErrInvalidInput)
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	batches, err := s.watcher.Watch(ctx, dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	logger.Info("watching %s for documents", dir)

	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			return ctx.Err()
		case <-stopCh:
			s.wg.Wait()
			return nil
		case files, ok := <-batches:
			if !ok {
				s.wg.Wait()
				return nil
			}
			// Batches are processed one at a time so each commit sees the
			// previous one.
			s.wg.Add(1)
			s.runBatch(ctx, files, handle)
			s.wg.Done()
		}
	}
}

// Stop ends a running Start call after its current batch.
func (s *InboxService) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false
	close(s.stopCh)
	return nil
}

func (s *InboxService) runBatch(ctx context.Context, files []string, handle BatchHandler) {
	uploads := make([]domain.Upload, 0, len(files))
	for _, path := range files {
		data, err := s.readFile(path)
		if err != nil {
			logger.Warn("inbox: skipping %s: %v", path, err)
			continue
		}
		uploads = append(uploads, domain.Upload{FileName: filepath.Base(path), Data: data})
	}
	if len(uploads) == 0 {
		return
	}

	logger.Debug("inbox: analysing %d file(s)", len(uploads))
	result, err := s.analysis.Analyze(ctx, "", uploads)
	if err != nil {
		logger.Warn("inbox: batch failed: %v", err)
	}
	if handle != nil {
		handle(files, result, err)
	}
}
