package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/ropa-cli/internal/logger"
)

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

// DefaultConcurrency bounds in-flight extraction calls when none is configured.
const DefaultConcurrency = 4

// AnalysisService extracts records from uploaded documents.
type AnalysisService struct {
	sessions    *SessionService
	llm         driven.LLMService
	prompts     driven.PromptStore
	detector    driven.MIMEDetector
	normalizer  *Normalizer
	concurrency int
}

// NewAnalysisService creates an analysis service.
// llm may be nil, in which case Analyze returns ErrLLMUnavailable.
func NewAnalysisService(
	sessions *SessionService,
	llm driven.LLMService,
	prompts driven.PromptStore,
	detector driven.MIMEDetector,
	normalizer *Normalizer,
	concurrency int,
) *AnalysisService {
	if normalizer == nil {
		normalizer = NewNormalizer(nil)
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &AnalysisService{
		sessions:    sessions,
		llm:         llm,
		prompts:     prompts,
		detector:    detector,
		normalizer:  normalizer,
		concurrency: concurrency,
	}
}

// Analyze validates the batch, extracts each document concurrently and
// commits the successful records, replacing the session's previous records.
//
// The batch targets sessionID, or the active session when empty. Results
// are committed only if the target is still active when extraction ends;
// otherwise they are discarded with ErrSessionInactive. With no active
// session at all, one is created at commit time.
func (s *AnalysisService) Analyze(
	ctx context.Context,
	sessionID string,
	uploads []domain.Upload,
) (*driving.BatchResult, error) {
	uploads, err := ValidateUploads(uploads, s.detector)
	if err != nil {
		return nil, err
	}
	if s.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}

	target := s.sessions.ActiveID()
	if sessionID != "" {
		if sessionID != target {
			return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrSessionInactive)
		}
		target = sessionID
	}

	logger.Section("Analysis")
	logger.Info("extracting %d document(s) with %s", len(uploads), s.llm.ModelName())

	records, failures, firstErr := s.extractAll(ctx, uploads)
	result := &driving.BatchResult{Records: records, Failures: failures}

	if len(records) == 0 {
		logger.Warn("every document in the batch failed")
		return result, firstErr
	}

	sessionID, err = s.commit(ctx, target, uploads, records)
	if err != nil {
		if errors.Is(err, domain.ErrSessionInactive) {
			logger.Warn("discarding %d record(s): %v", len(records), err)
		}
		return result, err
	}
	result.SessionID = sessionID

	logger.Info("committed %d record(s) to session %s, %d failed", len(records), sessionID, len(failures))
	return result, firstErr
}

// extractAll runs one extraction per upload with bounded concurrency.
// A failing document never cancels its siblings. Records and failures come
// back in upload order; firstErr is the failure observed first in time.
func (s *AnalysisService) extractAll(
	ctx context.Context,
	uploads []domain.Upload,
) ([]*domain.Record, []*domain.ExtractionError, error) {
	prompt := renderPrompt(s.prompts, driven.PromptExtraction, map[string]string{
		PlaceholderFields: fieldDefinitions(s.normalizer.Schema()),
	})

	records := make([]*domain.Record, len(uploads))
	failed := make([]*domain.ExtractionError, len(uploads))

	var (
		mu       sync.Mutex
		firstErr error
	)

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, u := range uploads {
		g.Go(func() error {
			record, err := s.extractOne(ctx, prompt, u)
			if err != nil {
				extErr := &domain.ExtractionError{FileName: u.FileName, Err: err}
				logger.Warn("%v", extErr)
				failed[i] = extErr
				mu.Lock()
				if firstErr == nil {
					firstErr = extErr
				}
				mu.Unlock()
				return nil
			}
			records[i] = record
			return nil
		})
	}
	_ = g.Wait()

	var (
		okRecords []*domain.Record
		failures  []*domain.ExtractionError
	)
	for i := range uploads {
		if records[i] != nil {
			okRecords = append(okRecords, records[i])
		}
		if failed[i] != nil {
			failures = append(failures, failed[i])
		}
	}
	return okRecords, failures, firstErr
}

func (s *AnalysisService) extractOne(ctx context.Context, prompt string, u domain.Upload) (*domain.Record, error) {
	logger.Debug("extracting %s (%s, %d bytes)", u.FileName, u.MIMEType, len(u.Data))

	reply, err := s.llm.Generate(ctx, prompt, []driven.Attachment{{
		FileName: u.FileName,
		MIMEType: u.MIMEType,
		Data:     u.Data,
	}}, driven.GenerateOptions{JSON: true})
	if err != nil {
		return nil, err
	}

	record, err := s.normalizer.Normalize(u.FileName, reply)
	if err != nil {
		return nil, err
	}
	record.MIMEType = u.MIMEType
	record.ExtractedAt = s.sessions.now()
	return record, nil
}

// commit stores records in the target session, or in a new session when
// there was no target and still is none.
func (s *AnalysisService) commit(
	ctx context.Context,
	target string,
	uploads []domain.Upload,
	records []*domain.Record,
) (string, error) {
	if target == "" {
		if active := s.sessions.ActiveID(); active != "" {
			return "", fmt.Errorf("another session became active: %w", domain.ErrSessionInactive)
		}
		session, err := s.sessions.Create(ctx)
		if err != nil {
			return "", err
		}
		target = session.ID
	}

	err := s.sessions.mutate(ctx, target, true, func(session *domain.Session) error {
		session.Records = records
		session.Title = fmt.Sprintf(analysedSessionTitle, uploads[0].FileName)
		return nil
	})
	if err != nil {
		return "", err
	}
	return target, nil
}
