// Package llm holds provider-independent decorators for driven.LLMService.
package llm

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/core/ports/driven"
	"github.com/custodia-labs/ropa-cli/internal/logger"
)

// Ensure RateLimited implements the interface.
var _ driven.LLMService = (*RateLimited)(nil)

// DefaultBackoff is how long calls are held after the provider answers 429.
const DefaultBackoff = 10 * time.Second

// RateLimitConfig holds the token bucket parameters.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate. Zero or less disables throttling.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
	// Backoff overrides DefaultBackoff.
	Backoff time.Duration
}

// RateLimited throttles Generate calls on a wrapped service with a token
// bucket, and pauses every caller for a backoff period after the provider
// reports a rate limit.
type RateLimited struct {
	next    driven.LLMService
	limiter *rate.Limiter
	backoff time.Duration

	mu      sync.Mutex
	retryAt time.Time
	now     func() time.Time
}

// NewRateLimited wraps next with the given limits.
func NewRateLimited(next driven.LLMService, cfg RateLimitConfig) *RateLimited {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = 1
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = DefaultBackoff
	}
	return &RateLimited{
		next:    next,
		limiter: rate.NewLimiter(limit, cfg.BurstSize),
		backoff: cfg.Backoff,
		now:     time.Now,
	}
}

// Wait blocks until a request may be sent.
func (r *RateLimited) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if wait := retryAt.Sub(r.now()); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return r.limiter.Wait(ctx)
}

// Generate waits for a token then delegates.
func (r *RateLimited) Generate(
	ctx context.Context,
	prompt string,
	attachments []driven.Attachment,
	opts driven.GenerateOptions,
) (string, error) {
	if err := r.Wait(ctx); err != nil {
		return "", err
	}
	reply, err := r.next.Generate(ctx, prompt, attachments, opts)
	if errors.Is(err, domain.ErrRateLimited) {
		r.recordRateLimit()
	}
	return reply, err
}

func (r *RateLimited) recordRateLimit() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retryAt = r.now().Add(r.backoff)
	logger.Warn("AI provider rate limit hit, pausing requests for %s", r.backoff)
}

// ModelName returns the wrapped model name.
func (r *RateLimited) ModelName() string {
	return r.next.ModelName()
}

// Ping delegates without consuming a token.
func (r *RateLimited) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}

// Close closes the wrapped service.
func (r *RateLimited) Close() error {
	return r.next.Close()
}
