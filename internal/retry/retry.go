// Package retry runs calls with bounded exponential backoff and classifies
// HTTP outcomes into domain error kinds.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"autoposter/internal/domain"
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Config holds the retry policy.
type Config struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Sleep          SleepFunc
}

// Retrier applies the policy to arbitrary calls.
type Retrier struct {
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	sleep          SleepFunc
	logger         *slog.Logger
}

func NewRetrier(cfg Config, logger *slog.Logger) *Retrier {
	r := &Retrier{
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		sleep:          cfg.Sleep,
		logger:         logger,
	}
	if r.maxAttempts < 1 {
		r.maxAttempts = 3
	}
	if r.initialBackoff <= 0 {
		r.initialBackoff = time.Second
	}
	if r.sleep == nil {
		r.sleep = Sleep
	}
	return r
}

// MaxAttempts returns the total number of attempts per call.
func (r *Retrier) MaxAttempts() int {
	return r.maxAttempts
}

// Do calls fn until it succeeds, fails with a non-retryable error, or the
// attempt budget is spent. No sleep follows the last attempt.
func (r *Retrier) Do(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	var err error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		err = fn(ctx)
		if err == nil {
			if attempt > 1 {
				r.logger.Info("call succeeded after retry", "call", name, "attempt", attempt)
			}
			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if !Retryable(err) {
			r.logger.Error("call failed, not retryable",
				"call", name,
				"attempt", attempt,
				"kind", domain.KindOf(err),
				"error", err,
			)
			return err
		}

		if attempt == r.maxAttempts {
			break
		}

		backoff := r.calculateBackoff(attempt)
		r.logger.Warn("call failed, retrying",
			"call", name,
			"attempt", attempt,
			"backoff", backoff,
			"kind", domain.KindOf(err),
			"error", err,
		)
		statsFromContext(ctx).add()

		if err := r.sleep(ctx, backoff); err != nil {
			return err
		}
	}

	r.logger.Error("call failed, retries exhausted",
		"call", name,
		"attempts", r.maxAttempts,
		"error", err,
	)
	return fmt.Errorf("failed after %d attempts: %w", r.maxAttempts, err)
}

func (r *Retrier) calculateBackoff(attempt int) time.Duration {
	backoff := r.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if r.maxBackoff > 0 && backoff > r.maxBackoff {
		backoff = r.maxBackoff
	}
	return backoff
}

var retryableStatus = map[int]bool{
	429: true,
	500: true,
	502: true,
	503: true,
	504: true,
}

// Retryable reports whether err may succeed on another attempt. Errors that
// carry an HTTP status are retried only for 429 and 500/502/503/504.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var de *domain.Error
	if errors.As(err, &de) && de.StatusCode != 0 {
		return retryableStatus[de.StatusCode]
	}
	return domain.KindOf(err).Retryable()
}

type statsKey struct{}

// Stats counts the retries performed by every call made with a context
// returned from WithStats.
type Stats struct {
	mu      sync.Mutex
	retries int
}

// WithStats attaches a fresh retry counter to ctx.
func WithStats(ctx context.Context) (context.Context, *Stats) {
	s := &Stats{}
	return context.WithValue(ctx, statsKey{}, s), s
}

func statsFromContext(ctx context.Context) *Stats {
	s, _ := ctx.Value(statsKey{}).(*Stats)
	return s
}

func (s *Stats) add() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.retries++
	s.mu.Unlock()
}

// Retries returns the number of retries recorded so far.
func (s *Stats) Retries() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.retries
}
