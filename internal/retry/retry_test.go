package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoposter/internal/domain"
)

type fakeSleeper struct {
	delays []time.Duration
}

func (f *fakeSleeper) Sleep(ctx context.Context, d time.Duration) error {
	f.delays = append(f.delays, d)
	return ctx.Err()
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRetrier(s *fakeSleeper) *Retrier {
	return NewRetrier(Config{
		MaxAttempts:    3,
		InitialBackoff: time.Second,
		MaxBackoff:     30 * time.Second,
		Sleep:          s.Sleep,
	}, discardLogger())
}

func serverError(code int) error {
	return &domain.Error{Kind: ClassifyStatus(code), Op: "test", StatusCode: code, Err: errors.New("boom")}
}

func TestRetrier_SucceedsOnThirdAttempt(t *testing.T) {
	sleeper := &fakeSleeper{}
	r := newTestRetrier(sleeper)
	ctx, stats := WithStats(context.Background())

	calls := 0
	err := r.Do(ctx, "test", func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return serverError(503)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, sleeper.delays)
	assert.Equal(t, 2, stats.Retries())
}

func TestRetrier_ExhaustsAfterThreeAttempts(t *testing.T) {
	sleeper := &fakeSleeper{}
	r := newTestRetrier(sleeper)

	calls := 0
	err := r.Do(context.Background(), "test", func(ctx context.Context) error {
		calls++
		return serverError(500)
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed after 3 attempts")
	assert.Equal(t, domain.KindServer, domain.KindOf(err))
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, sleeper.delays)
}

func TestRetrier_ClientErrorFailsImmediately(t *testing.T) {
	sleeper := &fakeSleeper{}
	r := newTestRetrier(sleeper)

	calls := 0
	err := r.Do(context.Background(), "test", func(ctx context.Context) error {
		calls++
		return serverError(401)
	})

	require.Error(t, err)
	assert.Equal(t, domain.KindClient, domain.KindOf(err))
	assert.Equal(t, 1, calls)
	assert.Empty(t, sleeper.delays)
}

func TestRetrier_UnlistedServerStatusIsNotRetried(t *testing.T) {
	sleeper := &fakeSleeper{}
	r := newTestRetrier(sleeper)

	calls := 0
	err := r.Do(context.Background(), "test", func(ctx context.Context) error {
		calls++
		return serverError(501)
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, sleeper.delays)
}

func TestRetrier_NetworkErrorsAreRetried(t *testing.T) {
	sleeper := &fakeSleeper{}
	r := newTestRetrier(sleeper)

	calls := 0
	err := r.Do(context.Background(), "test", func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return domain.NewError(domain.KindNetwork, "test", errors.New("connection refused"))
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []time.Duration{time.Second}, sleeper.delays)
}

func TestRetrier_StopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRetrier(Config{
		MaxAttempts:    3,
		InitialBackoff: time.Second,
		Sleep: func(ctx context.Context, d time.Duration) error {
			cancel()
			return ctx.Err()
		},
	}, discardLogger())

	calls := 0
	err := r.Do(ctx, "test", func(ctx context.Context) error {
		calls++
		return serverError(503)
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestRetrier_BackoffIsCapped(t *testing.T) {
	r := NewRetrier(Config{
		MaxAttempts:    5,
		InitialBackoff: time.Second,
		MaxBackoff:     3 * time.Second,
	}, discardLogger())

	assert.Equal(t, time.Second, r.calculateBackoff(1))
	assert.Equal(t, 2*time.Second, r.calculateBackoff(2))
	assert.Equal(t, 3*time.Second, r.calculateBackoff(3))
	assert.Equal(t, 3*time.Second, r.calculateBackoff(4))
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"rate limited", serverError(429), true},
		{"bad gateway", serverError(502), true},
		{"gateway timeout", serverError(504), true},
		{"not found", serverError(404), false},
		{"network", domain.NewError(domain.KindNetwork, "x", errors.New("reset")), true},
		{"protocol", domain.NewError(domain.KindProtocol, "x", errors.New("bad json")), false},
		{"cancelled", context.Canceled, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Retryable(tc.err))
		})
	}
}
