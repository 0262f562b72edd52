package http

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestRetryWithBackoffSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	}, fastRetryConfig())

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryWithBackoffRetriesRetryableErrors(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return NewRateLimitError("openai", "slow down")
		}
		return nil
	}, fastRetryConfig())

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoffStopsOnNonRetryable(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func(ctx context.Context) error {
		calls++
		return NewAuthenticationError("openai", "bad key")
	}, fastRetryConfig())

	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var httpErr *Error
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, ErrTypeAuthentication, httpErr.Type)
}

func TestRetryWithBackoffExhaustsRetries(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func(ctx context.Context) error {
		calls++
		return NewServiceUnavailableError("openai", "down")
	}, fastRetryConfig())

	require.Error(t, err)
	assert.Equal(t, 4, calls) // initial attempt + 3 retries
}

func TestRetryWithBackoffHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func(ctx context.Context) error {
		return NewRateLimitError("openai", "slow down")
	}, fastRetryConfig())

	assert.ErrorIs(t, err, context.Canceled)
}

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "rate limit is retryable", err: NewRateLimitError("p", "m"), expected: true},
		{name: "timeout is retryable", err: NewTimeoutError("p", "m"), expected: true},
		{name: "auth is not retryable", err: NewAuthenticationError("p", "m"), expected: false},
		{name: "invalid request is not retryable", err: NewInvalidRequestError("p", "m"), expected: false},
		{name: "generic error is not retryable", err: errors.New("boom"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ShouldRetry(tt.err))
		})
	}
}

func TestExponentialBackoffCapsAtMax(t *testing.T) {
	config := fastRetryConfig()
	for attempt := 0; attempt < 10; attempt++ {
		backoff := ExponentialBackoff(attempt, config)
		assert.GreaterOrEqual(t, backoff, time.Duration(0))
		assert.LessOrEqual(t, backoff, config.MaxBackoff)
	}
}
