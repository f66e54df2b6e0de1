package http

import (
	"context"
	"errors"
	"math"
	"net/http"
	"time"
)

// BackoffConfig controls how a request is retried after a transport error or a retryable status.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	// RetryOnStatus lists the HTTP statuses worth retrying. Nil means 429 and every 5xx.
	RetryOnStatus []int
}

// NoBackoff disables retries for a single request even when the client has a default.
var NoBackoff = &BackoffConfig{}

// NewBackoffConfig returns a backoff with exponential delays starting at initial.
func NewBackoffConfig(maxRetries int, initial, max time.Duration) *BackoffConfig {
	return &BackoffConfig{
		MaxRetries:      maxRetries,
		InitialInterval: initial,
		MaxInterval:     max,
		Multiplier:      2,
	}
}

// delay returns the wait before the given retry attempt (0-based).
func (b *BackoffConfig) delay(attempt int) time.Duration {
	multiplier := b.Multiplier
	if multiplier <= 0 {
		multiplier = 2
	}
	d := time.Duration(float64(b.InitialInterval) * math.Pow(multiplier, float64(attempt)))
	if b.MaxInterval > 0 && d > b.MaxInterval {
		d = b.MaxInterval
	}
	return d
}

func (b *BackoffConfig) retryable(status int, err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if status == 0 {
		return err != nil
	}
	if b.RetryOnStatus == nil {
		return status == http.StatusTooManyRequests || status >= 500
	}
	for _, s := range b.RetryOnStatus {
		if s == status {
			return true
		}
	}
	return false
}

// wait sleeps for the delay or returns early when ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
