package repository

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	apperrors "planora/pkg/errors"
)

// Every store call runs under a bounded per-attempt timeout and transient
// failures get a bounded retry before surfacing as DEPENDENCY_UNAVAILABLE.
var policy = struct {
	timeout      time.Duration
	maxAttempts  int
	baseInterval time.Duration
}{
	timeout:      5 * time.Second,
	maxAttempts:  3,
	baseInterval: 100 * time.Millisecond,
}

// Configure overrides the call policy. Call once at startup, before any
// repository traffic.
func Configure(timeout, baseInterval time.Duration, maxAttempts int) {
	if timeout > 0 {
		policy.timeout = timeout
	}
	if baseInterval > 0 {
		policy.baseInterval = baseInterval
	}
	if maxAttempts > 0 {
		policy.maxAttempts = maxAttempts
	}
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return true
	}
	return false
}

// withRetry runs fn under the call policy. Transient errors are retried with
// exponential backoff; anything else is returned as-is for the caller to map.
func withRetry(ctx context.Context, message string, fn func(ctx context.Context) error) error {
	bo := backoff.WithContext(
		backoff.WithMaxRetries(
			backoff.NewExponentialBackOff(backoff.WithInitialInterval(policy.baseInterval)),
			uint64(policy.maxAttempts-1),
		),
		ctx,
	)

	err := backoff.Retry(func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, policy.timeout)
		defer cancel()

		if err := fn(attemptCtx); err != nil {
			if isTransient(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		return nil
	}, bo)

	if err != nil {
		if isTransient(err) {
			return apperrors.DependencyUnavailable(message, err)
		}
		return err
	}
	return nil
}
