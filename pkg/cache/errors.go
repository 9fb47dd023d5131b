package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnreachable is wrapped into the error returned when the Redis backend
// does not answer PING.
var ErrUnreachable = errors.New("cache backend unreachable")

// RetryableError marks a failure that may clear up on its own, such as a
// Redis server that is still starting. The CLI also reads it as "run without
// a cache" rather than aborting the command.
type RetryableError struct{ Err error }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether any error in err's chain was marked transient.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff is a retry schedule: up to Attempts calls, waiting Delay after the
// first failure and twice as long after each one that follows.
type Backoff struct {
	Attempts int
	Delay    time.Duration
}

// DefaultBackoff is used for the Redis connection check.
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second}

// RetryWithBackoff runs fn under DefaultBackoff.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultBackoff.Retry(ctx, fn)
}

// Retry calls fn until it succeeds, returns an error not marked Retryable,
// the attempts run out, or ctx is done. The last error from fn is returned.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	wait := b.Delay
	var err error
	for n := 1; ; n++ {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if n >= b.Attempts {
			return err
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		wait *= 2
	}
}
