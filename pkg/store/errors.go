package store

import (
	"context"
	"errors"
	"time"

	errs "github.com/matzehuels/mapgraph/pkg/errors"
)

// transient marks a backend failure worth another attempt, such as a
// dropped connection or a server-side timeout.
type transient struct{ err error }

func (t *transient) Error() string { return t.err.Error() }
func (t *transient) Unwrap() error { return t.err }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &transient{err: err}
}

// IsRetryable reports whether err, or anything it wraps, was marked by
// Retryable.
func IsRetryable(err error) bool {
	var t *transient
	return errors.As(err, &t)
}

const maxAttempts = 3

// retryDelay is the first backoff interval; each retry doubles it.
var retryDelay = 200 * time.Millisecond

// RetryWithBackoff calls fn until it succeeds, fails permanently, or has
// been tried maxAttempts times. Cancelling ctx between attempts returns a
// TIMEOUT error.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt == maxAttempts {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errs.Wrap(errs.ErrCodeTimeout, ctx.Err(), "store retry abandoned after %d attempts", attempt)
		case <-timer.C:
		}
		delay *= 2
	}
}
