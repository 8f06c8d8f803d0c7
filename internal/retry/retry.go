// Package retry wraps transient database failures (deadlock,
// serialization failure, timeout) in bounded exponential backoff: a
// transaction aborted by the database is retried by the caller up to a
// configured number of attempts with exponential backoff.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/SimpleBookRental/backend/internal/domain"
)

// Do runs op at most maxAttempts times in total (maxAttempts-1 retries),
// with exponential backoff between attempts, for as long as op returns a
// transient error (domain.IsTransient). Any other
// error, or exhaustion of attempts, is returned as-is.
func Do(ctx context.Context, maxAttempts int, op func() error) error {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond
	bctx := backoff.WithContext(backoff.WithMaxRetries(b, uint64(maxAttempts-1)), ctx)

	return backoff.Retry(func() error {
		err := op()
		if err == nil {
			return nil
		}
		if domain.IsTransient(err) {
			return err
		}
		return backoff.Permanent(err)
	}, bctx)
}
