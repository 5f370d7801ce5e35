package util

import (
	"context"
	"log/slog"
	"time"
)

// Retry calls fn up to maxAttempts times, doubling the delay between
// attempts starting from baseDelay. It returns nil on the first success and
// the last error once the attempts are exhausted. Cancelling the context
// aborts the wait between attempts.
func Retry(ctx context.Context, maxAttempts int, baseDelay time.Duration, fn func() error) error {
	var err error
	delay := baseDelay

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if attempt == maxAttempts {
			break
		}

		slog.Debug("retrying after error",
			"attempt", attempt, "maxAttempts", maxAttempts, "delay", delay, "err", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}

	return err
}
