// Package fallback provides the retry and provider-fallback primitives
// shared by the upstream-facing services.
package fallback

import (
	"context"
	"fmt"
	"time"

	"github.com/finsight-io/finsight/internal/common"
)

// Retry invokes fn up to attempts times, sleeping baseDelay, 2*baseDelay,
// and so on between attempts. It stops early when the context is done and
// wraps the terminal error with common.ErrUpstreamUnavailable so callers
// can map it without inspecting provider-specific errors.
func Retry(ctx context.Context, attempts int, baseDelay time.Duration, fn func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			delay := time.Duration(i) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		if err := fn(ctx); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("%w: %d attempts exhausted: %v", common.ErrUpstreamUnavailable, attempts, lastErr)
}

// First calls each source in order and returns the first successful value.
// The boolean reports whether any source succeeded.
func First[T any](ctx context.Context, sources ...func(context.Context) (T, error)) (T, bool) {
	var zero T
	for _, src := range sources {
		if src == nil {
			continue
		}
		if ctx.Err() != nil {
			return zero, false
		}
		v, err := src(ctx)
		if err == nil {
			return v, true
		}
	}
	return zero, false
}
