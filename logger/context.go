package logger

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// contextKey is the type for context keys to avoid collisions
type contextKey string

const (
	// restCounterKey is the context key for tracking REST call count per request
	restCounterKey contextKey = "rest_call_counter"
	// restElapsedKey is the context key for tracking total REST elapsed time per request
	restElapsedKey contextKey = "rest_elapsed_nanos"
	// severityHookKey stores a callback for request-level severity tracking
	severityHookKey contextKey = "severity_hook"
)

// WithRESTCounter creates a new context with a REST call counter and elapsed
// time tracker. Install it once per inbound request; every client call made
// under the context increments the shared counters.
func WithRESTCounter(ctx context.Context) context.Context {
	counter := int64(0)
	elapsed := int64(0)
	ctx = context.WithValue(ctx, restCounterKey, &counter)
	ctx = context.WithValue(ctx, restElapsedKey, &elapsed)
	return ctx
}

// WithSeverityHook attaches a severity hook to the context. The hook is used by the
// logging adapter to propagate WARN/ERROR logs back to request middleware for routing.
func WithSeverityHook(ctx context.Context, hook func(zerolog.Level)) context.Context {
	if ctx == nil || hook == nil {
		return ctx
	}
	return context.WithValue(ctx, severityHookKey, hook)
}

// severityHookFromContext retrieves the severity hook from the context when present.
func severityHookFromContext(ctx context.Context) func(zerolog.Level) {
	if ctx == nil {
		return nil
	}
	if hook, ok := ctx.Value(severityHookKey).(func(zerolog.Level)); ok {
		return hook
	}
	return nil
}

// IncrementRESTCounter increments the REST call counter in the context
func IncrementRESTCounter(ctx context.Context) {
	if counter, ok := ctx.Value(restCounterKey).(*int64); ok && counter != nil {
		atomic.AddInt64(counter, 1)
	}
}

// GetRESTCounter returns the current REST call count from the context
func GetRESTCounter(ctx context.Context) int64 {
	if counter, ok := ctx.Value(restCounterKey).(*int64); ok && counter != nil {
		return atomic.LoadInt64(counter)
	}
	return 0
}

// AddRESTElapsed adds elapsed nanoseconds to the REST elapsed time in the context
func AddRESTElapsed(ctx context.Context, nanos int64) {
	if elapsed, ok := ctx.Value(restElapsedKey).(*int64); ok && elapsed != nil {
		atomic.AddInt64(elapsed, nanos)
	}
}

// GetRESTElapsed returns the current REST elapsed time in nanoseconds from the context
func GetRESTElapsed(ctx context.Context) int64 {
	if elapsed, ok := ctx.Value(restElapsedKey).(*int64); ok && elapsed != nil {
		return atomic.LoadInt64(elapsed)
	}
	return 0
}
