// Package requesttime provides the request-scoped clock. Every operation in
// one request observes the same "now", truncated to whole seconds because
// credential expiry is tracked in seconds since the epoch.
package requesttime

import (
	"context"
	"net/http"
	"time"
)

type contextKeyRequestTime struct{}

// Middleware captures the clock once at the start of the request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Now returns the request-scoped time, or the wall clock truncated to the
// second for workers, CLIs and tests that never set one.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(contextKeyRequestTime{}).(time.Time); ok {
		return t
	}
	return time.Now().UTC().Truncate(time.Second)
}

// WithTime pins "now" for the rest of the call chain. Service tests use it to
// move the clock across an expiry boundary.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, contextKeyRequestTime{}, t.UTC().Truncate(time.Second))
}
