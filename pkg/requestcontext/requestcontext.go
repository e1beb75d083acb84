// Package requestcontext carries request-scoped values (request id, client
// metadata, authenticated caller) between middleware, handlers and services.
package requestcontext

import (
	"context"

	id "kycmint/pkg/domain"
)

type (
	requestIDKey   struct{}
	clientIPKey    struct{}
	userAgentKey   struct{}
	clientLabelKey struct{}
	callerKey      struct{}
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestID returns the request id or "" outside an HTTP request.
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey{}).(string)
	return v
}

// WithClientMetadata stores the resolved client IP and raw User-Agent.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey{}, clientIP)
	return context.WithValue(ctx, userAgentKey{}, userAgent)
}

func ClientIP(ctx context.Context) string {
	v, _ := ctx.Value(clientIPKey{}).(string)
	return v
}

func UserAgent(ctx context.Context) string {
	v, _ := ctx.Value(userAgentKey{}).(string)
	return v
}

// WithClientLabel stores a coarse "browser/os" label derived from the User-Agent.
func WithClientLabel(ctx context.Context, label string) context.Context {
	return context.WithValue(ctx, clientLabelKey{}, label)
}

func ClientLabel(ctx context.Context) string {
	v, _ := ctx.Value(clientLabelKey{}).(string)
	return v
}

// WithCaller stores the authenticated caller account.
func WithCaller(ctx context.Context, caller id.AccountID) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// Caller returns the authenticated account, or the nil AccountID when the
// request was not authenticated.
func Caller(ctx context.Context) id.AccountID {
	v, _ := ctx.Value(callerKey{}).(id.AccountID)
	return v
}
