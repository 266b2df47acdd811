// Package requestcontext carries request-scoped values from middleware to
// services without tying services to net/http.
//
// Middleware sets values:
//
//	ctx = requestcontext.WithSessionID(ctx, sessionID)
//	ctx = requestcontext.WithClientMetadata(ctx, ip, userAgent)
//
// Services and tests read them:
//
//	sessionID := requestcontext.SessionID(ctx)
//	now := requestcontext.Now(ctx)
package requestcontext

import (
	"context"
	"time"

	id "memberportal/pkg/domain"
)

type key int

const (
	keyUserID key = iota
	keySessionID
	keyClientIP
	keyUserAgent
	keyRequestID
	keyRequestTime
)

func value[T any](ctx context.Context, k key) T {
	v, _ := ctx.Value(k).(T)
	return v
}

// UserID is the authenticated member, or the nil ID.
func UserID(ctx context.Context) id.UserID {
	return value[id.UserID](ctx, keyUserID)
}

func WithUserID(ctx context.Context, userID id.UserID) context.Context {
	return context.WithValue(ctx, keyUserID, userID)
}

// SessionID is the portal session behind the bearer token, or the nil ID.
func SessionID(ctx context.Context) id.SessionID {
	return value[id.SessionID](ctx, keySessionID)
}

func WithSessionID(ctx context.Context, sessionID id.SessionID) context.Context {
	return context.WithValue(ctx, keySessionID, sessionID)
}

func ClientIP(ctx context.Context) string {
	return value[string](ctx, keyClientIP)
}

func UserAgent(ctx context.Context) string {
	return value[string](ctx, keyUserAgent)
}

// WithClientMetadata stores the caller's IP and User-Agent.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, keyClientIP, clientIP)
	return context.WithValue(ctx, keyUserAgent, userAgent)
}

func RequestID(ctx context.Context) string {
	return value[string](ctx, keyRequestID)
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, keyRequestID, requestID)
}

// Now is the time the request arrived. Outside a request (orchestration
// goroutines, sweepers) it is the wall clock.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(keyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, keyRequestTime, t)
}
