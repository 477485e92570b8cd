package pkglog

import "context"

type (
	correlationIDKey struct{}
	sessionIDKey     struct{}
)

// GetCorrelationID returns the correlation ID stored in the context, or "".
//
// Middleware sets this value early in the request lifecycle so it can be
// attached to every log record of the request.
func GetCorrelationID(ctx context.Context) string {
	cid, _ := ctx.Value(correlationIDKey{}).(string)
	return cid
}

// SetCorrelationID stores a correlation ID into the context.
func SetCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, cid)
}

// GetSessionID returns the dashboard session the request acts on, or "".
func GetSessionID(ctx context.Context) string {
	sid, _ := ctx.Value(sessionIDKey{}).(string)
	return sid
}

// SetSessionID stores the dashboard session ID so logs can be grouped per user.
func SetSessionID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, sid)
}
