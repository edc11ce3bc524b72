package shared

import "context"

type sessionContextKey struct{}

// ContextWithSession stores the request session in context. The session
// middleware installs it once per request; handlers read it back to
// bind or revoke identities.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session, nil when the middleware did
// not run.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}
