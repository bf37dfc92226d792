// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

// allHubs is the hub value carried by administrators.
const allHubs = "ALL"

// SessionKey is the context key for the authenticated session.
type SessionKey struct{}

// Session is the authenticated user behind one request.
type Session struct {
	ID       uuid.UUID
	Username string
	HubName  string
	IsAdmin  bool
}

// NewSession creates a session with a fresh request ID.
func NewSession(username, hubName string, isAdmin bool) Session {
	return Session{
		ID:       uuid.New(),
		Username: username,
		HubName:  hubName,
		IsAdmin:  isAdmin,
	}
}

// CanAccessHub reports whether the session may read or write hub.
func (s Session) CanAccessHub(hub string) bool {
	return s.IsAdmin || s.HubName == allHubs || s.HubName == hub
}

// WithSession returns a context carrying the session.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, SessionKey{}, s)
}

// SessionFromContext returns the session from context, if any.
func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(SessionKey{}).(Session)
	return s, ok
}

// ActorFromContext returns the username of the session, or empty string if not set.
func ActorFromContext(ctx context.Context) string {
	if s, ok := SessionFromContext(ctx); ok {
		return s.Username
	}
	return ""
}
