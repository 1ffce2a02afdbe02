package security

import (
	"context"

	"labelstartup-backend/internal/domain"
)

// Session is the authenticated caller. Services receive it explicitly; the HTTP layer
// carries it in the request context between middleware and handler.
type Session struct {
	UserID string
	Email  string
	Role   domain.Role
}

// Anonymous is the session of a caller without a token.
var Anonymous = Session{Role: domain.RolePublic}

func (s Session) IsAuthenticated() bool {
	return s.UserID != ""
}

// RequireAuth returns ErrUnauthenticated for anonymous sessions.
func (s Session) RequireAuth() error {
	if !s.IsAuthenticated() {
		return domain.ErrUnauthenticated
	}
	return nil
}

// RequireEvaluator allows evaluators and admins.
func (s Session) RequireEvaluator() error {
	if err := s.RequireAuth(); err != nil {
		return err
	}
	if !s.Role.CanEvaluate() {
		return domain.ErrForbidden
	}
	return nil
}

// RequireAdmin allows admins only.
func (s Session) RequireAdmin() error {
	if err := s.RequireAuth(); err != nil {
		return err
	}
	if !s.Role.CanAdminister() {
		return domain.ErrForbidden
	}
	return nil
}

type sessionKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session stored by the auth middleware, or Anonymous.
func SessionFromContext(ctx context.Context) Session {
	if s, ok := ctx.Value(sessionKey{}).(Session); ok {
		return s
	}
	return Anonymous
}
