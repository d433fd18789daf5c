package session

import (
	"alcyxob/fitness-community/internal/domain"
	"context"
)

type contextKey struct{}

// NewContext returns a copy of ctx carrying the caller's session.
func NewContext(ctx context.Context, sess *domain.Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext returns the session stored by NewContext, if any.
func FromContext(ctx context.Context) (*domain.Session, bool) {
	sess, ok := ctx.Value(contextKey{}).(*domain.Session)
	return sess, ok && sess != nil
}
