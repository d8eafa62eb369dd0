package auth

import (
	"context"

	"github.com/weavelink/weavelink/models"
)

type sessionContextKey struct{}

type claimsContextKey struct{}

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess models.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context. The zero Session is
// returned when nobody is signed in.
func SessionFromContext(ctx context.Context) models.Session {
	sess, _ := ctx.Value(sessionContextKey{}).(models.Session)
	return sess
}

func contextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

func claimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsContextKey{}).(*Claims)
	return claims
}
