package auth

import (
	"context"

	"github.com/cloudtask/cloudtask/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// claimsContextKey is the context key for storing verified Claims.
const claimsContextKey contextKey = "auth_claims"

// ContextWithClaims adds verified Claims to the context.
func ContextWithClaims(ctx context.Context, claims *model.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext retrieves Claims from the context.
// Returns nil if not present.
func ClaimsFromContext(ctx context.Context) *model.Claims {
	claims, ok := ctx.Value(claimsContextKey).(*model.Claims)
	if !ok {
		return nil
	}
	return claims
}

// MustClaimsFromContext retrieves Claims from the context.
// Panics if not present (use only when auth middleware has run).
func MustClaimsFromContext(ctx context.Context) *model.Claims {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		panic("auth claims not found - ensure auth middleware is applied")
	}
	return claims
}

// EmailFromContext is a convenience function to get the caller's email.
// Returns empty string if not authenticated.
func EmailFromContext(ctx context.Context) string {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		return ""
	}
	return claims.Email
}
