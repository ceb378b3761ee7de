package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/cloudtask/cloudtask/internal/model"
)

// Token errors.
var (
	// ErrMissingToken indicates no token was presented.
	ErrMissingToken = errors.New("missing token")
	// ErrInvalidToken indicates the token signature is invalid, the token is
	// malformed, or it has expired.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrTokenRevoked indicates the token was denylisted before expiry.
	ErrTokenRevoked = errors.New("token has been revoked")
)

// Denylist tracks revoked token IDs until their natural expiry.
type Denylist interface {
	Add(ctx context.Context, tokenID string, ttl time.Duration) error
	Contains(ctx context.Context, tokenID string) (bool, error)
}

// tokenClaims is the JWT payload. Email and name are embedded so protected
// handlers never need a user lookup per request.
type tokenClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies signed, time-limited access tokens.
// Tokens are stateless and self-verifying; the denylist is the only
// server-side invalidation mechanism.
type TokenManager struct {
	secret   []byte
	ttl      time.Duration
	denylist Denylist
}

// NewTokenManager creates a TokenManager. A nil denylist disables
// revocation checks.
func NewTokenManager(secret string, ttl time.Duration, denylist Denylist) *TokenManager {
	return &TokenManager{
		secret:   []byte(secret),
		ttl:      ttl,
		denylist: denylist,
	}
}

// TTL returns the configured token lifetime.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a new token asserting the given identity.
func (m *TokenManager) Issue(email, name string) (string, error) {
	now := time.Now()

	claims := tokenClaims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify parses and validates a token and returns the embedded claims.
// Returns ErrMissingToken, ErrInvalidToken, or ErrTokenRevoked on failure.
func (m *TokenManager) Verify(ctx context.Context, tokenString string) (*model.Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if m.denylist != nil && claims.ID != "" {
		revoked, err := m.denylist.Contains(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check denylist: %w", err)
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}

	result := &model.Claims{
		Email:   claims.Email,
		Name:    claims.Name,
		TokenID: claims.ID,
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}

	return result, nil
}

// Revoke denylists the token behind the given claims for the remainder of
// its lifetime. Already-expired tokens are a no-op.
func (m *TokenManager) Revoke(ctx context.Context, claims *model.Claims) error {
	if m.denylist == nil || claims.TokenID == "" {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	if err := m.denylist.Add(ctx, claims.TokenID, ttl); err != nil {
		return fmt.Errorf("denylist token: %w", err)
	}

	return nil
}
