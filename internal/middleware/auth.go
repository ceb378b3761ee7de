package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cloudtask/cloudtask/internal/auth"
)

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger *slog.Logger
	Tokens *auth.TokenManager
}

// Auth returns a middleware that authenticates requests with a bearer token.
// It extracts the token from the Authorization header, verifies the signature,
// expiry, and denylist, and injects the claims into the request context.
//
// A missing token is 401; a presented-but-invalid token is 403. The split
// matches the public API contract.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w, http.StatusUnauthorized, "MISSING_TOKEN", "Access denied. No token provided.")
				return
			}

			claims, err := cfg.Tokens.Verify(r.Context(), token)
			if err != nil {
				reason := "invalid_token"
				if errors.Is(err, auth.ErrTokenRevoked) {
					reason = "revoked_token"
				}

				cfg.Logger.Warn("authentication failed",
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w, http.StatusForbidden, "INVALID_TOKEN", "Invalid or expired token.")
				return
			}

			ctx := auth.ContextWithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractBearerToken extracts the token from the Authorization header.
func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(header, prefix))
}

// writeAuthError writes an authentication failure response.
func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `","code":"` + code + `"}`))
}
