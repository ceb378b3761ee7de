// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered account. Email is the primary lookup key.
type User struct {
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Claims carries the verified identity extracted from an access token.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	// TokenID is the jti of the presented token, used for denylisting on logout.
	TokenID string `json:"-"`
	// ExpiresAt is when the presented token expires.
	ExpiresAt time.Time `json:"-"`
}
