package core

import "time"

// Session represents the authenticated actor of the dashboard
type Session struct {
	Token string // Bearer credential for the BloodLink API
	Role  Role   // Role assigned by the backend
}

// Authenticated reports whether the session carries a token
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Credential is an identity provider credential, exchanged once for a session
type Credential string

// ExchangeResult is the backend's answer to a token exchange
type ExchangeResult struct {
	AccessToken string // Bearer token issued by the backend
	Role        string // Authoritative role, not yet validated
}

// TokenClaims are the display-only claims carried by a backend access token
type TokenClaims struct {
	UserID    int64     // Backend user identifier
	Role      string    // Role embedded at issue time
	ExpiresAt time.Time // Zero when the token has no exp claim
}
