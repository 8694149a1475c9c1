package domain

import "time"

// SessionToken is the stored record of an issued bearer token. Only the
// SHA-256 fingerprint of the secret is persisted; the plaintext exists
// solely in the login/refresh response.
type SessionToken struct {
	ID         string
	UserID     string
	Name       string     // client-supplied label, e.g. device name
	TokenHash  string     // base64url SHA-256 of the opaque secret
	ExpiresAt  *time.Time // nil means the token never expires
	LastUsedAt *time.Time
	CreatedAt  time.Time
}

// Expired reports whether the token's deadline has passed at the given
// instant. Tokens with no deadline never expire.
func (t SessionToken) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !t.ExpiresAt.After(now)
}

// Session is the issued credential pair returned to the caller on login and
// refresh. The plaintext Token is never stored.
type Session struct {
	Token     string     `json:"token"`
	TokenType string     `json:"token_type"` // always "Bearer"
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
